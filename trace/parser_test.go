package trace

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func openTest(t *testing.T, b *builder) *Parser {
	t.Helper()
	p, err := Open(b.file(t))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { p.Close() }) // nolint: errcheck
	return p
}

func TestTrivialCall(t *testing.T) {
	a := assert.New(t)
	b := newBuilder(1).enterDef(0, "f").end().leave(0).end()
	p := openTest(t, b)

	call, err := p.NextCall()
	a.NoError(err)
	if a.NotNil(call) {
		a.EqualValues(0, call.No)
		a.Equal("f", call.Name())
		a.Empty(call.Args)
		a.Nil(call.Ret)
	}

	call, err = p.NextCall()
	a.NoError(err)
	a.Nil(call)
}

func TestOneIntegerArgument(t *testing.T) {
	a := assert.New(t)
	b := newBuilder(1).
		enterDef(0, "g", "x").arg(0).vUInt(42).end().
		leave(0).end()
	p := openTest(t, b)

	call, err := p.NextCall()
	a.NoError(err)
	if a.NotNil(call) {
		a.Equal("g", call.Name())
		if a.Len(call.Args, 1) {
			a.Equal(KindUInt, call.Args[0].Kind)
			a.EqualValues(42, call.Args[0].UInt)
		}
	}
}

func TestInterleavedEnterLeaveSurfacesInLeaveOrder(t *testing.T) {
	a := assert.New(t)
	b := newBuilder(1).
		enterDef(0, "a", "x").arg(0).vUInt(1).end().
		enterDef(1, "b", "y").arg(0).vUInt(2).end().
		leave(1).end().
		leave(0).end()
	p := openTest(t, b)

	first, err := p.NextCall()
	a.NoError(err)
	if a.NotNil(first) {
		a.Equal("b", first.Name())
		a.EqualValues(1, first.No)
	}

	second, err := p.NextCall()
	a.NoError(err)
	if a.NotNil(second) {
		a.Equal("a", second.Name())
		a.EqualValues(0, second.No)
	}
}

func TestSignatureReuseSharesSamePointer(t *testing.T) {
	a := assert.New(t)
	b := newBuilder(1).
		enterDef(0, "h").end().leave(0).end().
		enterRef(0).end().leave(1).end()
	p := openTest(t, b)

	first, err := p.NextCall()
	a.NoError(err)
	second, err := p.NextCall()
	a.NoError(err)

	if a.NotNil(first) && a.NotNil(second) {
		a.Same(first.Signature, second.Signature)
	}
}

func TestNestedStruct(t *testing.T) {
	a := assert.New(t)
	b := newBuilder(1).enterDef(0, "k", "s").arg(0)
	b.vStructDef(0, "Point", []string{"x", "y"})
	b.vUInt(1).vUInt(2)
	b.end().leave(0).end()
	p := openTest(t, b)

	call, err := p.NextCall()
	a.NoError(err)
	if a.NotNil(call) && a.Len(call.Args, 1) {
		v := call.Args[0]
		a.Equal(KindStruct, v.Kind)
		a.Len(v.Members, 2)
		a.Len(v.Struct.MemberNames, 2)
		a.EqualValues(1, v.Members[0].UInt)
		a.EqualValues(2, v.Members[1].UInt)
	}
}

func TestUnknownValueTagIsFatal(t *testing.T) {
	a := assert.New(t)
	b := newBuilder(1).enterDef(0, "m", "x").arg(0).byte(99).end().leave(0).end()
	p := openTest(t, b)

	call, err := p.NextCall()
	a.Nil(call)
	var tagErr *UnknownTagError
	a.ErrorAs(err, &tagErr)
	a.Equal(99, tagErr.Tag)
}

func TestEmptyStringArgument(t *testing.T) {
	a := assert.New(t)
	b := newBuilder(1).enterDef(0, "f", "s").arg(0).vString("").end().leave(0).end()
	p := openTest(t, b)

	call, err := p.NextCall()
	a.NoError(err)
	if a.NotNil(call) && a.Len(call.Args, 1) {
		a.Equal(KindString, call.Args[0].Kind)
		a.Equal("", call.Args[0].Str)
	}
}

func TestEmptyBlob(t *testing.T) {
	a := assert.New(t)
	b := newBuilder(1).enterDef(0, "f", "b").arg(0).vBlob(nil).end().leave(0).end()
	p := openTest(t, b)

	call, err := p.NextCall()
	a.NoError(err)
	if a.NotNil(call) && a.Len(call.Args, 1) {
		a.Equal(KindBlob, call.Args[0].Kind)
		a.Empty(call.Args[0].Blob)
	}
}

func TestEmptyArray(t *testing.T) {
	a := assert.New(t)
	b := newBuilder(1).enterDef(0, "f", "arr").arg(0).vArrayHeader(0).end().leave(0).end()
	p := openTest(t, b)

	call, err := p.NextCall()
	a.NoError(err)
	if a.NotNil(call) && a.Len(call.Args, 1) {
		a.Equal(KindArray, call.Args[0].Kind)
		a.Empty(call.Args[0].Array)
	}
}

func TestStructWithZeroMembers(t *testing.T) {
	a := assert.New(t)
	b := newBuilder(1).enterDef(0, "f", "s").arg(0)
	b.vStructDef(0, "Empty", nil)
	b.end().leave(0).end()
	p := openTest(t, b)

	call, err := p.NextCall()
	a.NoError(err)
	if a.NotNil(call) && a.Len(call.Args, 1) {
		a.Equal(KindStruct, call.Args[0].Kind)
		a.Empty(call.Args[0].Members)
	}
}

func TestSIntZeroEqualsUIntZeroNumerically(t *testing.T) {
	a := assert.New(t)
	b := newBuilder(1).enterDef(0, "f", "a", "b").
		arg(0).vSInt(0).
		arg(1).vUInt(0).
		end().leave(0).end()
	p := openTest(t, b)

	call, err := p.NextCall()
	a.NoError(err)
	if a.NotNil(call) && a.Len(call.Args, 2) {
		a.Equal(KindSInt, call.Args[0].Kind)
		a.Equal(KindUInt, call.Args[1].Kind)
		a.EqualValues(0, call.Args[0].SInt)
		a.EqualValues(0, call.Args[1].UInt)
	}
}

func TestSparseArgsFillMissingPositionsWithNull(t *testing.T) {
	a := assert.New(t)
	b := newBuilder(1).enterDef(0, "f", "a", "b", "c").
		arg(2).vUInt(7).
		end().leave(0).end()
	p := openTest(t, b)

	call, err := p.NextCall()
	a.NoError(err)
	if a.NotNil(call) && a.Len(call.Args, 3) {
		a.Equal(KindNull, call.Args[0].Kind)
		a.Equal(KindNull, call.Args[1].Kind)
		a.EqualValues(7, call.Args[2].UInt)
	}
}

func TestLeaveForUnknownCallNumberIsNotFatal(t *testing.T) {
	a := assert.New(t)
	// An unmatched LEAVE carries no detail stream to skip (mirrors the
	// reference parser's parse_leave, which returns immediately without
	// reading one): the next bytes are the following event directly.
	b := newBuilder(1).leave(42).enterDef(0, "f").end().leave(0).end()
	p := openTest(t, b)

	call, err := p.NextCall()
	a.NoError(err)
	if a.NotNil(call) {
		a.Equal("f", call.Name())
	}
}

func TestIncompleteCallAtEOFIsWarnedNotFatal(t *testing.T) {
	a := assert.New(t)
	b := newBuilder(1).enterDef(0, "f").end()
	p := openTest(t, b)

	var warned []string
	p.Warn = func(format string, args ...interface{}) {
		warned = append(warned, fmt.Sprintf(format, args...))
	}

	call, err := p.NextCall()
	a.NoError(err)
	a.Nil(call)
	if a.Len(warned, 1) {
		a.Contains(warned[0], "f")
	}
}

func TestRetValue(t *testing.T) {
	a := assert.New(t)
	b := newBuilder(1).enterDef(0, "f").end().leave(0).ret().vUInt(99).end()
	p := openTest(t, b)

	call, err := p.NextCall()
	a.NoError(err)
	if a.NotNil(call) && a.NotNil(call.Ret) {
		a.EqualValues(99, call.Ret.UInt)
	}
}

func TestDoubleCloseIsNoop(t *testing.T) {
	a := assert.New(t)
	b := newBuilder(1).enterDef(0, "f").end().leave(0).end()
	p := openTest(t, b)
	a.NoError(p.Close())
	a.NoError(p.Close())
}

func TestEnumValue(t *testing.T) {
	a := assert.New(t)
	b := newBuilder(1).enterDef(0, "f", "c").arg(0)
	b.vEnumDef(0, "Color").vUInt(2)
	b.end().leave(0).end()
	p := openTest(t, b)

	call, err := p.NextCall()
	a.NoError(err)
	if a.NotNil(call) && a.Len(call.Args, 1) {
		v := call.Args[0]
		a.Equal(KindEnum, v.Kind)
		if a.NotNil(v.Enum) {
			a.Equal("Color", v.Enum.Name)
			a.Equal(KindUInt, v.Enum.Value.Kind)
			a.EqualValues(2, v.Enum.Value.UInt)
		}
	}
}

func TestEnumSignatureReuseSharesSamePointer(t *testing.T) {
	a := assert.New(t)
	b := newBuilder(1).
		enterDef(0, "f", "c").arg(0)
	b.vEnumDef(0, "Color").vUInt(2)
	b.end().leave(0).end().
		enterDef(1, "g", "c").arg(0).vEnumRef(0).end().leave(1).end()
	p := openTest(t, b)

	first, err := p.NextCall()
	a.NoError(err)
	second, err := p.NextCall()
	a.NoError(err)

	if a.NotNil(first) && a.NotNil(second) {
		a.Same(first.Args[0].Enum, second.Args[0].Enum)
	}
}

func TestBitmaskValue(t *testing.T) {
	a := assert.New(t)
	flags := []BitmaskFlag{{Name: "Read", Bits: 1}, {Name: "Write", Bits: 2}}
	b := newBuilder(1).enterDef(0, "f", "m").arg(0).vBitmaskDef(0, flags, 3).end().leave(0).end()
	p := openTest(t, b)

	call, err := p.NextCall()
	a.NoError(err)
	if a.NotNil(call) && a.Len(call.Args, 1) {
		v := call.Args[0]
		a.Equal(KindBitmask, v.Kind)
		a.EqualValues(3, v.Mask)
		if a.NotNil(v.Bitmask) {
			a.Len(v.Bitmask.Flags, 2)
		}
	}
}

func TestBitmaskNonLeadingZeroFlagWarns(t *testing.T) {
	a := assert.New(t)
	flags := []BitmaskFlag{{Name: "None", Bits: 1}, {Name: "Unused", Bits: 0}}
	b := newBuilder(1).enterDef(0, "f", "m").arg(0).vBitmaskDef(0, flags, 1).end().leave(0).end()
	p := openTest(t, b)

	var warned []string
	p.Warn = func(format string, args ...interface{}) {
		warned = append(warned, fmt.Sprintf(format, args...))
	}

	call, err := p.NextCall()
	a.NoError(err)
	a.NotNil(call)
	if a.Len(warned, 1) {
		a.Contains(warned[0], "Unused")
	}
}

func TestBitmaskLeadingZeroFlagDoesNotWarn(t *testing.T) {
	a := assert.New(t)
	flags := []BitmaskFlag{{Name: "None", Bits: 0}, {Name: "Read", Bits: 1}}
	b := newBuilder(1).enterDef(0, "f", "m").arg(0).vBitmaskDef(0, flags, 0).end().leave(0).end()
	p := openTest(t, b)

	var warned []string
	p.Warn = func(format string, args ...interface{}) {
		warned = append(warned, fmt.Sprintf(format, args...))
	}

	call, err := p.NextCall()
	a.NoError(err)
	a.NotNil(call)
	a.Empty(warned)
}

func TestFloat32Value(t *testing.T) {
	a := assert.New(t)
	b := newBuilder(1).enterDef(0, "f", "x").arg(0).vFloat32(3.5).end().leave(0).end()
	p := openTest(t, b)

	call, err := p.NextCall()
	a.NoError(err)
	if a.NotNil(call) && a.Len(call.Args, 1) {
		a.Equal(KindFloat, call.Args[0].Kind)
		a.InDelta(3.5, call.Args[0].Float, 0.0001)
	}
}

func TestFloat64Value(t *testing.T) {
	a := assert.New(t)
	b := newBuilder(1).enterDef(0, "f", "x").arg(0).vFloat64(2.71828182845904).end().leave(0).end()
	p := openTest(t, b)

	call, err := p.NextCall()
	a.NoError(err)
	if a.NotNil(call) && a.Len(call.Args, 1) {
		a.Equal(KindFloat, call.Args[0].Kind)
		a.InDelta(2.71828182845904, call.Args[0].Float, 1e-12)
	}
}

func TestUnsupportedVersionRejectedAtOpen(t *testing.T) {
	a := assert.New(t)
	b := newBuilder(TraceVersion + 1)
	_, err := Open(b.file(t))
	var verErr *UnsupportedVersionError
	a.ErrorAs(err, &verErr)
}
