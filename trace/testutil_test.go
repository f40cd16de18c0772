package trace

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"math"
	"os"
	"testing"
)

// This file is the test-only trace writer: a compliant producer used
// to build golden byte streams for round-trip tests (§8 invariant 3).
// It has no exported surface; a real producer is out of scope per §1.

type builder struct {
	buf bytes.Buffer
}

func newBuilder(version uint64) *builder {
	b := &builder{}
	b.uvarint(version)
	return b
}

func (b *builder) byte(v byte) *builder {
	b.buf.WriteByte(v)
	return b
}

func (b *builder) uvarint(v uint64) *builder {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b.buf.WriteByte(c | 0x80)
		} else {
			b.buf.WriteByte(c)
			return b
		}
	}
}

func (b *builder) str(s string) *builder {
	b.uvarint(uint64(len(s)))
	b.buf.WriteString(s)
	return b
}

func (b *builder) blob(data []byte) *builder {
	b.uvarint(uint64(len(data)))
	b.buf.Write(data)
	return b
}

func (b *builder) event(e eventTag) *builder  { return b.byte(byte(e)) }
func (b *builder) detail(d detailTag) *builder { return b.byte(byte(d)) }
func (b *builder) valueTag(t valueTag) *builder { return b.byte(byte(t)) }

// sint/uint/null/bool/string/blob/pointer write a complete tagged value.
func (b *builder) vNull() *builder   { return b.valueTag(tagNull) }
func (b *builder) vBool(v bool) *builder {
	if v {
		return b.valueTag(tagTrue)
	}
	return b.valueTag(tagFalse)
}
func (b *builder) vSInt(v int64) *builder {
	b.valueTag(tagSInt)
	return b.uvarint(uint64(-v))
}
func (b *builder) vUInt(v uint64) *builder {
	b.valueTag(tagUInt)
	return b.uvarint(v)
}
func (b *builder) vString(s string) *builder {
	b.valueTag(tagString)
	return b.str(s)
}
func (b *builder) vBlob(data []byte) *builder {
	b.valueTag(tagBlob)
	return b.blob(data)
}
func (b *builder) vPointer(addr uint64) *builder {
	b.valueTag(tagOpaque)
	return b.uvarint(addr)
}
func (b *builder) vArrayHeader(length int) *builder {
	b.valueTag(tagArray)
	return b.uvarint(uint64(length))
}
func (b *builder) vStructDef(id uint64, name string, members []string) *builder {
	b.valueTag(tagStruct)
	b.uvarint(id)
	b.str(name)
	b.uvarint(uint64(len(members)))
	for _, m := range members {
		b.str(m)
	}
	return b
}
func (b *builder) vStructRef(id uint64) *builder {
	b.valueTag(tagStruct)
	return b.uvarint(id)
}

// vEnumDef writes a new enum signature's id and name; the caller must
// chain on a single value write for the canonical value that follows.
func (b *builder) vEnumDef(id uint64, name string) *builder {
	b.valueTag(tagEnum)
	b.uvarint(id)
	return b.str(name)
}
func (b *builder) vEnumRef(id uint64) *builder {
	b.valueTag(tagEnum)
	return b.uvarint(id)
}

// vBitmaskDef writes a new bitmask signature (its flag names and bits)
// followed by the selected mask. vBitmaskRef reuses an already-defined
// signature and writes only the selected mask.
func (b *builder) vBitmaskDef(id uint64, flags []BitmaskFlag, mask uint64) *builder {
	b.valueTag(tagBitmask)
	b.uvarint(id)
	b.uvarint(uint64(len(flags)))
	for _, f := range flags {
		b.str(f.Name)
		b.uvarint(f.Bits)
	}
	return b.uvarint(mask)
}
func (b *builder) vBitmaskRef(id uint64, mask uint64) *builder {
	b.valueTag(tagBitmask)
	b.uvarint(id)
	return b.uvarint(mask)
}

func (b *builder) vFloat32(v float32) *builder {
	b.valueTag(tagFloat)
	buf := make([]byte, 4)
	binary.NativeEndian.PutUint32(buf, math.Float32bits(v))
	b.buf.Write(buf)
	return b
}
func (b *builder) vFloat64(v float64) *builder {
	b.valueTag(tagDouble)
	buf := make([]byte, 8)
	binary.NativeEndian.PutUint64(buf, math.Float64bits(v))
	b.buf.Write(buf)
	return b
}

// enterDef writes a full ENTER event defining function id for the first
// time. enterRef writes one that reuses an already-defined id.
func (b *builder) enterDef(id uint64, name string, argNames ...string) *builder {
	b.event(eventEnter)
	b.uvarint(id)
	b.str(name)
	b.uvarint(uint64(len(argNames)))
	for _, a := range argNames {
		b.str(a)
	}
	return b
}
func (b *builder) enterRef(id uint64) *builder {
	b.event(eventEnter)
	return b.uvarint(id)
}
func (b *builder) leave(no uint64) *builder {
	b.event(eventLeave)
	return b.uvarint(no)
}
func (b *builder) arg(index uint64) *builder {
	b.detail(detailArg)
	return b.uvarint(index)
}
func (b *builder) ret() *builder {
	return b.detail(detailRet)
}
func (b *builder) end() *builder {
	return b.detail(detailEnd)
}

// file gzips the accumulated bytes into a temp file and returns its
// path; the file is removed automatically when t finishes.
func (b *builder) file(t *testing.T) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "trace-*.trace.gz")
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write(b.buf.Bytes()); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return f.Name()
}
