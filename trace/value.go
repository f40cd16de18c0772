package trace

import (
	"fmt"
	"strconv"
)

// Kind discriminates the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindSInt
	KindUInt
	KindFloat
	KindString
	KindEnum
	KindBitmask
	KindArray
	KindStruct
	KindBlob
	KindPointer
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindSInt:
		return "sint"
	case KindUInt:
		return "uint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	case KindBitmask:
		return "bitmask"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindBlob:
		return "blob"
	case KindPointer:
		return "pointer"
	default:
		return "unknown"
	}
}

// Value is a tagged sum over every shape §3 of the format allows. Only
// the fields relevant to Kind are populated; the rest are zero.
//
// This is a discriminated union rather than an interface/virtual-dispatch
// hierarchy on purpose: a call's value tree is decoded and thrown away
// per-call, so the smaller, allocation-light representation matters more
// than subtype polymorphism ever would here.
type Value struct {
	Kind Kind

	Bool    bool
	SInt    int64
	UInt    uint64
	Float   float64
	Str     string
	Blob    []byte
	Pointer uint64
	Mask    uint64 // KindBitmask: the raw mask bits

	Enum    *EnumSig
	Bitmask *BitmaskSig
	Struct  *StructSig
	Array   []Value // KindArray
	Members []Value // KindStruct, one per Struct.MemberNames
}

// Null is the shared zero-value representation; re-exported for callers
// that want to compare against it rather than constructing one.
var Null = Value{Kind: KindNull}

func boolValue(b bool) Value    { return Value{Kind: KindBool, Bool: b} }
func sintValue(v int64) Value   { return Value{Kind: KindSInt, SInt: v} }
func uintValue(v uint64) Value  { return Value{Kind: KindUInt, UInt: v} }
func floatValue(v float64) Value { return Value{Kind: KindFloat, Float: v} }
func stringValue(s string) Value { return Value{Kind: KindString, Str: s} }
func blobValue(b []byte) Value  { return Value{Kind: KindBlob, Blob: b} }
func pointerValue(p uint64) Value { return Value{Kind: KindPointer, Pointer: p} }

// String renders a Value the way a trace dump tool would: compact,
// human-readable, and lossless enough to eyeball a call's arguments.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "NULL"
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindSInt:
		return strconv.FormatInt(v.SInt, 10)
	case KindUInt:
		return strconv.FormatUint(v.UInt, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.Str)
	case KindEnum:
		return v.Enum.Name
	case KindBitmask:
		return v.Bitmask.Format(v.Mask)
	case KindArray:
		s := "{"
		for i, e := range v.Array {
			if i > 0 {
				s += ", "
			}
			s += e.String()
		}
		return s + "}"
	case KindStruct:
		s := v.Struct.Name + " {"
		for i, m := range v.Members {
			if i > 0 {
				s += ", "
			}
			name := "?"
			if i < len(v.Struct.MemberNames) {
				name = v.Struct.MemberNames[i]
			}
			s += fmt.Sprintf("%s = %s", name, m.String())
		}
		return s + "}"
	case KindBlob:
		return fmt.Sprintf("blob(%d)", len(v.Blob))
	case KindPointer:
		return fmt.Sprintf("0x%x", v.Pointer)
	default:
		return "?"
	}
}
