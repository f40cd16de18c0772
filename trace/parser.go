package trace

import (
	"log"

	"github.com/pkg/errors"
)

// maxValueDepth bounds value-tree recursion so a corrupt or adversarial
// trace cannot blow the Go stack. §4.4 recommends at least 128; nothing
// in a real trace nests anywhere near that deep.
const maxValueDepth = 256

// WarnFunc receives a human-readable diagnostic for a recoverable
// condition (§7): an incomplete call at EOF, a non-leading zero bitmask
// flag, or a LEAVE for an unknown call number. The default forwards to
// the standard log package, matching the teacher's convention of
// logging through it rather than swallowing diagnostics.
type WarnFunc func(format string, args ...interface{})

func defaultWarn(format string, args ...interface{}) {
	log.Printf("apitrace: "+format, args...)
}

// Parser is a pull-style decoder over one gzip-compressed trace file.
// It is single-threaded and cooperative (§5): one NextCall call must
// run to completion before the next is issued, and a Parser must never
// be shared between goroutines.
type Parser struct {
	Warn WarnFunc

	src     *byteSource
	version uint64

	functions signatureTable[FunctionSig]
	enums     signatureTable[EnumSig]
	bitmasks  signatureTable[BitmaskSig]
	structs   signatureTable[StructSig]

	pending    []*Call
	nextCallNo uint32

	closed bool
}

// Open opens path as a gzip-compressed trace, reads and validates the
// version header, and returns a ready-to-use Parser.
func Open(path string) (*Parser, error) {
	src, err := openByteSource(path)
	if err != nil {
		return nil, err
	}

	version := readUvarint(src)
	if version > TraceVersion {
		src.close() // nolint: errcheck
		return nil, &UnsupportedVersionError{Version: version, MaxSupported: TraceVersion}
	}

	return &Parser{
		Warn:    defaultWarn,
		src:     src,
		version: version,
	}, nil
}

// Version reports the format version declared by the trace header.
func (p *Parser) Version() uint64 { return p.version }

// Functions returns every function signature defined so far, in
// ascending id order. The slice is a snapshot; later calls may define
// more signatures but never undefine these.
func (p *Parser) Functions() []*FunctionSig { return p.functions.all() }

// PendingCount reports how many calls have ENTERed but not yet LEFT.
func (p *Parser) PendingCount() int { return len(p.pending) }

// NextCall returns the next completed call, or (nil, nil) at a clean
// EOF. A non-nil error is always fatal (§7): the stream is out of sync
// and the Parser should be closed without calling NextCall again.
func (p *Parser) NextCall() (*Call, error) {
	for {
		tag := p.src.readByte()
		switch eventTag(tag) {
		case eventEnter:
			if err := p.handleEnter(); err != nil {
				return nil, err
			}
			continue
		case eventLeave:
			call, err := p.handleLeave()
			if err != nil {
				return nil, err
			}
			if call == nil {
				// LEAVE for an unknown call number: not fatal, keep reading.
				continue
			}
			return call, nil
		default:
			if tag == eofTag {
				for _, c := range p.pending {
					p.Warn("incomplete call %s", c.Name())
				}
				return nil, nil
			}
			return nil, &UnknownTagError{Context: "event", Tag: tag}
		}
	}
}

// handleEnter reads a function signature reference, assigns a call
// number, and parses the ENTER-phase detail stream. On a clean detail
// EOF the half-formed call is discarded silently, per §4.5.
func (p *Parser) handleEnter() error {
	id := readUvarint(p.src)
	sig, ok := p.functions.lookup(id)
	if !ok {
		name, okName := readString(p.src)
		if !okName {
			return nil // EOF while reading the signature: nothing to recover
		}
		argCount := readUvarint(p.src)
		argNames := make([]string, 0, argCount)
		for i := uint64(0); i < argCount; i++ {
			n, ok := readString(p.src)
			if !ok {
				return nil
			}
			argNames = append(argNames, n)
		}
		sig = &FunctionSig{ID: id, Name: name, ArgNames: argNames}
		p.functions.define(id, sig)
	}

	call := &Call{No: p.nextCallNo, Signature: sig}
	p.nextCallNo++

	complete, err := p.parseCallDetails(call)
	if err != nil {
		return err
	}
	if complete {
		p.pending = append(p.pending, call)
	}
	return nil
}

// handleLeave reads a call number, removes the matching pending call
// (first-match linear scan, per §4.5/§9), and parses its LEAVE-phase
// detail stream. A LEAVE for an unknown number returns (nil, nil): not
// fatal, and the outer loop should keep reading.
func (p *Parser) handleLeave() (*Call, error) {
	no := readUvarint(p.src)

	idx := -1
	for i, c := range p.pending {
		if uint64(c.No) == no {
			idx = i
			break
		}
	}
	if idx == -1 {
		p.Warn("leave for unknown call number %d", no)
		return nil, nil
	}
	call := p.pending[idx]
	p.pending = append(p.pending[:idx], p.pending[idx+1:]...)

	complete, err := p.parseCallDetails(call)
	if err != nil {
		return nil, err
	}
	if !complete {
		return nil, nil
	}
	return call, nil
}

// parseCallDetails reads CALL_ARG/CALL_RET/CALL_END sub-events into
// call until CALL_END (returns true) or EOF (returns false: the call is
// abandoned and the caller should drop it).
func (p *Parser) parseCallDetails(call *Call) (bool, error) {
	for {
		tag := p.src.readByte()
		switch detailTag(tag) {
		case detailEnd:
			return true, nil
		case detailArg:
			index := readUvarint(p.src)
			val, ok, err := p.decodeValue(0)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
			call.setArg(int(index), val)
		case detailRet:
			val, ok, err := p.decodeValue(0)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
			call.Ret = &val
		default:
			if tag == eofTag {
				return false, nil
			}
			return false, &UnknownTagError{Context: "call detail", Tag: tag}
		}
	}
}

// decodeValue reads one tag byte and dispatches per §6's value tag
// table. depth bounds recursion for Array/Struct/Enum nesting; ok is
// false only at a clean EOF (the "-1 sentinel" of §4.4), in which case
// the caller must treat it as an abandoned call, not a value.
func (p *Parser) decodeValue(depth int) (Value, bool, error) {
	if depth > maxValueDepth {
		return Value{}, false, errors.Errorf("apitrace: value nesting exceeds %d levels", maxValueDepth)
	}

	tag := p.src.readByte()
	switch valueTag(tag) {
	case tagNull:
		return Null, true, nil
	case tagFalse:
		return boolValue(false), true, nil
	case tagTrue:
		return boolValue(true), true, nil
	case tagSInt:
		mag := readUvarint(p.src)
		return sintValue(-int64(mag)), true, nil
	case tagUInt:
		return uintValue(readUvarint(p.src)), true, nil
	case tagFloat:
		buf, ok := p.src.readExact(4)
		if !ok {
			return Value{}, false, nil
		}
		return floatValue(float64(decodeFloat32(buf))), true, nil
	case tagDouble:
		buf, ok := p.src.readExact(8)
		if !ok {
			return Value{}, false, nil
		}
		return floatValue(decodeFloat64(buf)), true, nil
	case tagString:
		s, ok := readString(p.src)
		if !ok {
			return Value{}, false, nil
		}
		return stringValue(s), true, nil
	case tagEnum:
		return p.decodeEnum(depth)
	case tagBitmask:
		return p.decodeBitmask()
	case tagArray:
		return p.decodeArray(depth)
	case tagStruct:
		return p.decodeStruct(depth)
	case tagBlob:
		return p.decodeBlob()
	case tagOpaque:
		return pointerValue(readUvarint(p.src)), true, nil
	default:
		if tag == eofTag {
			return Value{}, false, nil
		}
		return Value{}, false, &UnknownTagError{Context: "value", Tag: tag}
	}
}

func (p *Parser) decodeEnum(depth int) (Value, bool, error) {
	id := readUvarint(p.src)
	sig, ok := p.enums.lookup(id)
	if !ok {
		name, okName := readString(p.src)
		if !okName {
			return Value{}, false, nil
		}
		canonical, okVal, err := p.decodeValue(depth + 1)
		if err != nil {
			return Value{}, false, err
		}
		if !okVal {
			return Value{}, false, nil
		}
		sig = &EnumSig{ID: id, Name: name, Value: canonical}
		p.enums.define(id, sig)
	}
	return Value{Kind: KindEnum, Enum: sig}, true, nil
}

func (p *Parser) decodeBitmask() (Value, bool, error) {
	id := readUvarint(p.src)
	sig, ok := p.bitmasks.lookup(id)
	if !ok {
		count := readUvarint(p.src)
		flags := make([]BitmaskFlag, 0, count)
		for i := uint64(0); i < count; i++ {
			name, okName := readString(p.src)
			if !okName {
				return Value{}, false, nil
			}
			bits := readUvarint(p.src)
			if bits == 0 && i != 0 {
				p.Warn("bitmask flag %q is zero but is not the first flag", name)
			}
			flags = append(flags, BitmaskFlag{Name: name, Bits: bits})
		}
		sig = &BitmaskSig{ID: id, Flags: flags}
		p.bitmasks.define(id, sig)
	}
	mask := readUvarint(p.src)
	return Value{Kind: KindBitmask, Bitmask: sig, Mask: mask}, true, nil
}

func (p *Parser) decodeArray(depth int) (Value, bool, error) {
	length := readUvarint(p.src)
	elems := make([]Value, length)
	for i := uint64(0); i < length; i++ {
		v, ok, err := p.decodeValue(depth + 1)
		if err != nil {
			return Value{}, false, err
		}
		if !ok {
			return Value{}, false, nil
		}
		elems[i] = v
	}
	return Value{Kind: KindArray, Array: elems}, true, nil
}

func (p *Parser) decodeStruct(depth int) (Value, bool, error) {
	id := readUvarint(p.src)
	sig, ok := p.structs.lookup(id)
	if !ok {
		name, okName := readString(p.src)
		if !okName {
			return Value{}, false, nil
		}
		count := readUvarint(p.src)
		members := make([]string, 0, count)
		for i := uint64(0); i < count; i++ {
			n, okN := readString(p.src)
			if !okN {
				return Value{}, false, nil
			}
			members = append(members, n)
		}
		sig = &StructSig{ID: id, Name: name, MemberNames: members}
		p.structs.define(id, sig)
	}

	members := make([]Value, len(sig.MemberNames))
	for i := range members {
		v, ok, err := p.decodeValue(depth + 1)
		if err != nil {
			return Value{}, false, err
		}
		if !ok {
			return Value{}, false, nil
		}
		members[i] = v
	}
	return Value{Kind: KindStruct, Struct: sig, Members: members}, true, nil
}

func (p *Parser) decodeBlob() (Value, bool, error) {
	length := readUvarint(p.src)
	if length == 0 {
		return blobValue([]byte{}), true, nil
	}
	buf, ok := p.src.readExact(int(length))
	if !ok {
		return Value{}, false, nil
	}
	return blobValue(buf), true, nil
}

// Close releases the signature tables, any still-pending calls, and the
// underlying byte source. Idempotent.
func (p *Parser) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.pending = nil
	p.functions = signatureTable[FunctionSig]{}
	p.enums = signatureTable[EnumSig]{}
	p.bitmasks = signatureTable[BitmaskSig]{}
	p.structs = signatureTable[StructSig]{}
	return p.src.close()
}
