package trace

// TraceVersion is the newest trace format version this parser understands.
// A trace whose header declares a higher version is refused at Open time.
const TraceVersion = 1

// eventTag identifies the kind of event at the top of the event loop.
type eventTag int

const (
	eventEnter eventTag = 0
	eventLeave eventTag = 1
)

// detailTag identifies a sub-event inside a call's detail stream.
type detailTag int

const (
	detailEnd detailTag = 0
	detailArg detailTag = 1
	detailRet detailTag = 2
)

// valueTag identifies the wire representation of a single Value. The
// numbering is a producer/consumer compact: it must match the tracer
// that wrote the trace, not just this decoder.
type valueTag int

const (
	tagNull valueTag = iota
	tagFalse
	tagTrue
	tagSInt
	tagUInt
	tagFloat
	tagDouble
	tagString
	tagEnum
	tagBitmask
	tagArray
	tagStruct
	tagBlob
	tagOpaque
)

// eofTag is the sentinel returned by the byte source at end of stream or
// on a decompression error. Every dispatch switch in this package treats
// it as "nothing more to read", never as a distinct wire value.
const eofTag = -1
