package trace

import (
	"encoding/binary"
	"math"
)

// decodeFloat32 and decodeFloat64 read raw IEEE-754 bytes in host byte
// order, per §4.4 / design note (c): the wire format never specifies an
// endianness of its own, it simply inherits whatever the producer's
// host used. Cross-endian traces are not guaranteed to decode correctly;
// that is a format limitation, not a bug in this decoder.
func decodeFloat32(buf []byte) float32 {
	return math.Float32frombits(binary.NativeEndian.Uint32(buf))
}

func decodeFloat64(buf []byte) float64 {
	return math.Float64frombits(binary.NativeEndian.Uint64(buf))
}
