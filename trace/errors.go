package trace

import "fmt"

// UnknownTagError is returned when the event loop, a call's detail
// stream, or the value decoder encounters a tag outside the closed set
// this package knows about. Per §7, this is always fatal: the stream is
// out of sync and parsing cannot continue.
type UnknownTagError struct {
	Context string // "event", "call detail", or "value"
	Tag     int
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("apitrace: unknown %s tag %d", e.Context, e.Tag)
}

// UnsupportedVersionError is returned by Open when a trace declares a
// format version newer than this parser understands.
type UnsupportedVersionError struct {
	Version      uint64
	MaxSupported uint64
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("apitrace: unsupported trace format version %d (max supported is %d)", e.Version, e.MaxSupported)
}
