package trace

import (
	"compress/gzip"
	"io"
	"os"

	"github.com/pkg/errors"
)

// byteSource wraps a gzip-decompressed file: a single-consumer,
// forward-only, non-seekable stream of bytes. Every higher layer reads
// through this type rather than touching the file or gzip reader
// directly, so decompression errors collapse into plain EOF exactly
// once, at the lowest layer.
type byteSource struct {
	file *os.File
	gz   *gzip.Reader
	err  error // sticky: once set, every further read returns EOF
}

// openByteSource opens path, treating its contents as a gzip stream.
func openByteSource(path string) (*byteSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open trace file %q", path)
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close() // nolint: errcheck
		return nil, errors.Wrapf(err, "open trace file %q as gzip", path)
	}
	// RFC 1952 member concatenation: transparently continue into the
	// next gzip member rather than stopping at the first one's end.
	gz.Multistream(true)
	return &byteSource{file: f, gz: gz}, nil
}

// readByte returns the next byte, or -1 at EOF or on a decompression
// error. Once this returns -1, it returns -1 forever.
func (b *byteSource) readByte() int {
	if b.err != nil {
		return eofTag
	}
	var buf [1]byte
	n, err := io.ReadFull(b.gz, buf[:])
	if n == 1 {
		return int(buf[0])
	}
	if err != nil && err != io.EOF {
		b.err = err
	} else {
		b.err = io.EOF
	}
	return eofTag
}

// readExact reads exactly n bytes, or as many as the stream has before
// EOF. The returned slice is always len(result) == n on success; on
// short read it returns what was read and records the sticky EOF so
// subsequent reads also fail. Callers that need "did this succeed"
// should check the returned bool.
func (b *byteSource) readExact(n int) ([]byte, bool) {
	if b.err != nil {
		return nil, false
	}
	buf := make([]byte, n)
	read, err := io.ReadFull(b.gz, buf)
	if err != nil {
		if err != io.EOF && err != io.ErrUnexpectedEOF {
			b.err = err
		} else {
			b.err = io.EOF
		}
		return buf[:read], false
	}
	return buf, true
}

// close releases the gzip reader and underlying file. Idempotent.
func (b *byteSource) close() error {
	if b.gz == nil {
		return nil
	}
	gzErr := b.gz.Close()
	fErr := b.file.Close()
	b.gz = nil
	b.file = nil
	if gzErr != nil {
		return errors.Wrap(gzErr, "close trace gzip stream")
	}
	if fErr != nil {
		return errors.Wrap(fErr, "close trace file")
	}
	return nil
}
