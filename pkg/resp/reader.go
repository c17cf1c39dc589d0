package resp

import (
	"bytes"
	"errors"
	"io"
)

const (
	defaultReadSize = 4096

	// maxEmptyReads bounds consecutive (0, nil) reads before giving up.
	maxEmptyReads = 100
)

// Reader decodes frames from a byte stream.
//
// Bytes are appended to an accumulation buffer and Decode is retried from
// the start of the buffer after every read, so no partial parse state is
// kept between reads.
type Reader struct {
	rd    io.Reader
	buf   bytes.Buffer
	chunk []byte
}

// NewReader returns a Reader that reads up to 4 KiB per call to rd.
func NewReader(rd io.Reader) *Reader {
	return NewReaderSize(rd, defaultReadSize)
}

// NewReaderSize returns a Reader that reads up to size bytes per call to rd.
func NewReaderSize(rd io.Reader, size int) *Reader {
	if size <= 0 {
		size = defaultReadSize
	}
	return &Reader{
		rd:    rd,
		chunk: make([]byte, size),
	}
}

// ReadFrame returns the next complete frame.
//
// io.EOF is returned only on a clean frame boundary; a stream that ends in
// the middle of a frame yields io.ErrUnexpectedEOF. Decode errors other than
// ErrNotComplete are returned as is and leave the stream unusable.
func (r *Reader) ReadFrame() (Frame, error) {
	empty := 0
	for {
		if r.buf.Len() > 0 {
			f, err := Decode(&r.buf)
			if err == nil {
				return f, nil
			}
			if !IsIncomplete(err) {
				return nil, err
			}
		}

		n, err := r.rd.Read(r.chunk)
		if n > 0 {
			r.buf.Write(r.chunk[:n])
			empty = 0
			continue
		}
		if err == nil {
			empty++
			if empty >= maxEmptyReads {
				return nil, io.ErrNoProgress
			}
			continue
		}
		if errors.Is(err, io.EOF) && r.buf.Len() > 0 {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
}

// Buffered returns the number of bytes read but not yet decoded.
func (r *Reader) Buffered() int {
	return r.buf.Len()
}

// HasFrame reports whether a complete frame is already buffered, so the
// next ReadFrame will not block.
func (r *Reader) HasFrame() bool {
	n, err := ExpectLength(r.buf.Bytes())
	return err == nil && n <= r.buf.Len()
}
