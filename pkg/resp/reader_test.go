package resp

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
	"testing/iotest"
)

func TestReader_ReadFrame(t *testing.T) {
	stream := "*2\r\n$3\r\nget\r\n$5\r\nhello\r\n" +
		"*4\r\n$4\r\nsadd\r\n$5\r\nmyset\r\n$5\r\nhello\r\n$5\r\nworld\r\n" +
		"%1\r\n+k\r\n,+1.5\r\n"
	want := []Frame{
		BulkStrings("get", "hello"),
		BulkStrings("sadd", "myset", "hello", "world"),
		Map{"k": Double(1.5)},
	}

	readers := map[string]func(io.Reader) io.Reader{
		"whole":    func(r io.Reader) io.Reader { return r },
		"one byte": iotest.OneByteReader,
		"half":     iotest.HalfReader,
	}

	for name, wrap := range readers {
		t.Run(name, func(t *testing.T) {
			r := NewReaderSize(wrap(strings.NewReader(stream)), 7)
			for i, w := range want {
				got, err := r.ReadFrame()
				if err != nil {
					t.Fatalf("frame %d: ReadFrame() error = %v", i, err)
				}
				if !reflect.DeepEqual(got, w) {
					t.Errorf("frame %d: ReadFrame() = %#v, want %#v", i, got, w)
				}
			}
			if _, err := r.ReadFrame(); !errors.Is(err, io.EOF) {
				t.Errorf("ReadFrame() at end error = %v, want io.EOF", err)
			}
		})
	}
}

func TestReader_UnexpectedEOF(t *testing.T) {
	r := NewReader(strings.NewReader("$5\r\nhel"))
	if _, err := r.ReadFrame(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadFrame() error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestReader_DataErrEOF(t *testing.T) {
	r := NewReader(iotest.DataErrReader(strings.NewReader("+PONG\r\n")))

	got, err := r.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	if got != SimpleString("PONG") {
		t.Errorf("ReadFrame() = %#v, want PONG", got)
	}
	if _, err := r.ReadFrame(); !errors.Is(err, io.EOF) {
		t.Errorf("ReadFrame() error = %v, want io.EOF", err)
	}
}

func TestReader_InvalidFrame(t *testing.T) {
	r := NewReader(strings.NewReader("!bogus\r\n"))
	if _, err := r.ReadFrame(); !errors.Is(err, ErrInvalidFrameType) {
		t.Errorf("ReadFrame() error = %v, want ErrInvalidFrameType", err)
	}
}

func TestReader_ReadError(t *testing.T) {
	boom := errors.New("boom")
	r := NewReader(iotest.ErrReader(boom))
	if _, err := r.ReadFrame(); !errors.Is(err, boom) {
		t.Errorf("ReadFrame() error = %v, want %v", err, boom)
	}
}

type emptyReader struct{}

func (emptyReader) Read([]byte) (int, error) { return 0, nil }

func TestReader_NoProgress(t *testing.T) {
	r := NewReader(emptyReader{})
	if _, err := r.ReadFrame(); !errors.Is(err, io.ErrNoProgress) {
		t.Errorf("ReadFrame() error = %v, want io.ErrNoProgress", err)
	}
}

func TestReader_HasFrame(t *testing.T) {
	r := NewReader(strings.NewReader("+a\r\n+b\r\n"))
	if r.HasFrame() {
		t.Fatal("HasFrame() = true before any read")
	}

	if _, err := r.ReadFrame(); err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	if !r.HasFrame() {
		t.Errorf("HasFrame() = false with %d bytes buffered", r.Buffered())
	}
	if r.Buffered() != 4 {
		t.Errorf("Buffered() = %d, want 4", r.Buffered())
	}

	if _, err := r.ReadFrame(); err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	if r.HasFrame() {
		t.Error("HasFrame() = true with empty buffer")
	}
}
