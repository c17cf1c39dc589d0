package resp

import (
	"bytes"
	"fmt"
	"strconv"
)

// Decode removes one complete frame from the front of buf and returns it.
//
// If buf does not yet hold a complete frame, Decode returns ErrNotComplete
// and buf is left untouched. Any other error means the stream is corrupt.
func Decode(buf *bytes.Buffer) (Frame, error) {
	b := buf.Bytes()
	n, err := ExpectLength(b)
	if err != nil {
		return nil, err
	}
	if len(b) < n {
		return nil, ErrNotComplete
	}

	f, used, err := parseFrame(b[:n], 0)
	if err != nil {
		return nil, err
	}
	if used != n {
		return nil, fmt.Errorf("%w: decoded %d bytes, expected %d", ErrInvalidFrame, used, n)
	}
	buf.Next(n)
	return f, nil
}

// DecodeAs is like Decode but fails with ErrInvalidFrameType unless the
// next frame starts with the sigil of kind.
func DecodeAs(buf *bytes.Buffer, kind Kind) (Frame, error) {
	b := buf.Bytes()
	if len(b) == 0 {
		return nil, ErrNotComplete
	}
	if Kind(b[0]) != kind {
		return nil, fmt.Errorf("%w: expected %s, got %q", ErrInvalidFrameType, kind, b[0])
	}
	return Decode(buf)
}

// ExpectLength reports how many bytes the frame at the front of b occupies
// once complete, without consuming anything.
//
// For aggregates every nested frame is probed in turn. The returned length
// may exceed len(b) when only the payload of the last bulk string is
// missing; callers must compare it with the bytes they hold.
func ExpectLength(b []byte) (int, error) {
	return expectLength(b, 0)
}

func expectLength(b []byte, depth int) (int, error) {
	if len(b) == 0 {
		return 0, ErrNotComplete
	}

	kind := Kind(b[0])
	switch kind {
	case KindSimpleString, KindSimpleError, KindInteger, KindDouble:
		end, err := lineEnd(b)
		if err != nil {
			return 0, err
		}
		return end + len(crlf), nil

	case KindNull:
		return matchFixed(b, "_\r\n")

	case KindBoolean:
		return matchBoolean(b)

	case KindBulkString:
		end, n, err := parseLength(b, kind)
		if err != nil {
			return 0, err
		}
		switch {
		case n == -1:
			return end + len(crlf), nil
		case n < -1:
			return 0, fmt.Errorf("%w: %d", ErrInvalidFrameLength, n)
		case n > MaxBulkLen:
			return 0, fmt.Errorf("%w: bulk length %d exceeds limit %d", ErrLimitExceeded, n, MaxBulkLen)
		}
		return end + len(crlf) + n + len(crlf), nil

	case KindArray, KindSet, KindMap:
		end, n, err := parseLength(b, kind)
		if err != nil {
			return 0, err
		}
		if n == -1 && kind == KindArray {
			return end + len(crlf), nil
		}
		if err := checkAggregate(kind, n, depth); err != nil {
			return 0, err
		}
		if kind == KindMap {
			n *= 2
		}
		return totalLength(b, end, n, depth+1)

	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidFrameType, b[0])
	}
}

// totalLength sums the header and count nested frames that follow it.
func totalLength(b []byte, end, count, depth int) (int, error) {
	total := end + len(crlf)
	for i := 0; i < count; i++ {
		if total >= len(b) {
			return 0, ErrNotComplete
		}
		n, err := expectLength(b[total:], depth)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func checkAggregate(kind Kind, n, depth int) error {
	if n < 0 {
		return fmt.Errorf("%w: %s length %d", ErrInvalidFrameLength, kind, n)
	}
	if n > MaxAggregateLen {
		return fmt.Errorf("%w: %s length %d exceeds limit %d", ErrLimitExceeded, kind, n, MaxAggregateLen)
	}
	if depth >= MaxDepth {
		return fmt.Errorf("%w: nesting deeper than %d", ErrLimitExceeded, MaxDepth)
	}
	return nil
}

// lineEnd returns the index of the CR of the first CRLF in b.
func lineEnd(b []byte) (int, error) {
	idx := bytes.Index(b, []byte(crlf))
	if idx < 0 {
		if len(b) > MaxLineLen {
			return 0, fmt.Errorf("%w: line length exceeds limit %d", ErrLimitExceeded, MaxLineLen)
		}
		return 0, ErrNotComplete
	}
	if idx > MaxLineLen {
		return 0, fmt.Errorf("%w: line length exceeds limit %d", ErrLimitExceeded, MaxLineLen)
	}
	return idx, nil
}

// parseLength reads the "<sigil><length>\r\n" header of a frame of the given kind.
func parseLength(b []byte, kind Kind) (end, n int, err error) {
	if len(b) == 0 {
		return 0, 0, ErrNotComplete
	}
	if Kind(b[0]) != kind {
		return 0, 0, fmt.Errorf("%w: expected %s, got %q", ErrInvalidFrameType, kind, b[0])
	}
	end, err = lineEnd(b)
	if err != nil {
		return 0, 0, err
	}
	n, err = strconv.Atoi(string(b[1:end]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid %s length %q", ErrInvalidFrame, kind, b[1:end])
	}
	return end, n, nil
}

// matchFixed checks that b starts with token.
func matchFixed(b []byte, token string) (int, error) {
	if len(b) < len(token) {
		if string(b) == token[:len(b)] {
			return 0, ErrNotComplete
		}
		return 0, fmt.Errorf("%w: expected %q, got %q", ErrInvalidFrame, token, b)
	}
	if string(b[:len(token)]) != token {
		return 0, fmt.Errorf("%w: expected %q, got %q", ErrInvalidFrame, token, b[:len(token)])
	}
	return len(token), nil
}

func matchBoolean(b []byte) (int, error) {
	if len(b) < 2 {
		return 0, ErrNotComplete
	}
	switch b[1] {
	case 't':
		return matchFixed(b, "#t\r\n")
	case 'f':
		return matchFixed(b, "#f\r\n")
	default:
		return 0, fmt.Errorf("%w: invalid boolean %q", ErrInvalidFrame, b[1])
	}
}

// parseFrame decodes the frame at the front of b and reports how many bytes it used.
func parseFrame(b []byte, depth int) (Frame, int, error) {
	if len(b) == 0 {
		return nil, 0, ErrNotComplete
	}

	switch Kind(b[0]) {
	case KindSimpleString:
		line, n, err := parseLine(b)
		if err != nil {
			return nil, 0, err
		}
		return SimpleString(line), n, nil

	case KindSimpleError:
		line, n, err := parseLine(b)
		if err != nil {
			return nil, 0, err
		}
		return SimpleError(line), n, nil

	case KindInteger:
		line, n, err := parseLine(b)
		if err != nil {
			return nil, 0, err
		}
		v, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: invalid integer %q", ErrInvalidFrame, line)
		}
		return Integer(v), n, nil

	case KindDouble:
		line, n, err := parseLine(b)
		if err != nil {
			return nil, 0, err
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: invalid double %q", ErrInvalidFrame, line)
		}
		return Double(v), n, nil

	case KindNull:
		n, err := matchFixed(b, "_\r\n")
		if err != nil {
			return nil, 0, err
		}
		return Null{}, n, nil

	case KindBoolean:
		n, err := matchBoolean(b)
		if err != nil {
			return nil, 0, err
		}
		return Boolean(b[1] == 't'), n, nil

	case KindBulkString:
		return parseBulkString(b)

	case KindArray:
		end, n, err := parseLength(b, KindArray)
		if err != nil {
			return nil, 0, err
		}
		if n == -1 {
			return NullArray{}, end + len(crlf), nil
		}
		frames, used, err := parseSequence(b, KindArray, end, n, depth)
		if err != nil {
			return nil, 0, err
		}
		return Array(frames), used, nil

	case KindSet:
		end, n, err := parseLength(b, KindSet)
		if err != nil {
			return nil, 0, err
		}
		frames, used, err := parseSequence(b, KindSet, end, n, depth)
		if err != nil {
			return nil, 0, err
		}
		return Set(frames), used, nil

	case KindMap:
		return parseMap(b, depth)

	default:
		return nil, 0, fmt.Errorf("%w: %q", ErrInvalidFrameType, b[0])
	}
}

func parseLine(b []byte) (string, int, error) {
	end, err := lineEnd(b)
	if err != nil {
		return "", 0, err
	}
	return string(b[1:end]), end + len(crlf), nil
}

func parseBulkString(b []byte) (Frame, int, error) {
	end, n, err := parseLength(b, KindBulkString)
	if err != nil {
		return nil, 0, err
	}
	if n == -1 {
		return NullBulkString{}, end + len(crlf), nil
	}
	if n < -1 {
		return nil, 0, fmt.Errorf("%w: %d", ErrInvalidFrameLength, n)
	}

	start := end + len(crlf)
	total := start + n + len(crlf)
	if len(b) < total {
		return nil, 0, ErrNotComplete
	}
	if string(b[start+n:total]) != crlf {
		return nil, 0, fmt.Errorf("%w: bulk string not terminated by CRLF", ErrInvalidFrame)
	}

	data := make([]byte, n)
	copy(data, b[start:start+n])
	return BulkString(data), total, nil
}

func parseSequence(b []byte, kind Kind, end, n, depth int) ([]Frame, int, error) {
	if err := checkAggregate(kind, n, depth); err != nil {
		return nil, 0, err
	}

	offset := end + len(crlf)
	frames := make([]Frame, 0, n)
	for i := 0; i < n; i++ {
		f, used, err := parseFrame(b[offset:], depth+1)
		if err != nil {
			return nil, 0, err
		}
		frames = append(frames, f)
		offset += used
	}
	return frames, offset, nil
}

func parseMap(b []byte, depth int) (Frame, int, error) {
	end, n, err := parseLength(b, KindMap)
	if err != nil {
		return nil, 0, err
	}
	if err := checkAggregate(KindMap, n, depth); err != nil {
		return nil, 0, err
	}

	offset := end + len(crlf)
	m := make(Map, n)
	for i := 0; i < n; i++ {
		key, used, err := parseFrame(b[offset:], depth+1)
		if err != nil {
			return nil, 0, err
		}
		offset += used

		var k string
		switch v := key.(type) {
		case SimpleString:
			k = string(v)
		case BulkString:
			k = string(v)
		default:
			return nil, 0, fmt.Errorf("%w: map key must be a string, got %s", ErrInvalidFrame, key.Kind())
		}

		value, used, err := parseFrame(b[offset:], depth+1)
		if err != nil {
			return nil, 0, err
		}
		offset += used
		m[k] = value
	}
	return m, offset, nil
}
