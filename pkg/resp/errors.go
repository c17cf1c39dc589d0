package resp

import "errors"

// Protocol limits. A peer that exceeds them is treated as hostile.
const (
	// MaxBulkLen limits the declared length of a single bulk string (512 MiB, as Redis).
	MaxBulkLen = 512 * 1024 * 1024

	// MaxLineLen limits simple lines and length headers (64 KiB).
	MaxLineLen = 64 * 1024

	// MaxAggregateLen limits the element count of an array, set or map.
	MaxAggregateLen = 1024 * 1024

	// MaxDepth limits nesting of aggregate frames.
	MaxDepth = 128
)

var (
	// ErrNotComplete means the buffer does not hold a complete frame yet.
	// It is always recoverable by reading more input.
	ErrNotComplete = errors.New("resp: frame not complete")

	// ErrInvalidFrame means the bytes do not form a valid frame.
	ErrInvalidFrame = errors.New("resp: invalid frame")

	// ErrInvalidFrameType means the leading byte is not the expected sigil.
	ErrInvalidFrameType = errors.New("resp: invalid frame type")

	// ErrInvalidFrameLength means a negative length other than the -1 null marker.
	ErrInvalidFrameLength = errors.New("resp: invalid frame length")

	// ErrLimitExceeded means a protocol limit was exceeded.
	ErrLimitExceeded = errors.New("resp: limit exceeded")
)

// IsIncomplete reports whether err only asks for more input.
func IsIncomplete(err error) bool {
	return errors.Is(err, ErrNotComplete)
}
