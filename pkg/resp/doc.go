// Package resp implements the RESP wire format used by respkv.
//
// The package is split by concern:
//
//   - frame.go: the Frame value model (one Go type per wire variant)
//   - encode.go: Frame -> bytes
//   - decode.go: bytes -> Frame, plus the ExpectLength probe
//   - reader.go: streaming decode over an io.Reader
//
// Decoding never consumes a partial frame. When the buffered bytes do not
// yet hold a complete frame, Decode returns ErrNotComplete and leaves the
// buffer untouched, so the caller can append more bytes and retry from the
// beginning without keeping parser state between reads.
//
// Supported variants:
//
//	+  SimpleString     "+OK\r\n"
//	-  SimpleError      "-ERR message\r\n"
//	:  Integer          ":+123\r\n"
//	$  BulkString       "$5\r\nhello\r\n"  (null: "$-1\r\n")
//	*  Array            "*2\r\n...\r\n"     (null: "*-1\r\n")
//	_  Null             "_\r\n"
//	#  Boolean          "#t\r\n"
//	,  Double           ",+1.5\r\n"
//	%  Map              "%1\r\n+key\r\n<value>"
//	~  Set              "~2\r\n..."
package resp
