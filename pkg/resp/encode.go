package resp

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

const crlf = "\r\n"

// Scientific notation is used for doubles whose magnitude falls outside
// [doubleFixedMin, doubleFixedMax].
const (
	doubleFixedMin = 1e-8
	doubleFixedMax = 1e8
)

// Encode returns the wire encoding of f. It never fails.
//
// A nil Frame encodes as Null.
func Encode(f Frame) []byte {
	return AppendFrame(make([]byte, 0, 64), f)
}

// AppendFrame appends the wire encoding of f to dst and returns the extended slice.
func AppendFrame(dst []byte, f Frame) []byte {
	switch v := f.(type) {
	case SimpleString:
		dst = append(dst, byte(KindSimpleString))
		dst = append(dst, v...)
		return append(dst, crlf...)
	case SimpleError:
		dst = append(dst, byte(KindSimpleError))
		dst = append(dst, v...)
		return append(dst, crlf...)
	case Integer:
		dst = append(dst, byte(KindInteger))
		if v >= 0 {
			dst = append(dst, '+')
		}
		dst = strconv.AppendInt(dst, int64(v), 10)
		return append(dst, crlf...)
	case BulkString:
		dst = appendHeader(dst, KindBulkString, len(v))
		dst = append(dst, v...)
		return append(dst, crlf...)
	case NullBulkString:
		return append(dst, "$-1\r\n"...)
	case Array:
		return appendSequence(dst, KindArray, v)
	case NullArray:
		return append(dst, "*-1\r\n"...)
	case Boolean:
		if v {
			return append(dst, "#t\r\n"...)
		}
		return append(dst, "#f\r\n"...)
	case Double:
		dst = append(dst, byte(KindDouble))
		dst = append(dst, formatDouble(float64(v))...)
		return append(dst, crlf...)
	case Map:
		dst = appendHeader(dst, KindMap, len(v))
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			dst = appendMapKey(dst, k)
			dst = AppendFrame(dst, v[k])
		}
		return dst
	case Set:
		return appendSequence(dst, KindSet, v)
	default:
		// Null and nil.
		return append(dst, "_\r\n"...)
	}
}

// appendMapKey writes k as a SimpleString, or as a BulkString when k holds
// CR or LF and would otherwise break framing.
func appendMapKey(dst []byte, k string) []byte {
	if strings.ContainsAny(k, "\r\n") {
		return AppendFrame(dst, BulkString(k))
	}
	return AppendFrame(dst, SimpleString(k))
}

func appendHeader(dst []byte, k Kind, n int) []byte {
	dst = append(dst, byte(k))
	dst = strconv.AppendInt(dst, int64(n), 10)
	return append(dst, crlf...)
}

func appendSequence(dst []byte, k Kind, frames []Frame) []byte {
	dst = appendHeader(dst, k, len(frames))
	for _, f := range frames {
		dst = AppendFrame(dst, f)
	}
	return dst
}

// formatDouble renders v without the sigil and terminator.
//
// Fixed notation always carries a leading sign. Scientific notation carries
// the mantissa sign, and the exponent is unpadded and signed only when negative:
// 1.23456e8 -> "+1.23456e8", -1.23456e-9 -> "-1.23456e-9".
func formatDouble(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	abs := math.Abs(v)
	if v != 0 && (abs > doubleFixedMax || abs < doubleFixedMin) {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		n, _ := strconv.Atoi(exp)
		return withSign(mantissa) + "e" + strconv.Itoa(n)
	}
	return withSign(strconv.FormatFloat(v, 'f', -1, 64))
}

func withSign(s string) string {
	if strings.HasPrefix(s, "-") {
		return s
	}
	return "+" + s
}
