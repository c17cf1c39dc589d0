package output

import (
	"math"
	"unicode/utf8"

	"github.com/yndnr/respkv/pkg/resp"
)

// ErrorValue is how an error reply appears in structured output.
type ErrorValue struct {
	Error string `json:"error" yaml:"error"`
}

// Value converts a frame into plain Go values for structured encoders.
// Nulls become nil, aggregates become slices and maps, and doubles that
// JSON cannot carry become the strings "inf", "-inf" and "nan". Bulk
// strings that are not valid UTF-8 are kept as []byte.
func Value(f resp.Frame) any {
	switch v := f.(type) {
	case nil, resp.Null, resp.NullBulkString, resp.NullArray:
		return nil
	case resp.SimpleString:
		return string(v)
	case resp.SimpleError:
		return ErrorValue{Error: string(v)}
	case resp.Integer:
		return int64(v)
	case resp.BulkString:
		if utf8.Valid(v) {
			return string(v)
		}
		return []byte(v)
	case resp.Boolean:
		return bool(v)
	case resp.Double:
		d := float64(v)
		switch {
		case math.IsInf(d, 1):
			return "inf"
		case math.IsInf(d, -1):
			return "-inf"
		case math.IsNaN(d):
			return "nan"
		}
		return d
	case resp.Array:
		return values(v)
	case resp.Set:
		return values(v)
	case resp.Map:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = Value(e)
		}
		return out
	default:
		return nil
	}
}

func values(frames []resp.Frame) []any {
	out := make([]any, len(frames))
	for i, f := range frames {
		out[i] = Value(f)
	}
	return out
}
