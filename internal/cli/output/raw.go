package output

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/yndnr/respkv/pkg/resp"
)

// RawFormatter writes replies the way redis-cli does on a terminal.
type RawFormatter struct{}

// Format implements Formatter.
func (f *RawFormatter) Format(w io.Writer, fr resp.Frame) error {
	bw := bufio.NewWriter(w)
	writeRaw(bw, fr, "")
	return bw.Flush()
}

func writeRaw(w *bufio.Writer, f resp.Frame, indent string) {
	switch v := f.(type) {
	case nil, resp.Null, resp.NullBulkString, resp.NullArray:
		w.WriteString("(nil)\n")
	case resp.SimpleString:
		w.WriteString(string(v) + "\n")
	case resp.SimpleError:
		w.WriteString("(error) " + string(v) + "\n")
	case resp.Integer:
		fmt.Fprintf(w, "(integer) %d\n", int64(v))
	case resp.BulkString:
		w.WriteString(strconv.Quote(string(v)) + "\n")
	case resp.Boolean:
		fmt.Fprintf(w, "(boolean) %t\n", bool(v))
	case resp.Double:
		fmt.Fprintf(w, "(double) %s\n", strconv.FormatFloat(float64(v), 'g', -1, 64))
	case resp.Array:
		writeList(w, v, indent)
	case resp.Set:
		writeList(w, v, indent)
	case resp.Map:
		if len(v) == 0 {
			w.WriteString("(empty hash)\n")
			return
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		width := len(strconv.Itoa(len(keys)))
		for i, k := range keys {
			prefix := fmt.Sprintf("%*d) ", width, i+1)
			if i > 0 {
				w.WriteString(indent)
			}
			w.WriteString(prefix + strconv.Quote(k) + " => ")
			writeRaw(w, v[k], indent+strings.Repeat(" ", len(prefix)))
		}
	}
}

func writeList(w *bufio.Writer, frames []resp.Frame, indent string) {
	if len(frames) == 0 {
		w.WriteString("(empty array)\n")
		return
	}
	width := len(strconv.Itoa(len(frames)))
	for i, e := range frames {
		prefix := fmt.Sprintf("%*d) ", width, i+1)
		if i > 0 {
			w.WriteString(indent)
		}
		w.WriteString(prefix)
		writeRaw(w, e, indent+strings.Repeat(" ", len(prefix)))
	}
}
