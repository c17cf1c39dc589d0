package output

import (
	"encoding/json"
	"io"

	"github.com/yndnr/respkv/pkg/resp"
)

// JSONFormatter writes the reply as indented JSON.
type JSONFormatter struct{}

// Format implements Formatter.
func (f *JSONFormatter) Format(w io.Writer, fr resp.Frame) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(Value(fr))
}
