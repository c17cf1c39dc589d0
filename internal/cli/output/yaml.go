package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/respkv/pkg/resp"
)

// YAMLFormatter writes the reply as a YAML document.
type YAMLFormatter struct{}

// Format implements Formatter.
func (f *YAMLFormatter) Format(w io.Writer, fr resp.Frame) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Value(fr)); err != nil {
		return err
	}
	return enc.Close()
}
