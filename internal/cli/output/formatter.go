package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/yndnr/respkv/pkg/resp"
)

// Format is an output format name.
type Format string

// Supported formats.
const (
	FormatRaw  Format = "raw"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported format names.
func Formats() []string {
	return []string{string(FormatRaw), string(FormatJSON), string(FormatYAML)}
}

// ParseFormat validates a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatRaw, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want one of %s)", s, strings.Join(Formats(), ", "))
	}
}

// Formatter writes one reply.
type Formatter interface {
	Format(w io.Writer, f resp.Frame) error
}

// NewFormatter returns the formatter for format. Unknown formats get raw.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &RawFormatter{}
	}
}
