package repl

import (
	"errors"
	"strconv"
	"strings"
)

// ErrUnbalancedQuotes is returned for a line with an unterminated quote.
var ErrUnbalancedQuotes = errors.New("unbalanced quotes")

// SplitArgs splits a line into arguments. Whitespace separates arguments;
// double quotes allow Go escape sequences such as \n and \x00; single
// quotes are literal except for \'.
func SplitArgs(line string) ([]string, error) {
	var (
		args []string
		cur  strings.Builder
		in   bool
	)

	for i := 0; i < len(line); {
		c := line[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			if in {
				args = append(args, cur.String())
				cur.Reset()
				in = false
			}
			i++

		case c == '"':
			end, s, err := doubleQuoted(line, i)
			if err != nil {
				return nil, err
			}
			cur.WriteString(s)
			in = true
			i = end

		case c == '\'':
			end, s, err := singleQuoted(line, i)
			if err != nil {
				return nil, err
			}
			cur.WriteString(s)
			in = true
			i = end

		default:
			cur.WriteByte(c)
			in = true
			i++
		}
	}

	if in {
		args = append(args, cur.String())
	}
	return args, nil
}

// doubleQuoted unquotes the string starting at line[start] and returns the
// index just past the closing quote.
func doubleQuoted(line string, start int) (int, string, error) {
	for i := start + 1; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '"':
			s, err := strconv.Unquote(line[start : i+1])
			if err != nil {
				return 0, "", err
			}
			return i + 1, s, nil
		}
	}
	return 0, "", ErrUnbalancedQuotes
}

func singleQuoted(line string, start int) (int, string, error) {
	var b strings.Builder
	for i := start + 1; i < len(line); i++ {
		switch {
		case line[i] == '\\' && i+1 < len(line) && line[i+1] == '\'':
			b.WriteByte('\'')
			i++
		case line[i] == '\'':
			return i + 1, b.String(), nil
		default:
			b.WriteByte(line[i])
		}
	}
	return 0, "", ErrUnbalancedQuotes
}
