package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yndnr/respkv/pkg/resp"
)

var (
	// ErrInvalidCommand means the request is not shaped like a command.
	ErrInvalidCommand = errors.New("invalid command")

	// ErrInvalidArgument means the arguments do not fit the command.
	ErrInvalidArgument = errors.New("invalid argument")
)

func invalidCommand(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCommand, fmt.Sprintf(format, args...))
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

var lineBreaks = strings.NewReplacer("\r", " ", "\n", " ")

// Reply renders err as the error frame sent back to the client.
func Reply(err error) resp.Frame {
	return resp.SimpleError("ERR " + lineBreaks.Replace(err.Error()))
}
