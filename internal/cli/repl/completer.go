package repl

import (
	"slices"
	"strings"

	"github.com/yndnr/respkv/internal/core/command"
)

// Builtins are REPL commands handled locally rather than sent to the server.
var Builtins = []string{"connect", "exit", "help", "history"}

// Completer completes command keywords.
type Completer struct {
	commands []string
}

// NewCompleter creates a completer over the server's command keywords and
// the REPL builtins.
func NewCompleter() *Completer {
	cmds := append(command.Names(), Builtins...)
	slices.Sort(cmds)
	return &Completer{commands: slices.Compact(cmds)}
}

// Complete returns the keywords starting with prefix, case-insensitively.
// The suggestions keep the case of the first letter of prefix.
func (c *Completer) Complete(prefix string) []string {
	lower := strings.ToLower(prefix)
	upper := prefix != "" && prefix[0] >= 'A' && prefix[0] <= 'Z'

	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, lower) {
			if upper {
				cmd = strings.ToUpper(cmd)
			}
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
