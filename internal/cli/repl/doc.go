// Package repl implements the interactive mode of respkv-cli.
//
//   - repl.go: the read-eval-print loop and its built-in commands
//   - parse.go: splitting an input line into arguments
//   - completer.go: keyword completion
//   - history.go: history persistence
package repl
