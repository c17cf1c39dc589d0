// Package command defines the respkv-cli command tree with urfave/cli/v2.
//
// Without a subcommand the CLI starts the REPL; exec sends one command and
// ping checks that the server answers.
package command
