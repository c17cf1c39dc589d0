package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/yndnr/respkv/internal/cli/connection"
	"github.com/yndnr/respkv/internal/cli/output"
)

// Config configures a REPL.
type Config struct {
	In        io.Reader
	Out       io.Writer
	Manager   *connection.Manager
	Formatter output.Formatter
	History   *History
	// Timeout bounds each command round trip; zero means no limit.
	Timeout time.Duration
}

// REPL is the read-eval-print loop.
type REPL struct {
	in        io.Reader
	out       io.Writer
	mgr       *connection.Manager
	formatter output.Formatter
	history   *History
	completer *Completer
	timeout   time.Duration
}

// New creates a REPL.
func New(cfg Config) *REPL {
	r := &REPL{
		in:        cfg.In,
		out:       cfg.Out,
		mgr:       cfg.Manager,
		formatter: cfg.Formatter,
		history:   cfg.History,
		completer: NewCompleter(),
		timeout:   cfg.Timeout,
	}
	if r.formatter == nil {
		r.formatter = &output.RawFormatter{}
	}
	if r.history == nil {
		r.history = NewHistory("")
	}
	return r
}

// Prompt returns the prompt for the current connection.
func (r *REPL) Prompt() string {
	if r.mgr.IsConnected() {
		return r.mgr.Addr() + "> "
	}
	return "not connected> "
}

// Run reads lines until EOF, exit or quit.
func (r *REPL) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for {
		fmt.Fprint(r.out, r.Prompt())
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		r.history.Add(line)

		done, err := r.execute(ctx, line)
		if err != nil {
			fmt.Fprintf(r.out, "(error) %v\n", err)
		}
		if done {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// execute runs one line and reports whether the loop should end.
func (r *REPL) execute(ctx context.Context, line string) (bool, error) {
	args, err := SplitArgs(line)
	if err != nil {
		return false, err
	}
	if len(args) == 0 {
		return false, nil
	}

	switch strings.ToLower(args[0]) {
	case "exit":
		return true, nil
	case "help":
		r.help(args[1:])
		return false, nil
	case "history":
		for i, e := range r.history.Entries() {
			fmt.Fprintf(r.out, "%4d  %s\n", i+1, e)
		}
		return false, nil
	case "connect":
		if len(args) != 2 {
			return false, fmt.Errorf("usage: connect HOST:PORT")
		}
		return false, r.mgr.Connect(ctx, args[1])
	}

	quit := strings.EqualFold(args[0], "quit")
	if err := r.send(ctx, args); err != nil {
		return quit, err
	}
	return quit, nil
}

func (r *REPL) send(ctx context.Context, args []string) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	client, err := r.mgr.Client(ctx)
	if err != nil {
		return err
	}
	reply, err := client.Do(ctx, args...)
	if err != nil {
		return err
	}
	return r.formatter.Format(r.out, reply)
}

func (r *REPL) help(args []string) {
	if len(args) > 0 {
		matches := r.completer.Complete(args[0])
		if len(matches) == 0 {
			fmt.Fprintf(r.out, "no command matches %q\n", args[0])
			return
		}
		fmt.Fprintln(r.out, strings.Join(matches, " "))
		return
	}
	fmt.Fprintln(r.out, "Commands are sent to the server as typed, e.g. SET key \"some value\".")
	fmt.Fprintln(r.out, "Server commands: "+strings.ToUpper(strings.Join(serverCommands(r.completer), " ")))
	fmt.Fprintln(r.out, "Local commands: connect HOST:PORT, history, help [PREFIX], exit")
}

func serverCommands(c *Completer) []string {
	var out []string
	for _, cmd := range c.commands {
		if !slices.Contains(Builtins, cmd) {
			out = append(out, cmd)
		}
	}
	return out
}

