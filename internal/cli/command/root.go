package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/cli/config"
	"github.com/yndnr/respkv/internal/cli/connection"
	"github.com/yndnr/respkv/internal/cli/output"
	"github.com/yndnr/respkv/internal/cli/repl"
	"github.com/yndnr/respkv/internal/infra/buildinfo"
	"github.com/yndnr/respkv/pkg/resp"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "respkv-cli",
		Usage:   "command-line client for respkv",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Before:  loadConfig,
		Action:  replAction,
		Commands: []*cli.Command{
			ExecCommand(),
			PingCommand(),
			REPLCommand(),
			ConfigCommand(),
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "CLI config file",
			EnvVars: []string{"RESPKV_CLI_CONFIG"},
			Value:   config.DefaultConfigPath(),
		},
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "server address HOST:PORT",
			EnvVars: []string{"RESPKV_CLI_SERVER"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: raw, json, yaml",
			EnvVars: []string{"RESPKV_CLI_OUTPUT"},
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Aliases: []string{"t"},
			Usage:   "dial and round-trip timeout",
			EnvVars: []string{"RESPKV_CLI_TIMEOUT"},
		},
	}
}

// Settings are the effective options after merging file, env and flags.
type Settings struct {
	Server  string
	Output  output.Format
	Timeout time.Duration
	History string

	// Config is the merged configuration and ConfigPath the file it came from.
	Config     *config.CLIConfig
	ConfigPath string
}

const settingsKey = "settings"

// loadConfig reads the config file and applies flag and env overrides.
func loadConfig(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("server") {
		cfg.Server = c.String("server")
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}

	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return err
	}

	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[settingsKey] = &Settings{
		Server:  cfg.Server,
		Output:  format,
		Timeout: cfg.Timeout,
		History: cfg.HistoryPath(),

		Config:     cfg,
		ConfigPath: c.String("config"),
	}
	return nil
}

// GetSettings returns the settings stored by the Before hook.
func GetSettings(c *cli.Context) *Settings {
	if s, ok := c.App.Metadata[settingsKey].(*Settings); ok {
		return s
	}
	d := config.Default()
	return &Settings{
		Server:     d.Server,
		Output:     output.FormatRaw,
		Timeout:    d.Timeout,
		History:    d.HistoryPath(),
		Config:     d,
		ConfigPath: config.DefaultConfigPath(),
	}
}

// ExecCommand sends a single command.
func ExecCommand() *cli.Command {
	return &cli.Command{
		Name:      "exec",
		Aliases:   []string{"x"},
		Usage:     "send one command and print the reply",
		ArgsUsage: "COMMAND [ARG...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "repeat",
				Aliases: []string{"r"},
				Usage:   "send the command N times in one pipeline",
				Value:   1,
			},
		},
		Action: execAction,
	}
}

func execAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("exec: COMMAND is required", 2)
	}
	n := c.Int("repeat")
	if n < 1 {
		return cli.Exit("exec: --repeat must be at least 1", 2)
	}

	cmds := make([][]string, n)
	for i := range cmds {
		cmds[i] = c.Args().Slice()
	}
	return roundTrip(c, cmds)
}

// PingCommand checks connectivity.
func PingCommand() *cli.Command {
	return &cli.Command{
		Name:      "ping",
		Usage:     "check that the server answers",
		ArgsUsage: "[MESSAGE]",
		Action: func(c *cli.Context) error {
			args := []string{"PING"}
			if c.NArg() > 0 {
				args = append(args, c.Args().First())
			}
			return roundTrip(c, [][]string{args})
		},
	}
}

// REPLCommand starts interactive mode.
func REPLCommand() *cli.Command {
	return &cli.Command{
		Name:   "repl",
		Usage:  "start interactive mode (the default)",
		Action: replAction,
	}
}

func roundTrip(c *cli.Context, cmds [][]string) error {
	s := GetSettings(c)
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := connection.Dial(ctx, s.Server, s.Timeout)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer client.Close()

	replies, err := client.Pipeline(ctx, cmds)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	formatter := output.NewFormatter(s.Output)
	w := writer(c)
	failed := false
	for _, reply := range replies {
		if err := formatter.Format(w, reply); err != nil {
			return err
		}
		if _, ok := reply.(resp.SimpleError); ok {
			failed = true
		}
	}
	if failed {
		return cli.Exit("", 1)
	}
	return nil
}

func replAction(c *cli.Context) error {
	if c.NArg() > 0 {
		return cli.Exit(fmt.Sprintf("unknown command %q", c.Args().First()), 2)
	}

	s := GetSettings(c)
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	mgr := connection.NewManager(s.Timeout)
	defer mgr.Disconnect()
	if err := mgr.Connect(ctx, s.Server); err != nil {
		fmt.Fprintf(errWriter(c), "warning: %v\n", err)
	}

	history := repl.NewHistory(s.History)
	if err := history.Load(); err != nil {
		fmt.Fprintf(errWriter(c), "warning: load history: %v\n", err)
	}

	r := repl.New(repl.Config{
		In:        reader(c),
		Out:       writer(c),
		Manager:   mgr,
		Formatter: output.NewFormatter(s.Output),
		History:   history,
		Timeout:   s.Timeout,
	})
	runErr := r.Run(ctx)
	if err := history.Save(); err != nil {
		fmt.Fprintf(errWriter(c), "warning: save history: %v\n", err)
	}
	return runErr
}

func reader(c *cli.Context) io.Reader {
	if c.App.Reader != nil {
		return c.App.Reader
	}
	return os.Stdin
}

func writer(c *cli.Context) io.Writer {
	if c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}

func errWriter(c *cli.Context) io.Writer {
	if c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return os.Stderr
}
