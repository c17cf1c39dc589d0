package command

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/yndnr/respkv/internal/cli/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "CLI configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "print the effective configuration",
				Action: configShow,
			},
			{
				Name:   "save",
				Usage:  "write the effective configuration to the config file",
				Action: configSave,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	s := GetSettings(c)
	data, err := yaml.Marshal(s.Config)
	if err != nil {
		return err
	}

	w := writer(c)
	fmt.Fprintf(w, "# %s\n", s.ConfigPath)
	_, err = w.Write(data)
	return err
}

func configSave(c *cli.Context) error {
	s := GetSettings(c)
	if err := config.Save(s.Config, s.ConfigPath); err != nil {
		return cli.Exit(fmt.Sprintf("save config: %v", err), 1)
	}
	fmt.Fprintf(writer(c), "saved %s\n", s.ConfigPath)
	return nil
}
