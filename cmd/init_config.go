package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/evhols/k4"
	"github.com/google/subcommands"
)

// initConfigCmd holds the flags for the 'init-config' subcommand.
type initConfigCmd struct {
	configPath string
}

func (*initConfigCmd) Name() string     { return "init-config" }
func (*initConfigCmd) Synopsis() string { return "write a default configuration file" }
func (*initConfigCmd) Usage() string {
	return `k4gen init-config [-c <config>]

  Writes a configuration file with placeholder personal information and
  default exchange rates. Edit it before generating a real filing.
`
}

func (c *initConfigCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "c", "config.json", "Path of the configuration file to create")
}

func (c *initConfigCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := k4.WriteDefaultConfig(c.configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating config file: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created default configuration file: %s\n", c.configPath)
	return subcommands.ExitSuccess
}
