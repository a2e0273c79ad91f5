// Package cmd implements the CLI application to generate K4 reports and
// SRU submission files from a brokerage trade export.
package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

// Commands lists the subcommands of the application.
// A main package registers them on a commander and executes the selected one.
var Commands = []subcommands.Command{
	&generateCmd{},
	&initConfigCmd{},
}

// printMarkdown renders a markdown report to the terminal, falling back to
// the raw text when the terminal cannot be styled.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
