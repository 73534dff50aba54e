package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/docstage/docstage/cmd/docstage/commands"
)

var version = "dev"

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("docstage"),
		kong.Description("Stages documentation builds: templates, themes, and an external renderer."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	global := &commands.Global{}
	if err := ctx.Run(global, &cli); err != nil {
		fmt.Fprintf(os.Stderr, "docstage: %v\n", err)
		os.Exit(1)
	}
}
