package main

import (
	"os"

	"github.com/bioinformaticsguy/sandbox-launchpad/commands"
)

func main() {
	root := commands.NewRootCommand(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		os.Exit(2)
	}
}
