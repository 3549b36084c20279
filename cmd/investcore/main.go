package main

import (
	"os"

	"github.com/caixaverso/investcore/cmd/investcore/commands"
)

// main is the entry point for the investcore CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
