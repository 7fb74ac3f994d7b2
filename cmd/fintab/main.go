package main

import (
	"os"

	"github.com/fintab-dev/fintab/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
