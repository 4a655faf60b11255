package main

import (
	"os"

	"github.com/ayo6706/circulation-scheduler/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
