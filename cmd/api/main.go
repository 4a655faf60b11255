package main

import (
	"fmt"
	"os"

	"github.com/ayo6706/circulation-scheduler/internal/app"
	"github.com/ayo6706/circulation-scheduler/internal/buildinfo"
)

func main() {
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "circulation-scheduler %s: %v\n", buildinfo.Version, err)
		os.Exit(1)
	}
}
