// Package main is the entry point for the taskdeck terminal UI.
package main

import (
	"fmt"
	"os"

	"github.com/tOgg1/taskdeck/internal/cli"
)

// Version information (set by goreleaser)
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
