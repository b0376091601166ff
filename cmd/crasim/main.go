// Package main provides the entry point for the crasim CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/himelbrand/crasim/cmd/crasim/commands"
)

func main() {
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
