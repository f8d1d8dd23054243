package main

import (
	"os"

	"github.com/sailkite/dockyard/src/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
