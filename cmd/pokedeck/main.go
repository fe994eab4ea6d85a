package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rshade/pokedeck/internal/cli"
	"github.com/rshade/pokedeck/pkg/version"
)

func run() error {
	root := cli.NewRootCmd(version.GetVersion())
	return root.ExecuteContext(context.Background())
}

// exitCode maps a command error to a process exit status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}
