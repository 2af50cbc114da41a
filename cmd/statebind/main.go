package main

import (
	"fmt"
	"os"

	"github.com/roach88/statebind/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "statebind: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
