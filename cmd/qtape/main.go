// Package main provides the qtape CLI.
package main

import (
	"fmt"
	"os"

	"github.com/born-ml/qtape/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
