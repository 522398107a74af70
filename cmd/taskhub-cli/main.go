// Package main provides the entry point for taskhub-cli.
//
// taskhub-cli is the command-line client for TaskHub.
package main

import (
	"fmt"
	"os"

	"github.com/arvel/taskhub-go/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
