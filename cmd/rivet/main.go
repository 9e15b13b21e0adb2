// Package main is the rivet command.
package main

import (
	"context"
	"os"

	"github.com/leapstack-labs/rivet/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
