// Package main provides the Spten sparse tensor toolkit CLI.
package main

import (
	"os"

	"github.com/spten-ml/spten/internal/cli"
)

const version = "v0.1.0-dev"

func main() {
	if err := cli.New(version).Run(); err != nil {
		os.Exit(1)
	}
}
