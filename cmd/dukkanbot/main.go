// Package main is the entry point for the dukkanbot CLI.
package main

import (
	"os"

	"github.com/DukkanBot/DukkanBot/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
