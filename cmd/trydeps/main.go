// Package main is the entry point for the trydeps CLI.
package main

import (
	"os"

	"trydeps/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
