// Package main provides dirdoc, an embedded path-addressed document store
// with a small CLI and interactive shell on top.
package main

import (
	"os"

	"github.com/dirdoc/dirdoc/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Stdin, os.Stdout, os.Stderr, os.Args))
}
