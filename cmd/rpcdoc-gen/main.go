// Package main provides the rpcdoc-gen command.
package main

import (
	"os"

	"github.com/rpavlik/kanboard-documentation/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
