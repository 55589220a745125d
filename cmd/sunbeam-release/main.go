package main

import (
	"os"

	"github.com/canonical/sunbeam-release/cmd/sunbeam-release/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
