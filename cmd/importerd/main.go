package main

import (
	"os"

	"github.com/clauseworks/importkit/internal/adapters/driving/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
