package main

import (
	"os"

	"github.com/kirillkom/legal-clause-validator/internal/adapters/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
