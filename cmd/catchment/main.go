package main

import (
	"os"

	"github.com/MikeSquared-Agency/Catchment/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
