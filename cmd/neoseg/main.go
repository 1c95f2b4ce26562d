package main

import (
	"os"

	"github.com/MIRTK/NeoSeg/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
