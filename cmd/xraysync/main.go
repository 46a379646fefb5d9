package main

import (
	"os"

	"github.com/fjglira/xraysync/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
