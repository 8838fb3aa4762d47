package main

import (
	"os"

	"termidx/internal/termidxcli"
)

func main() {
	if err := termidxcli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
