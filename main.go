package main

import (
	"os"

	"github.com/hydroseq/penstock/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
