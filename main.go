package main

import (
	"os"

	"github.com/huertalab/durazno/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
