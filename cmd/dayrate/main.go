package main

import (
	"os"

	"github.com/soluna/dayrate/cmd/dayrate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
