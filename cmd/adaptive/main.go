package main

import (
	"os"

	"github.com/rustyeddy/adaptive/cmd/adaptive/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
