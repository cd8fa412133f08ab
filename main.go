package main

import (
	"os"

	"github.com/eventra-io/eventra/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
