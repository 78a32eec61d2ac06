package main

import (
	"os"

	"github.com/metaphox/rsfront/cmd/rsfront/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
