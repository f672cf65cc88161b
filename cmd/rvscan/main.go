package main

import (
	"os"

	"github.com/wonny/rvscan/cmd/rvscan/commands"
)

// main is the entry point for the rvscan CLI
// ⭐ single CLI entry point: go run ./cmd/rvscan [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
