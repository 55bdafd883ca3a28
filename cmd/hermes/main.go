package main

import (
	"os"

	"github.com/minsuk-dev/hermes/cmd/hermes/commands"
)

// main is the entry point for the Hermes CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/hermes [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
