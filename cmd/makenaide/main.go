package main

import (
	"os"

	"github.com/jsj9346/makenaide/cmd/makenaide/commands"
)

// main is the entry point for the Makenaide CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/makenaide [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
