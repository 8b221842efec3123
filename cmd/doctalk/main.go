// Package main is the entry point for the doctalk CLI.
//
// Usage:
//
//	doctalk [flags] <command> [args]
//
// Commands:
//
//	generate   - Curate a DocTalk episode from a document, article URL, or script
//	extract    - Preview the text extracted from a document or URL
//	version    - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/praven80/doctalk/cmd/doctalk/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
