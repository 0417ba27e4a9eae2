// Package main is the entry point for the Golden Ticket API.
package main

import (
	"fmt"
	"os"

	"goldenticket/cmd"
	_ "goldenticket/docs"
)

// main is the entry point.
func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
