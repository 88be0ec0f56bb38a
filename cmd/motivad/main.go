// Package main provides the entry point for the motivad HTTP server.
package main

import (
	"os"

	"github.com/Aman-CERP/motiva/cmd/motivad/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
