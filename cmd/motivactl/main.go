// Package main provides the entry point for the motivactl CLI.
package main

import (
	"fmt"
	"os"

	"github.com/Aman-CERP/motiva/cmd/motivactl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
