// Command citybook manages a flat-file registry of cities.
//
// Usage:
//
//	citybook list
//	citybook add --name Lisbon --country Portugal ...
//	citybook distance "New York" London
//	citybook shell
//
// The data file defaults to ./cities.txt and can be set with --file,
// CITYBOOK_FILE or a citybook.yaml config file.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
