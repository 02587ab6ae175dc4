// Package main provides the recordbook CLI: a small HTTP backend that
// accepts JSON records, persists them, and mirrors them to a spreadsheet.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
