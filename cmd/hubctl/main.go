// Command hubctl manages a personal hub server from the terminal: list and
// edit categories, tags and sites, reorder them, and export the data.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
