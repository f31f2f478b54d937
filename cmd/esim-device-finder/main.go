// Package main is the entry point for esim-device-finder.
package main

import (
	"os"

	"github.com/donaldgifford/esim-device-finder/cmd/esim-device-finder/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
