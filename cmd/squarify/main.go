// Command squarify crops the side margins off every WEBP image in a range of
// numbered folders and pads the result to a transparent square, in place.
package main

import (
	"fmt"
	"os"

	"github.com/dixieflatline76/Squarify/config"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	config.AppVersion = version

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
