package main

import (
	"os"

	"github.com/atlasgraph/weaviate-atlas/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
