package main

import (
	"fmt"
	"os"

	"github.com/uago3c/uago/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "uago: %v\n", err)
		os.Exit(1)
	}
}
