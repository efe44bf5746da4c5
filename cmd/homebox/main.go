package main

import (
	"os"

	"github.com/S0me0neR0man/homebox/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
