package main

import (
	"os"

	"github.com/ElPoteRD/CuentaClaras-sub000/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
