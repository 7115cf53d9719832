package main

import (
	"os"

	"github.com/tkingovr/promptserver/cmd/promptserver/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
