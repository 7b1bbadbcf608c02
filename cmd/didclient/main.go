package main

import (
	"os"

	"didclient/cmd/didclient/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
