package main

import (
	"os"

	"github.com/mattermost/bomsign/commands"

	_ "github.com/mattermost/bomsign/parsers"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
