package main

import (
	"os"

	"github.com/talentdesk/exec-connect/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
