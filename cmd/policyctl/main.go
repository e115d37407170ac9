package main

import (
	"os"

	"policy-service/cmd/policyctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
