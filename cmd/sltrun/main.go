package main

import (
	"fmt"
	"os"

	"sltrun/internal/cli/commands"
	"sltrun/internal/config"
	"sltrun/internal/exitcodes"
)

var version = "dev"

func main() {
	// Environment switches default several flags, load .env first
	config.LoadDotEnv(config.DefaultProjectPath)

	rootCmd := commands.NewRootCommand(version)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitcodes.FromError(err))
	}
}
