package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "salonctl",
	Short: "Beauteq salon assistant",
	Long:  `Run and manage the Beauteq Telegram assistant: the bot itself, database migrations, the knowledge corpus and staff API tokens.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
