package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "magie",
	Short: "Magie is a conversational banking assistant",
	Long:  `Magie turns free-text requests into banking operations (balance, transfers, history) using a locally hosted language model, asking follow-up questions until it has everything it needs and confirming before any money moves.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a magie.yaml config file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
