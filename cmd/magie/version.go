package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/magie"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of magie",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("magie version %s\n", strings.TrimSpace(magie.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
