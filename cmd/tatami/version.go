package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/tatami"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tatami",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tatami version %s\n", strings.TrimSpace(tatami.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
