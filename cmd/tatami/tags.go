package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/tatami/pkg/tags"
	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags <text>...",
	Short: "Normalize free-form tags",
	Long: `Joins the arguments with commas, then splits, lowercases, collapses
whitespace and deduplicates them the way stored tags are normalized.`,
	Example: `  tatami tags "Half Guard, half  guard" Sweeps`,
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, tag := range tags.NormalizeTags(strings.Join(args, ",")) {
			fmt.Fprintln(cmd.OutOrStdout(), tag)
		}
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}
