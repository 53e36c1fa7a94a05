package main

import (
	"fmt"
	"os"

	"github.com/aretw0/tatami/internal/cli"
	"github.com/aretw0/tatami/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <sequence-id>",
	Short: "Print a sequence as a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plain, _ := cmd.Flags().GetBool("plain")

		env, err := openDefault(cmd, cli.Options{})
		if err != nil {
			return err
		}
		defer env.Close()

		seq, err := env.Library.GetSequence(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		render := tui.NewRenderer(!plain && tui.IsInteractive(os.Stdout))
		out, err := render(tui.SequenceMarkdown(seq))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().Bool("plain", false, "Print raw markdown instead of styled output")
}
