package main

import (
	"fmt"

	"github.com/aretw0/tatami/internal/cli"
	"github.com/aretw0/tatami/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <sequence-id>",
	Short: "Export the sequence as a Mermaid diagram",
	Long: `Outputs a Mermaid flowchart (graph TD) of the sequence. With --session the
positions visited by that quiz are highlighted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")

		env, err := openDefault(cmd, cli.Options{FileSessions: true})
		if err != nil {
			return err
		}
		defer env.Close()

		seq, err := env.Library.GetSequence(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if sessionID != "" {
			state, err := env.Library.QuizState(cmd.Context(), sessionID)
			if err != nil {
				return err
			}
			if state.SequenceID == seq.ID {
				overlay = graph.OverlayFromState(state)
			}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(seq, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("session", "s", "", "Highlight the path of this quiz session")
}
