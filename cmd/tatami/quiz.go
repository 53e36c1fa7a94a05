package main

import (
	"os"

	"github.com/aretw0/tatami/internal/cli"
	"github.com/aretw0/tatami/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var quizCmd = &cobra.Command{
	Use:   "quiz <sequence-id>",
	Short: "Drill a sequence interactively",
	Long: `Starts on the hub of the sequence. At each position the opponent's reaction
is shown and you pick your response by number, until a finisher is reached.

With --session the quiz is saved as you go and resumed on the next run.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		fresh, _ := cmd.Flags().GetBool("fresh")
		plain, _ := cmd.Flags().GetBool("plain")

		env, err := openDefault(cmd, cli.Options{FileSessions: true})
		if err != nil {
			return err
		}
		defer env.Close()

		return cli.RunSession(env, cli.QuizOptions{
			SequenceID: args[0],
			SessionID:  sessionID,
			Fresh:      fresh,
			Rich:       !plain && tui.IsInteractive(os.Stdout),
		})
	},
}

func init() {
	rootCmd.AddCommand(quizCmd)
	quizCmd.Flags().StringP("session", "s", "", "Session id to save and resume")
	quizCmd.Flags().Bool("fresh", false, "Discard the saved session before starting")
	quizCmd.Flags().Bool("plain", false, "Print raw markdown instead of styled output")
}
