package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/tatami/internal/cli"
	"github.com/aretw0/tatami/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [sequence-id...]",
	Short: "Check sequence documents for consistency",
	Long: `Reads the documents of the library directory (default: current directory)
and reports shape errors, which would be rejected on save, and data-quality
warnings: dangling edge references, duplicate node ids, multiple hubs and
positions unreachable from the hub.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.LibraryDir == "" {
			cfg.LibraryDir = "."
		}

		env, err := openEnv(cmd, cfg, cli.Options{SkipImport: true})
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()
		ids := args
		if len(ids) == 0 {
			if ids, err = env.Source.ListSequenceIDs(ctx); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		failed, warned := 0, 0
		for _, id := range ids {
			seq, err := env.Source.FetchSequence(ctx, id)
			if err != nil {
				fmt.Fprintf(out, "✗ %s: %v\n", id, err)
				failed++
				continue
			}
			if err := validator.ValidateShape(seq); err != nil {
				fmt.Fprintf(out, "✗ %s: %v\n", id, err)
				failed++
				continue
			}

			report := validator.Lint(seq)
			if report.Clean() {
				fmt.Fprintf(out, "✓ %s\n", id)
				continue
			}
			warned++
			fmt.Fprintf(out, "! %s\n", id)
			for _, w := range report.Warnings() {
				fmt.Fprintf(out, "    %s\n", w)
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d sequences are invalid", failed, len(ids))
		}
		if warned > 0 {
			fmt.Fprintf(out, "%d sequences valid, %d with warnings.\n", len(ids), warned)
			return nil
		}
		if len(ids) == 0 {
			return errors.New("no sequence documents found")
		}
		fmt.Fprintln(out, "Library is valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
