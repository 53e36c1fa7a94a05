package main

import (
	"fmt"

	"github.com/aretw0/tatami/internal/cli"
	"github.com/aretw0/tatami/internal/config"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Copy sequence documents into the store",
	Long: `Reads every sequence document under dir and saves it into the configured
store. Existing sequences with the same id are replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg.LibraryDir = args[0]

		env, err := openEnv(cmd, cfg, cli.Options{SkipImport: true})
		if err != nil {
			return err
		}
		defer env.Close()

		if cfg.Store == config.DriverMemory {
			env.Logger.Warn("memory store selected, imported sequences are lost on exit")
		}

		n, err := env.Library.ImportSequences(cmd.Context(), env.Source)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d sequences into the %s store.\n", n, cfg.Store)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
