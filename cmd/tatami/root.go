package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/tatami/internal/cli"
	"github.com/aretw0/tatami/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tatami",
	Short: "Tatami is a drilling library for grappling sequences",
	Long: `Tatami stores position graphs (sequences) and quizzes you on them:
the opponent reacts, you pick the response, until the sequence finishes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "tatami.yaml", "Config file (YAML or JSON); ignored when missing")
	rootCmd.PersistentFlags().String("dir", "", "Directory of sequence documents to load")
	rootCmd.PersistentFlags().String("store", "", "Store driver: memory, sqlite or redis")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// loadConfig resolves the config file and environment, then applies flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.LibraryDir, _ = flags.GetString("dir")
	}
	if flags.Changed("store") {
		cfg.Store, _ = flags.GetString("store")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	return cfg, cfg.Validate()
}

func openEnv(cmd *cobra.Command, cfg config.Config, opts cli.Options) (*cli.Env, error) {
	opts.Debug, _ = cmd.Flags().GetBool("debug")
	return cli.Open(cmd.Context(), cfg, opts)
}

// openDefault loads the config and opens the library in one step.
func openDefault(cmd *cobra.Command, opts cli.Options) (*cli.Env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return openEnv(cmd, cfg, opts)
}
