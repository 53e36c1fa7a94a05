package main

import (
	"fmt"

	"github.com/aretw0/tatami/internal/cli"
	"github.com/aretw0/tatami/pkg/export"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write CSV and JSON exports",
}

var exportSequencesCmd = &cobra.Command{
	Use:   "sequences",
	Short: "Export every sequence, its nodes and its edges as CSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, func(env *cli.Env) ([]export.File, error) {
			return env.Library.ExportSequences(cmd.Context())
		})
	},
}

var exportTechniquesCmd = &cobra.Command{
	Use:   "techniques",
	Short: "Export the technique catalogue as CSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, func(env *cli.Env) ([]export.File, error) {
			f, err := env.Library.ExportTechniques(cmd.Context())
			return []export.File{f}, err
		})
	},
}

var exportCurriculumCmd = &cobra.Command{
	Use:   "curriculum <curriculum-id>",
	Short: "Export a curriculum with its lessons as CSV and JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, func(env *cli.Env) ([]export.File, error) {
			return env.Library.ExportCurriculum(cmd.Context(), args[0])
		})
	},
}

func runExport(cmd *cobra.Command, build func(*cli.Env) ([]export.File, error)) error {
	outDir, _ := cmd.Flags().GetString("out")

	env, err := openDefault(cmd, cli.Options{})
	if err != nil {
		return err
	}
	defer env.Close()

	files, err := build(env)
	if err != nil {
		return err
	}
	paths, err := export.Write(outDir, files...)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.PersistentFlags().StringP("out", "o", ".", "Directory to write files into")
	exportCmd.AddCommand(exportSequencesCmd, exportTechniquesCmd, exportCurriculumCmd)
}
