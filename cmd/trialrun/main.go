package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/milk9111/roomtrials/logging"
	"github.com/milk9111/roomtrials/prefabs"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "trialrun",
		Short: "Run room-trial experiments headless",
		Long: `trialrun drives the room-trial simulation without a window.

It can run tengo scenario scripts against an experiment prefab, play an
experiment in the terminal, or print the resolved experiment configuration.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("experiment", "experiment.yaml", "Experiment prefab (prefabs/ on disk, then embedded)")
	rootCmd.PersistentFlags().String("log", "info", "Log level: trace, debug, info, warn")

	rootCmd.AddCommand(
		newRunCmd(),
		newPlayCmd(),
		newConfigCmd(),
		newScriptsCmd(),
	)
	return rootCmd
}

func loadExperiment(cmd *cobra.Command) (prefabs.ExperimentSpec, error) {
	name, _ := cmd.Flags().GetString("experiment")
	spec, err := prefabs.LoadExperiment(name)
	if err != nil {
		return prefabs.ExperimentSpec{}, err
	}
	return spec, nil
}

func newLogger(cmd *cobra.Command, w io.Writer) *slog.Logger {
	level, _ := cmd.Flags().GetString("log")
	return logging.NewLogger(level, w)
}

func newScriptsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scripts",
		Short: "List the embedded scenario scripts",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range prefabs.ScriptNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}
