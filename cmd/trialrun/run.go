package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/milk9111/roomtrials/prefabs"
	"github.com/milk9111/roomtrials/scenario"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Run a tengo scenario script against the experiment",
		Long: `Run a scenario script and report its expectations.

Scripts are looked up in prefabs/scripts on disk first, then as a raw path,
then in the embedded set. The .tengo extension is optional.

Examples:
  trialrun run full_run
  trialrun run grab_counter --experiment grab.yaml
  trialrun run ./my_case.tengo --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			watch, _ := cmd.Flags().GetBool("watch")
			transcript, _ := cmd.Flags().GetBool("transcript")
			log := newLogger(cmd, cmd.ErrOrStderr())

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err := runOnce(ctx, cmd, args[0], transcript, log)
			if !watch {
				return err
			}
			if err != nil && !errors.Is(err, scenario.ErrFailed) {
				log.Error("run failed", "err", err)
			}
			return watchAndRun(ctx, cmd, args[0], transcript, log)
		},
	}

	cmd.Flags().Bool("watch", false, "Re-run whenever a prefab or script changes")
	cmd.Flags().Bool("transcript", false, "Print the session transcript after the report")
	return cmd
}

func runOnce(ctx context.Context, cmd *cobra.Command, script string, transcript bool, log *slog.Logger) error {
	spec, err := loadExperiment(cmd)
	if err != nil {
		return err
	}
	report, err := scenario.RunFile(ctx, script, spec, log)
	if report != nil {
		printReport(cmd.OutOrStdout(), report, transcript)
	}
	return err
}

func printReport(w io.Writer, report *scenario.Report, transcript bool) {
	fmt.Fprint(w, report.String())
	if !transcript {
		return
	}
	for _, line := range report.Transcript {
		fmt.Fprintln(w, line)
	}
}

func watchAndRun(ctx context.Context, cmd *cobra.Command, script string, transcript bool, log *slog.Logger) error {
	dirs := []string{"prefabs", filepath.Join("prefabs", "scripts")}
	if dir := filepath.Dir(script); strings.HasSuffix(script, ".tengo") && dir != "." {
		dirs = append(dirs, dir)
	}
	watcher, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	log.Info("watching for changes", "dirs", dirs)
	for {
		select {
		case <-ctx.Done():
			return nil
		case name, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			log.Info("change detected, re-running", "file", name)
			if err := runOnce(ctx, cmd, script, transcript, log); err != nil && !errors.Is(err, scenario.ErrFailed) {
				log.Error("run failed", "err", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "err", err)
		}
	}
}
