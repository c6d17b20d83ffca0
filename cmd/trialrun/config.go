package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the resolved experiment configuration",
		Long: `Print the experiment after environment overrides and defaults.

Overrides:
  ROOMTRIALS_TRIALS, ROOMTRIALS_WAIT, ROOMTRIALS_RETURN_DOOR_DELAY,
  ROOMTRIALS_SENSOR_TAG, ROOMTRIALS_VARIANT, ROOMTRIALS_PLAYFUL_CUE`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := loadExperiment(cmd)
			if err != nil {
				return err
			}

			full, _ := cmd.Flags().GetBool("full")
			if !full {
				cfg := spec.TrialConfig()
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "experiment:        %s\n", spec.Name)
				fmt.Fprintf(out, "variant:           %s\n", spec.Variant)
				fmt.Fprintf(out, "trials:            %d\n", cfg.Trials)
				fmt.Fprintf(out, "wait:              %v\n", cfg.WaitDuration)
				fmt.Fprintf(out, "return_door_delay: %v\n", cfg.ReturnDoorDelay)
				fmt.Fprintf(out, "playful_cue:       %v\n", cfg.PlayfulCue)
				fmt.Fprintf(out, "sensor_tag:        %s\n", spec.SensorTag)
				fmt.Fprintf(out, "boxes:             %d\n", len(spec.Boxes))
				return nil
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(spec); err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			return enc.Close()
		},
	}

	cmd.Flags().Bool("full", false, "Dump the whole experiment as yaml")
	return cmd
}
