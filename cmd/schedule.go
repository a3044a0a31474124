package cmd

import (
	"context"
	"fmt"

	"github.com/sherine-k/mm1sim/pkg/sweep"
	"github.com/spf13/cobra"
)

var (
	cronSpec string
	runNow   bool
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Re-run the sweep on a cron schedule",
	Long: `Run the configured sweep periodically and rewrite the results and
metrics files after every run. Accepts standard cron expressions, an
optional leading seconds field, and descriptors such as "@every 30m".
With a fixed seed every run reproduces the same results; leave the seed
at 0 to draw a fresh one each time.`,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().StringVar(&cronSpec, "cron", "", "Cron schedule (defaults to the config file's schedule)")
	scheduleCmd.Flags().BoolVar(&runNow, "now", true, "Run once immediately before the first tick")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(configFile, settings)
	if err != nil {
		return err
	}

	spec := cronSpec
	if spec == "" {
		spec = cfg.Schedule
	}
	if spec == "" {
		return fmt.Errorf("no schedule given: use --cron or set schedule in the config file")
	}

	if cfg.Output.Results == "" && cfg.Output.Metrics == "" {
		return fmt.Errorf("scheduled sweeps need an output: set --output or --metrics-file")
	}

	params, err := sweepParams(cfg, logger)
	if err != nil {
		return err
	}

	job := func(ctx context.Context) error {
		points, err := sweep.Run(ctx, params)
		if err != nil {
			return err
		}
		return writeOutputs(cfg, points, logger)
	}

	scheduler, err := sweep.NewScheduler(spec, job, logger)
	if err != nil {
		return err
	}
	scheduler.RunImmediately = runNow

	fmt.Printf("Running sweep on schedule %q, press Ctrl+C to stop\n", spec)
	return scheduler.Run(cmd.Context())
}
