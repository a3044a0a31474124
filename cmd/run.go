package cmd

import (
	"errors"
	"fmt"

	"github.com/sherine-k/mm1sim/pkg/report"
	"github.com/sherine-k/mm1sim/pkg/simulation"
	"github.com/sherine-k/mm1sim/pkg/variate"
	"github.com/spf13/cobra"
)

var (
	arrivalRate   float64
	timelineLimit int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate a single arrival rate",
	Long: `Run one simulation at the given arrival rate and print its metrics.
With --timeline the first events of the run are listed as well.`,
	RunE: runSingle,
}

func init() {
	runCmd.Flags().Float64VarP(&arrivalRate, "rate", "r", 0, "Arrival rate (required)")
	runCmd.Flags().IntVarP(&timelineLimit, "timeline", "t", 0, "Show the first N events of the run")
	_ = runCmd.MarkFlagRequired("rate")
	rootCmd.AddCommand(runCmd)
}

func runSingle(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(configFile, settings)
	if err != nil {
		return err
	}

	var source *variate.Exponential
	if cfg.Seed != 0 {
		source = variate.NewSeeded(cfg.Seed)
	} else {
		source = variate.New()
	}

	recorder := simulation.NewRecorder(timelineLimit)
	engine, err := simulation.New(arrivalRate, cfg.MeanServiceTime, cfg.MaxCompletions, source,
		simulation.WithLogger(logger),
		simulation.WithObserver(recorder))
	if err != nil {
		return err
	}

	result, err := engine.Run()
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	theory, err := simulation.Theoretical(arrivalRate, cfg.MeanServiceTime)
	if err != nil && !errors.Is(err, simulation.ErrUnstable) {
		return err
	}
	stable := err == nil

	out := cmd.OutOrStdout()
	console := report.NewConsole(out, settings.GetBool("no-color"))
	console.PrintResult(result, theory, stable)
	fmt.Fprintf(out, "  Seed:                    %d\n", source.Seed())

	if timelineLimit > 0 {
		fmt.Fprintln(out, report.NewGenerator().GenerateTimeline(recorder.Snapshots(), recorder.Total()))
	}

	return nil
}
