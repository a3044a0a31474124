package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sherine-k/mm1sim/pkg/config"
	"github.com/sherine-k/mm1sim/pkg/logging"
	"github.com/sherine-k/mm1sim/pkg/report"
	"github.com/sherine-k/mm1sim/pkg/sweep"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	configFile string
	settings   = viper.New()
	logger     = logging.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "mm1sim",
	Short: "M/M/1 queue simulator",
	Long: `A CLI tool that simulates a single-server FCFS queue with exponential
inter-arrival and service times.

By default it sweeps a range of arrival rates, runs one independent
simulation per rate and reports average turnaround time, throughput,
server utilization and average queue length for each, next to the
closed-form M/M/1 values.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runSweep,
}

// Execute runs the root command until it finishes or the process is interrupted
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "Path to configuration file")
	addSimulationFlags(flags)
	bindSettings(settings, flags)
}

func setup(cmd *cobra.Command, args []string) error {
	logger = logging.New(settings.GetString("log-level"))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(configFile, settings)
	if err != nil {
		return err
	}

	params, err := sweepParams(cfg, logger)
	if err != nil {
		return err
	}

	fmt.Printf("Sweeping %d arrival rates (mean service time %v, %d completions each)\n\n",
		len(params.Rates), cfg.MeanServiceTime, cfg.MaxCompletions)

	points, err := sweep.Run(cmd.Context(), params)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	console := report.NewConsole(os.Stdout, settings.GetBool("no-color"))
	console.PrintSweep(points)

	if err := writeOutputs(cfg, points, logger); err != nil {
		return err
	}
	if cfg.Output.Results != "" {
		fmt.Printf("\nResults written to %s\n", cfg.Output.Results)
	}

	if cfg.Output.Chart {
		fmt.Println(report.NewGenerator().GenerateSweepCharts(points))
	}

	return nil
}

// writeOutputs persists a finished sweep to the configured files
func writeOutputs(cfg *config.Config, points []sweep.Point, log *zap.SugaredLogger) error {
	if cfg.Output.Results != "" {
		if err := report.WriteResultsFile(cfg.Output.Results, points); err != nil {
			return err
		}
		log.Debugw("wrote results", "file", cfg.Output.Results, "points", len(points))
	}
	if cfg.Output.Metrics != "" {
		if err := report.WriteMetricsFile(cfg.Output.Metrics, points); err != nil {
			return err
		}
		log.Debugw("wrote metrics", "file", cfg.Output.Metrics, "points", len(points))
	}
	return nil
}
