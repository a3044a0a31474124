package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sherine-k/mm1sim/pkg/config"
	"github.com/sherine-k/mm1sim/pkg/sweep"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const envPrefix = "MM1SIM"

func addSimulationFlags(flags *pflag.FlagSet) {
	flags.Float64("start", 0, "First arrival rate of the sweep")
	flags.Float64("end", 0, "Last arrival rate of the sweep")
	flags.Float64("step", 0, "Arrival rate increment")
	flags.StringSlice("rates", nil, "Explicit arrival rates, overrides start/end/step")
	flags.Float64("service-time", 0, "Mean service time")
	flags.Int("completions", 0, "Completed customers per run")
	flags.Uint64("seed", 0, "Base random seed (0 picks one from the clock)")
	flags.Int("workers", 0, "Arrival rates simulated in parallel")
	flags.StringP("output", "o", "", "Results text file (empty string disables it)")
	flags.String("metrics-file", "", "Prometheus textfile to write the results to")
	flags.Bool("chart", true, "Show ASCII charts after a sweep")
	flags.Bool("no-color", false, "Disable coloured output")
	flags.String("log-level", "", "Log level: debug, info, warn or error (default $LOG_LEVEL or info)")
}

// bindSettings makes every flag readable through v, with MM1SIM_* environment
// variables as a fallback for flags left unset.
func bindSettings(v *viper.Viper, flags *pflag.FlagSet) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(flags)
}

// resolveConfig layers defaults, the config file and flag/env overrides, in
// that order, and validates the result.
func resolveConfig(filename string, v *viper.Viper) (*config.Config, error) {
	cfg := config.Default()
	if filename != "" {
		loaded, err := config.ReadConfig(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
	}

	if err := applyOverrides(cfg, v); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyOverrides(cfg *config.Config, v *viper.Viper) error {
	if v.IsSet("start") {
		cfg.ArrivalRates.Start = v.GetFloat64("start")
		cfg.ArrivalRates.Values = nil
	}
	if v.IsSet("end") {
		cfg.ArrivalRates.End = v.GetFloat64("end")
		cfg.ArrivalRates.Values = nil
	}
	if v.IsSet("step") {
		cfg.ArrivalRates.Step = v.GetFloat64("step")
		cfg.ArrivalRates.Values = nil
	}
	if v.IsSet("rates") {
		values, err := parseRates(v.GetStringSlice("rates"))
		if err != nil {
			return err
		}
		cfg.ArrivalRates.Values = values
	}
	if v.IsSet("service-time") {
		cfg.MeanServiceTime = v.GetFloat64("service-time")
	}
	if v.IsSet("completions") {
		cfg.MaxCompletions = v.GetInt("completions")
	}
	if v.IsSet("seed") {
		cfg.Seed = v.GetUint64("seed")
	}
	if v.IsSet("workers") {
		cfg.Workers = v.GetInt("workers")
	}
	if v.IsSet("output") {
		cfg.Output.Results = v.GetString("output")
	}
	if v.IsSet("metrics-file") {
		cfg.Output.Metrics = v.GetString("metrics-file")
	}
	if v.IsSet("chart") {
		cfg.Output.Chart = v.GetBool("chart")
	}
	return nil
}

func parseRates(raw []string) ([]float64, error) {
	var rates []float64
	for _, item := range raw {
		// env values arrive as a single space or comma separated string
		for _, field := range strings.FieldsFunc(item, func(r rune) bool { return r == ',' || r == ' ' }) {
			rate, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid arrival rate %q: %w", field, err)
			}
			rates = append(rates, rate)
		}
	}
	return rates, nil
}

// sweepParams turns a validated configuration into sweep parameters
func sweepParams(cfg *config.Config, log *zap.SugaredLogger) (sweep.Params, error) {
	rates := cfg.ArrivalRates.Values
	if len(rates) == 0 {
		var err error
		rates, err = sweep.Range{
			Start: cfg.ArrivalRates.Start,
			End:   cfg.ArrivalRates.End,
			Step:  cfg.ArrivalRates.Step,
		}.Rates()
		if err != nil {
			return sweep.Params{}, fmt.Errorf("invalid arrival rate range: %w", err)
		}
	}

	return sweep.Params{
		Rates:           rates,
		MeanServiceTime: cfg.MeanServiceTime,
		MaxCompletions:  cfg.MaxCompletions,
		Seed:            cfg.Seed,
		Workers:         cfg.Workers,
		Logger:          log,
	}, nil
}
