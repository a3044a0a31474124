package config

// Config represents the entire configuration for a sweep
type Config struct {
	ArrivalRates    RateRange `yaml:"arrivalRates"`
	MeanServiceTime float64   `yaml:"meanServiceTime"`
	MaxCompletions  int       `yaml:"maxCompletions"`
	Seed            uint64    `yaml:"seed"`
	Workers         int       `yaml:"workers"`
	Output          Output    `yaml:"output"`

	// Schedule is a cron spec used by the schedule command
	Schedule string `yaml:"schedule,omitempty"`
}

// RateRange selects the arrival rates to sweep. Values, when present,
// take precedence over Start/End/Step.
type RateRange struct {
	Start  float64   `yaml:"start"`
	End    float64   `yaml:"end"`
	Step   float64   `yaml:"step"`
	Values []float64 `yaml:"values,omitempty"`
}

// Output controls where results go
type Output struct {
	Results string `yaml:"results"`
	Metrics string `yaml:"metrics,omitempty"`
	Chart   bool   `yaml:"chart"`
}

// Default returns the configuration of the classic exercise: arrival rates
// 10 to 30 with a mean service time of 0.04 and 10000 completions per rate.
func Default() *Config {
	return &Config{
		ArrivalRates: RateRange{
			Start: 10,
			End:   30,
			Step:  1,
		},
		MeanServiceTime: 0.04,
		MaxCompletions:  10000,
		Workers:         1,
		Output: Output{
			Results: "simulation_results.txt",
			Chart:   true,
		},
	}
}
