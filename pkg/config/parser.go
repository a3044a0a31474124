package config

import (
	"fmt"
	"math"
	"os"

	"github.com/sherine-k/mm1sim/pkg/sweep"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads the configuration file on top of Default and validates it
func LoadConfig(filename string) (*Config, error) {
	config, err := ReadConfig(filename)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// ReadConfig loads the configuration file on top of Default without
// validating it, for callers that apply further overrides first.
func ReadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if len(c.ArrivalRates.Values) > 0 {
		for i, v := range c.ArrivalRates.Values {
			if !positive(v) {
				return fmt.Errorf("arrivalRates.values[%d] must be greater than 0, got %v", i, v)
			}
		}
	} else {
		if !positive(c.ArrivalRates.Start) {
			return fmt.Errorf("arrivalRates.start must be greater than 0")
		}
		if !positive(c.ArrivalRates.Step) {
			return fmt.Errorf("arrivalRates.step must be greater than 0")
		}
		if c.ArrivalRates.End < c.ArrivalRates.Start {
			return fmt.Errorf("arrivalRates.end must not be less than arrivalRates.start")
		}
		rng := sweep.Range{Start: c.ArrivalRates.Start, End: c.ArrivalRates.End, Step: c.ArrivalRates.Step}
		if _, err := rng.Count(); err != nil {
			return fmt.Errorf("arrivalRates: %w", err)
		}
	}

	if !positive(c.MeanServiceTime) {
		return fmt.Errorf("meanServiceTime must be greater than 0")
	}

	if c.MaxCompletions <= 0 {
		return fmt.Errorf("maxCompletions must be greater than 0")
	}

	if c.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0")
	}

	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
