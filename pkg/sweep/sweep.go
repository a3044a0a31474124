package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sherine-k/mm1sim/pkg/simulation"
	"github.com/sherine-k/mm1sim/pkg/variate"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Range is an inclusive arithmetic range of arrival rates
type Range struct {
	Start float64
	End   float64
	Step  float64
}

// MaxRates bounds the number of arrival rates a single range may expand to
const MaxRates = 1_000_000

// Count returns the number of rates the range expands to, rejecting
// malformed ranges and ranges longer than MaxRates.
func (r Range) Count() (int, error) {
	if !(r.Start > 0) || math.IsInf(r.Start, 0) {
		return 0, fmt.Errorf("range start must be positive, got %v", r.Start)
	}
	if !(r.Step > 0) || math.IsInf(r.Step, 0) {
		return 0, fmt.Errorf("range step must be positive, got %v", r.Step)
	}
	if r.End < r.Start || math.IsInf(r.End, 0) {
		return 0, fmt.Errorf("range end %v is before start %v", r.End, r.Start)
	}

	steps := math.Floor((r.End-r.Start)/r.Step + 1e-9)
	if math.IsNaN(steps) || steps+1 > MaxRates {
		return 0, fmt.Errorf("range %v..%v step %v expands to more than %d rates", r.Start, r.End, r.Step, MaxRates)
	}
	return int(steps) + 1, nil
}

// Rates expands the range. The end point is included when it lies on the grid.
func (r Range) Rates() ([]float64, error) {
	n, err := r.Count()
	if err != nil {
		return nil, err
	}

	rates := make([]float64, n)
	for i := range rates {
		rates[i] = r.Start + float64(i)*r.Step
	}
	return rates, nil
}

// Params configures a sweep
type Params struct {
	Rates           []float64
	MeanServiceTime float64
	MaxCompletions  int
	// Seed is the base seed; zero picks one from the clock. The seed used
	// for each rate is recorded in its Point.
	Seed    uint64
	Workers int
	Logger  *zap.SugaredLogger
	// NewSource overrides the per-run variate source
	NewSource func(seed uint64) variate.Source
}

// Point is the outcome of one run in a sweep
type Point struct {
	Rate   float64
	Seed   uint64
	Result simulation.Result
	Theory simulation.Theory
	// Stable is false when the closed-form model has no steady state
	Stable bool
}

// Run simulates every rate with its own engine and variate source. Points
// come back in the order of p.Rates regardless of Workers.
func Run(ctx context.Context, p Params) ([]Point, error) {
	if len(p.Rates) == 0 {
		return nil, errors.New("no arrival rates to simulate")
	}

	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	newSource := p.NewSource
	if newSource == nil {
		newSource = func(seed uint64) variate.Source { return variate.NewSeeded(seed) }
	}
	base := p.Seed
	if base == 0 {
		base = uint64(time.Now().UnixNano())
	}
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}

	points := make([]Point, len(p.Rates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, rate := range p.Rates {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			point, err := runPoint(rate, variate.DeriveSeed(base, i), p, newSource, logger)
			if err != nil {
				return err
			}
			points[i] = point
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

func runPoint(rate float64, seed uint64, p Params, newSource func(uint64) variate.Source, logger *zap.SugaredLogger) (Point, error) {
	engine, err := simulation.New(rate, p.MeanServiceTime, p.MaxCompletions, newSource(seed),
		simulation.WithLogger(logger))
	if err != nil {
		return Point{}, fmt.Errorf("failed to create engine for rate %v: %w", rate, err)
	}

	start := time.Now()
	result, err := engine.Run()
	if err != nil {
		return Point{}, fmt.Errorf("simulation failed for rate %v: %w", rate, err)
	}

	theory, err := simulation.Theoretical(rate, p.MeanServiceTime)
	stable := err == nil
	if err != nil && !errors.Is(err, simulation.ErrUnstable) {
		return Point{}, err
	}

	logger.Infow("simulated arrival rate",
		"rate", rate,
		"seed", seed,
		"utilization", result.CPUUtilization,
		"throughput", result.Throughput,
		"stable", stable,
		"elapsed", time.Since(start))

	return Point{
		Rate:   rate,
		Seed:   seed,
		Result: result,
		Theory: theory,
		Stable: stable,
	}, nil
}
