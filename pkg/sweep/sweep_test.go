package sweep

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sherine-k/mm1sim/pkg/simulation"
	"github.com/sherine-k/mm1sim/pkg/variate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeRates(t *testing.T) {
	tests := []struct {
		name    string
		r       Range
		want    []float64
		wantErr bool
	}{
		{name: "homework range", r: Range{10, 30, 1}, want: func() []float64 {
			var out []float64
			for v := 10; v <= 30; v++ {
				out = append(out, float64(v))
			}
			return out
		}()},
		{name: "single point", r: Range{5, 5, 1}, want: []float64{5}},
		{name: "end off grid", r: Range{1, 2, 0.4}, want: []float64{1, 1.4, 1.8}},
		{name: "fractional step hits end", r: Range{0.1, 0.3, 0.1}, want: []float64{0.1, 0.2, 0.30000000000000004}},
		{name: "zero start", r: Range{0, 3, 1}, wantErr: true},
		{name: "zero step", r: Range{1, 3, 0}, wantErr: true},
		{name: "end before start", r: Range{3, 1, 1}, wantErr: true},
		{name: "count overflows int", r: Range{1, 1e20, 1}, wantErr: true},
		{name: "too many rates", r: Range{1, 1e9, 1e-3}, wantErr: true},
		{name: "one past the cap", r: Range{1, MaxRates + 1, 1}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.r.Rates()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.want, got, 1e-9)
		})
	}
}

func TestRangeCountAtCap(t *testing.T) {
	n, err := Range{1, MaxRates, 1}.Count()
	require.NoError(t, err)
	assert.Equal(t, MaxRates, n)

	_, err = Range{1, 1e20, 1}.Count()
	assert.ErrorContains(t, err, "more than")
}

func TestRunKeepsRateOrder(t *testing.T) {
	rates := []float64{10, 12, 14, 16, 18, 20}
	points, err := Run(context.Background(), Params{
		Rates:           rates,
		MeanServiceTime: 0.04,
		MaxCompletions:  2000,
		Seed:            11,
		Workers:         4,
	})
	require.NoError(t, err)
	require.Len(t, points, len(rates))

	for i, p := range points {
		assert.Equal(t, rates[i], p.Rate)
		assert.Equal(t, variate.DeriveSeed(11, i), p.Seed)
		assert.Equal(t, 2000, p.Result.CompletedCount)
		assert.True(t, p.Stable)
		assert.InDelta(t, rates[i]*0.04, p.Theory.Rho, 1e-12)
	}
}

func TestRunIsReproducibleAcrossWorkerCounts(t *testing.T) {
	params := Params{
		Rates:           []float64{10, 15, 20, 25, 30},
		MeanServiceTime: 0.04,
		MaxCompletions:  1000,
		Seed:            77,
	}

	params.Workers = 1
	sequential, err := Run(context.Background(), params)
	require.NoError(t, err)

	params.Workers = 5
	parallel, err := Run(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, sequential, parallel)
}

func TestRunMarksUnstableRates(t *testing.T) {
	points, err := Run(context.Background(), Params{
		Rates:           []float64{20, 25, 30},
		MeanServiceTime: 0.04,
		MaxCompletions:  500,
		Seed:            3,
	})
	require.NoError(t, err)

	assert.True(t, points[0].Stable)
	assert.False(t, points[1].Stable)
	assert.False(t, points[2].Stable)
	assert.InDelta(t, 1.2, points[2].Theory.Rho, 1e-12)
}

func TestRunUsesInjectedSources(t *testing.T) {
	var created atomic.Int32
	_, err := Run(context.Background(), Params{
		Rates:           []float64{1, 2, 3},
		MeanServiceTime: 0.1,
		MaxCompletions:  10,
		Seed:            1,
		Workers:         3,
		NewSource: func(seed uint64) variate.Source {
			created.Add(1)
			return variate.NewSeeded(seed)
		},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, created.Load(), "every rate gets its own source")
}

func TestRunErrors(t *testing.T) {
	_, err := Run(context.Background(), Params{MeanServiceTime: 0.04, MaxCompletions: 10})
	assert.Error(t, err)

	_, err = Run(context.Background(), Params{Rates: []float64{10}, MeanServiceTime: 0, MaxCompletions: 10})
	assert.ErrorIs(t, err, simulation.ErrInvalidParameter)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, Params{Rates: []float64{10, 20}, MeanServiceTime: 0.04, MaxCompletions: 10})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidateSchedule(t *testing.T) {
	for _, spec := range []string{"@every 10m", "@hourly", "0 */6 * * *", "30 0 */6 * * *"} {
		assert.NoError(t, ValidateSchedule(spec), spec)
	}
	for _, spec := range []string{"", "every ten minutes", "61 * * * *"} {
		assert.Error(t, ValidateSchedule(spec), spec)
	}
}

func TestSchedulerRunsUntilCancelled(t *testing.T) {
	var runs atomic.Int32
	s, err := NewScheduler("@every 1h", func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}, nil)
	require.NoError(t, err)
	s.RunImmediately = true

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	require.NoError(t, s.Run(ctx))
	assert.EqualValues(t, 1, runs.Load())
}

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	_, err := NewScheduler("not a schedule", func(context.Context) error { return nil }, nil)
	assert.Error(t, err)
}
