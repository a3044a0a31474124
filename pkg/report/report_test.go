package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sherine-k/mm1sim/pkg/simulation"
	"github.com/sherine-k/mm1sim/pkg/sweep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePoints() []sweep.Point {
	return []sweep.Point{
		{
			Rate: 10,
			Result: simulation.Result{
				ArrivalRate: 10, MeanServiceTime: 0.04,
				AvgTurnaroundTime: 0.0625, Throughput: 10.1, CPUUtilization: 0.4, AvgQueueLength: 0.25,
				CompletedCount: 100,
			},
			Theory: simulation.Theory{Rho: 0.4, W: 1.0 / 15, Lq: 0.16 / 0.6},
			Stable: true,
		},
		{
			Rate: 30,
			Result: simulation.Result{
				ArrivalRate: 30, MeanServiceTime: 0.04,
				AvgTurnaroundTime: 12.5, Throughput: 25, CPUUtilization: 1.01, AvgQueueLength: 400,
				CompletedCount: 100,
			},
			Theory: simulation.Theory{Rho: 1.2},
			Stable: false,
		},
	}
}

func TestWriteResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, samplePoints()[:1]))

	want := "Arrival Rate, Avg Turnaround Time, Throughput, CPU Utilization, Avg Queue Length\n" +
		"Arrival Rate: 10: \n" +
		"\tAvg Turnaround Time: 0.0625\n" +
		"\tThroughput: 10.1\n" +
		"\tCPU Utilization/RHO: 0.4\n" +
		"\tAvg number of processes in the ready queue 0.25\n\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteResultsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.txt")
	require.NoError(t, WriteResultsFile(path, samplePoints()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "Arrival Rate: "))

	err = WriteResultsFile(filepath.Join(t.TempDir(), "missing", "results.txt"), nil)
	assert.ErrorContains(t, err, "failed to create results file")
}

func TestGenerateMetricChart(t *testing.T) {
	g := NewGenerator()
	chart := g.GenerateMetricChart("Throughput vs Arrival Rate",
		[]float64{10, 20, 30}, []float64{10, 20, 25})

	lines := strings.Split(chart, "\n")
	assert.Equal(t, "Throughput vs Arrival Rate", lines[1])
	assert.Equal(t, 3, strings.Count(chart, "*"))
	assert.Contains(t, chart, "25 |")
	assert.Contains(t, chart, "10 |")
	assert.Contains(t, chart, "Arrival Rate (λ)")

	for _, line := range lines {
		assert.LessOrEqual(t, len([]rune(line)), chartWidth, "line too wide: %q", line)
	}
}

func TestGenerateMetricChartEdgeCases(t *testing.T) {
	g := NewGenerator()
	assert.Equal(t, "No data to display", g.GenerateMetricChart("empty", nil, nil))
	assert.Equal(t, "No data to display", g.GenerateMetricChart("mismatch", []float64{1}, []float64{1, 2}))

	flat := g.GenerateMetricChart("flat", []float64{1}, []float64{3})
	assert.Equal(t, 1, strings.Count(flat, "*"))
}

func TestGenerateSweepCharts(t *testing.T) {
	g := NewGenerator()
	charts := g.GenerateSweepCharts(samplePoints())
	for _, title := range []string{
		"Average Turnaround Time vs Arrival Rate",
		"Throughput vs Arrival Rate",
		"CPU Utilization vs Arrival Rate",
		"Average Queue Length vs Arrival Rate",
	} {
		assert.Contains(t, charts, title)
	}
	assert.Equal(t, "No data to display", g.GenerateSweepCharts(nil))
}

func TestGenerateTimeline(t *testing.T) {
	g := NewGenerator()
	snaps := []simulation.Snapshot{
		{Seq: 1, Event: simulation.Event{Time: 0.5, Kind: simulation.Arrival}, Clock: 0.5, ServerBusy: true, PendingDepartures: 1},
		{Seq: 2, Event: simulation.Event{Time: 0.8, Kind: simulation.Departure}, Clock: 0.8, Completed: 1},
	}

	out := g.GenerateTimeline(snaps, 5)
	assert.Contains(t, out, "showing first 2 events")
	assert.Contains(t, out, "+ arrival")
	assert.Contains(t, out, "- departure")
	assert.Contains(t, out, "server=busy")
	assert.Contains(t, out, "... and 3 more events")

	full := g.GenerateTimeline(snaps, 2)
	assert.NotContains(t, full, "showing first")
}

func TestConsolePrintSweep(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf, true).PrintSweep(samplePoints())

	out := buf.String()
	assert.Contains(t, out, "turnaround")
	assert.Contains(t, out, "0.062500")
	assert.Contains(t, out, "Warning: arrival rate 30 gives rho=1.2000")
	assert.Contains(t, out, "Total Warnings: 1")
	assert.NotContains(t, out, "\x1b[", "no escape codes when colour is off")

	buf.Reset()
	NewConsole(&buf, true).PrintSweep(samplePoints()[:1])
	assert.Contains(t, buf.String(), "No warnings!")
}

func TestConsolePrintResult(t *testing.T) {
	p := samplePoints()

	var buf bytes.Buffer
	c := NewConsole(&buf, true)
	c.PrintResult(p[0].Result, p[0].Theory, true)
	assert.Contains(t, buf.String(), "Average Turnaround Time: 0.0625")
	assert.Contains(t, buf.String(), "Theoretical: rho=0.4000")

	buf.Reset()
	c.PrintResult(p[1].Result, p[1].Theory, false)
	assert.Contains(t, buf.String(), "no steady state")
}

func TestRegistry(t *testing.T) {
	reg, err := Registry(samplePoints())
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 6)

	for _, mf := range families {
		assert.Len(t, mf.GetMetric(), 2, mf.GetName())
		if mf.GetName() == "mm1sim_cpu_utilization" {
			values := map[string]float64{}
			for _, m := range mf.GetMetric() {
				values[m.GetLabel()[0].GetValue()] = m.GetGauge().GetValue()
			}
			assert.Equal(t, map[string]float64{"10": 0.4, "30": 1.01}, values)
		}
	}
}

func TestWriteMetricsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mm1sim.prom")
	require.NoError(t, WriteMetricsFile(path, samplePoints()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `mm1sim_throughput{arrival_rate="10"} 10.1`)
	assert.Contains(t, string(data), "# HELP mm1sim_avg_queue_length")
}
