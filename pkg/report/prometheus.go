package report

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sherine-k/mm1sim/pkg/sweep"
)

const namespace = "mm1sim"

// Registry exposes the sweep results as gauges labelled by arrival rate
func Registry(points []sweep.Point) (*prometheus.Registry, error) {
	labels := []string{"arrival_rate"}
	gauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	}

	turnaround := gauge("avg_turnaround_time", "Average time a customer spends in the system.")
	throughput := gauge("throughput", "Completions per unit of simulated time.")
	utilization := gauge("cpu_utilization", "Fraction of simulated time the server was busy.")
	queueLength := gauge("avg_queue_length", "Mean waiting line length sampled after every event.")
	rho := gauge("offered_load", "Arrival rate times mean service time.")
	completions := gauge("completions", "Customers completed in the run.")

	reg := prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{turnaround, throughput, utilization, queueLength, rho, completions} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}

	for _, p := range points {
		rate := strconv.FormatFloat(p.Rate, 'g', -1, 64)
		turnaround.WithLabelValues(rate).Set(p.Result.AvgTurnaroundTime)
		throughput.WithLabelValues(rate).Set(p.Result.Throughput)
		utilization.WithLabelValues(rate).Set(p.Result.CPUUtilization)
		queueLength.WithLabelValues(rate).Set(p.Result.AvgQueueLength)
		rho.WithLabelValues(rate).Set(p.Theory.Rho)
		completions.WithLabelValues(rate).Set(float64(p.Result.CompletedCount))
	}

	return reg, nil
}

// WriteMetricsFile writes the sweep results in the Prometheus text format,
// suitable for the node exporter textfile collector.
func WriteMetricsFile(filename string, points []sweep.Point) error {
	reg, err := Registry(points)
	if err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(filename, reg); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
