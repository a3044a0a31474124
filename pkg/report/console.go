package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sherine-k/mm1sim/pkg/simulation"
	"github.com/sherine-k/mm1sim/pkg/sweep"
)

// Console prints results for a human at a terminal
type Console struct {
	out     io.Writer
	header  *color.Color
	warning *color.Color
}

// NewConsole creates a console printer. Colour is disabled when noColor is
// set; fatih/color also disables it when out is not a terminal.
func NewConsole(out io.Writer, noColor bool) *Console {
	c := &Console{
		out:     out,
		header:  color.New(color.Bold),
		warning: color.New(color.FgYellow),
	}
	if noColor {
		c.header.DisableColor()
		c.warning.DisableColor()
	}
	return c
}

// PrintSweep prints a table with one row per arrival rate, the closed-form
// values next to the simulated ones, and warnings for unstable rates.
func (c *Console) PrintSweep(points []sweep.Point) {
	c.header.Fprintf(c.out, "%8s %12s %12s %10s %12s | %8s %12s %12s\n",
		"rate", "turnaround", "throughput", "util", "queue len", "rho", "W", "Lq")
	fmt.Fprintln(c.out, strings.Repeat("-", 98))

	var unstable []sweep.Point
	for _, p := range points {
		r := p.Result
		line := fmt.Sprintf("%8g %12.6f %12.4f %10.4f %12.4f | %8.4f %12s %12s",
			p.Rate, r.AvgTurnaroundTime, r.Throughput, r.CPUUtilization, r.AvgQueueLength,
			p.Theory.Rho, theoryValue(p, p.Theory.W), theoryValue(p, p.Theory.Lq))
		if p.Stable {
			fmt.Fprintln(c.out, line)
		} else {
			c.warning.Fprintln(c.out, line)
			unstable = append(unstable, p)
		}
	}

	c.printWarnings(unstable)
}

// PrintResult prints the metrics of a single run
func (c *Console) PrintResult(r simulation.Result, theory simulation.Theory, stable bool) {
	c.header.Fprintf(c.out, "Arrival Rate: %v (mean service time %v)\n", r.ArrivalRate, r.MeanServiceTime)
	fmt.Fprintf(c.out, "  Average Turnaround Time: %v\n", r.AvgTurnaroundTime)
	fmt.Fprintf(c.out, "  Throughput:              %v\n", r.Throughput)
	fmt.Fprintf(c.out, "  CPU Utilization/RHO:     %v\n", r.CPUUtilization)
	fmt.Fprintf(c.out, "  Avg Queue Length:        %v\n", r.AvgQueueLength)
	fmt.Fprintf(c.out, "  Final Clock Time:        %v\n", r.FinalClockTime)
	fmt.Fprintf(c.out, "  Completed:               %d (%d events, %d discarded)\n",
		r.CompletedCount, r.EventsProcessed, r.Censored)

	if stable {
		fmt.Fprintf(c.out, "  Theoretical: rho=%.4f W=%.6f Lq=%.4f\n", theory.Rho, theory.W, theory.Lq)
	} else {
		c.warning.Fprintf(c.out, "  Warning: rho=%.4f >= 1, the queue has no steady state\n", theory.Rho)
	}
}

func (c *Console) printWarnings(unstable []sweep.Point) {
	fmt.Fprintln(c.out)
	if len(unstable) == 0 {
		fmt.Fprintln(c.out, "No warnings!")
		return
	}
	for _, p := range unstable {
		c.warning.Fprintf(c.out, "Warning: arrival rate %g gives rho=%.4f >= 1, results grow with run length\n",
			p.Rate, p.Theory.Rho)
	}
	fmt.Fprintf(c.out, "Total Warnings: %d\n", len(unstable))
}

func theoryValue(p sweep.Point, v float64) string {
	if !p.Stable {
		return "-"
	}
	return fmt.Sprintf("%.6f", v)
}
