package report

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/sherine-k/mm1sim/pkg/sweep"
)

const resultsHeader = "Arrival Rate, Avg Turnaround Time, Throughput, CPU Utilization, Avg Queue Length\n"

// WriteResults writes one block per arrival rate in the plain text layout
func WriteResults(w io.Writer, points []sweep.Point) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(resultsHeader); err != nil {
		return err
	}

	for _, p := range points {
		r := p.Result
		if _, err := fmt.Fprintf(bw, "Arrival Rate: %v: \n"+
			"\tAvg Turnaround Time: %v\n"+
			"\tThroughput: %v\n"+
			"\tCPU Utilization/RHO: %v\n"+
			"\tAvg number of processes in the ready queue %v\n\n",
			p.Rate, r.AvgTurnaroundTime, r.Throughput, r.CPUUtilization, r.AvgQueueLength); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// WriteResultsFile writes the results to filename, replacing any existing file
func WriteResultsFile(filename string, points []sweep.Point) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create results file: %w", err)
	}

	if err := WriteResults(f, points); err != nil {
		f.Close()
		return fmt.Errorf("failed to write results file: %w", err)
	}

	return f.Close()
}
