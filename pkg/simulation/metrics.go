package simulation

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Result holds the aggregate metrics of one run
type Result struct {
	ArrivalRate     float64
	MeanServiceTime float64

	AvgTurnaroundTime float64
	Throughput        float64
	CPUUtilization    float64
	AvgQueueLength    float64
	FinalClockTime    float64
	CompletedCount    int

	TotalTurnaroundTime float64
	TotalBusyTime       float64
	EventsProcessed     int
	MaxQueueLength      int
	// Censored is the number of events still pending when the run stopped.
	Censored int
}

// Accumulator collects the observation streams of a run: one turnaround
// addend per completion, one busy-time addend per service started and one
// queue-length sample per processed event.
type Accumulator struct {
	totalTurnaround float64
	totalBusy       float64
	completed       int
	queueLengths    []float64
	maxQueueLength  int
}

// NewAccumulator creates an empty accumulator. sizeHint preallocates room
// for that many queue-length samples.
func NewAccumulator(sizeHint int) *Accumulator {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &Accumulator{queueLengths: make([]float64, 0, sizeHint)}
}

// RecordCompletion adds the turnaround time of one departed customer
func (a *Accumulator) RecordCompletion(turnaround float64) {
	a.totalTurnaround += turnaround
	a.completed++
}

// RecordBusy adds a service duration to the cumulative busy time
func (a *Accumulator) RecordBusy(service float64) {
	a.totalBusy += service
}

// ObserveQueueLength records the waiting line length after an event
func (a *Accumulator) ObserveQueueLength(n int) {
	a.queueLengths = append(a.queueLengths, float64(n))
	if n > a.maxQueueLength {
		a.maxQueueLength = n
	}
}

// Completed returns the number of completions recorded so far
func (a *Accumulator) Completed() int {
	return a.completed
}

// Finalize derives the aggregate statistics at the given final clock time.
func (a *Accumulator) Finalize(finalClock float64) (Result, error) {
	if a.completed == 0 {
		return Result{}, fmt.Errorf("%w: no completions recorded", ErrDegenerateMetrics)
	}
	if finalClock <= 0 {
		return Result{}, fmt.Errorf("%w: final clock time is %v", ErrDegenerateMetrics, finalClock)
	}
	if len(a.queueLengths) == 0 {
		return Result{}, fmt.Errorf("%w: no queue length samples", ErrDegenerateMetrics)
	}

	return Result{
		AvgTurnaroundTime:   a.totalTurnaround / float64(a.completed),
		Throughput:          float64(a.completed) / finalClock,
		CPUUtilization:      a.totalBusy / finalClock,
		AvgQueueLength:      stat.Mean(a.queueLengths, nil),
		FinalClockTime:      finalClock,
		CompletedCount:      a.completed,
		TotalTurnaroundTime: a.totalTurnaround,
		TotalBusyTime:       a.totalBusy,
		EventsProcessed:     len(a.queueLengths),
		MaxQueueLength:      a.maxQueueLength,
	}, nil
}
