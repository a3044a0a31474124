package simulation

import (
	"errors"
	"fmt"
	"math"

	"github.com/sherine-k/mm1sim/pkg/variate"
	"go.uber.org/zap"
)

var (
	// ErrInvalidParameter is returned for non-positive rates, means or completion targets
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrEmptyQueue means the event queue drained before the run completed.
	// The scheduling rules make this unreachable; seeing it is a bug.
	ErrEmptyQueue = errors.New("event queue exhausted")
	// ErrDegenerateMetrics is returned when metrics would divide by zero
	ErrDegenerateMetrics = errors.New("degenerate metrics")
)

// Observer is notified after every processed event
type Observer interface {
	Observe(Snapshot)
}

// ObserverFunc adapts a function to the Observer interface
type ObserverFunc func(Snapshot)

// Observe calls f(s)
func (f ObserverFunc) Observe(s Snapshot) { f(s) }

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger used for run start and end messages
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithObserver registers an observer called after every transition
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// Engine simulates a single-server FCFS queue with exponential
// inter-arrival and service times.
type Engine struct {
	arrivalRate     float64
	meanServiceTime float64
	maxCompletions  int
	source          variate.Source
	logger          *zap.SugaredLogger
	observer        Observer
}

// runState is everything a single run mutates. It is created by Run and
// handed to each transition by pointer.
type runState struct {
	clock      float64
	serverBusy bool
	serving    inService
	line       []Customer
	events     *eventQueue
	completed  int
	processed  int
	metrics    *Accumulator
}

// New validates the parameters and creates an engine. Nothing is scheduled
// until Run is called.
func New(arrivalRate, meanServiceTime float64, maxCompletions int, source variate.Source, opts ...Option) (*Engine, error) {
	if !isPositiveFinite(arrivalRate) {
		return nil, fmt.Errorf("%w: arrival rate must be a positive number, got %v", ErrInvalidParameter, arrivalRate)
	}
	if !isPositiveFinite(meanServiceTime) || math.IsInf(1/meanServiceTime, 1) {
		return nil, fmt.Errorf("%w: mean service time must be a positive number with a finite service rate, got %v", ErrInvalidParameter, meanServiceTime)
	}
	if maxCompletions < 1 {
		return nil, fmt.Errorf("%w: max completions must be at least 1, got %d", ErrInvalidParameter, maxCompletions)
	}
	if source == nil {
		return nil, fmt.Errorf("%w: variate source is required", ErrInvalidParameter)
	}

	e := &Engine{
		arrivalRate:     arrivalRate,
		meanServiceTime: meanServiceTime,
		maxCompletions:  maxCompletions,
		source:          source,
		logger:          zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Run drains events until maxCompletions customers have departed. Events
// still pending at that point are discarded. Each call starts from an empty
// system but keeps drawing from the same variate source.
func (e *Engine) Run() (Result, error) {
	e.logger.Debugw("starting run",
		"arrivalRate", e.arrivalRate,
		"meanServiceTime", e.meanServiceTime,
		"maxCompletions", e.maxCompletions)

	s := &runState{
		events:  newEventQueue(),
		line:    make([]Customer, 0, 16),
		metrics: NewAccumulator(2 * e.maxCompletions),
	}

	s.events.schedule(Event{Time: e.source.Interarrival(e.arrivalRate), Kind: Arrival})

	for s.completed < e.maxCompletions {
		ev, ok := s.events.next()
		if !ok {
			return Result{}, fmt.Errorf("%w after %d of %d completions at t=%v",
				ErrEmptyQueue, s.completed, e.maxCompletions, s.clock)
		}

		switch ev.Kind {
		case Arrival:
			e.handleArrival(s, ev)
		case Departure:
			e.handleDeparture(s, ev)
		}

		s.metrics.ObserveQueueLength(len(s.line))
		s.processed++

		if e.observer != nil {
			e.observer.Observe(Snapshot{
				Seq:               s.processed,
				Event:             ev,
				Clock:             s.clock,
				ServerBusy:        s.serverBusy,
				WaitingLine:       len(s.line),
				PendingDepartures: s.events.pendingDepartures(),
				Completed:         s.completed,
			})
		}
	}

	result, err := s.metrics.Finalize(s.clock)
	if err != nil {
		return Result{}, err
	}
	result.ArrivalRate = e.arrivalRate
	result.MeanServiceTime = e.meanServiceTime
	result.Censored = s.events.Len()

	e.logger.Debugw("run finished",
		"arrivalRate", e.arrivalRate,
		"finalClock", result.FinalClockTime,
		"events", result.EventsProcessed,
		"utilization", result.CPUUtilization,
		"avgTurnaround", result.AvgTurnaroundTime)

	return result, nil
}

// handleArrival admits a new customer: straight into service if the server
// is idle, otherwise to the tail of the waiting line. The next arrival is
// always scheduled.
func (e *Engine) handleArrival(s *runState, ev Event) {
	s.clock = ev.Time

	customer := Customer{
		ArrivalTime: s.clock,
		ServiceTime: e.source.Service(e.meanServiceTime),
	}

	if !s.serverBusy {
		s.serverBusy = true
		s.serving = inService{customer: customer, turnaround: customer.ServiceTime}
		s.events.schedule(Event{Time: s.clock + customer.ServiceTime, Kind: Departure})
		s.metrics.RecordBusy(customer.ServiceTime)
	} else {
		s.line = append(s.line, customer)
	}

	s.events.schedule(Event{Time: s.clock + e.source.Interarrival(e.arrivalRate), Kind: Arrival})
}

// handleDeparture completes the customer in service and hands the server
// to the head of the line, if any.
func (e *Engine) handleDeparture(s *runState, ev Event) {
	s.clock = ev.Time

	s.completed++
	s.metrics.RecordCompletion(s.serving.turnaround)

	if len(s.line) > 0 {
		next := s.line[0]
		s.line[0] = Customer{}
		s.line = s.line[1:]

		s.serving = inService{
			customer:   next,
			turnaround: s.clock - next.ArrivalTime + next.ServiceTime,
		}
		s.events.schedule(Event{Time: s.clock + next.ServiceTime, Kind: Departure})
		s.metrics.RecordBusy(next.ServiceTime)
	} else {
		s.serverBusy = false
		s.serving = inService{}
	}
}

// ArrivalRate returns the configured arrival rate
func (e *Engine) ArrivalRate() float64 {
	return e.arrivalRate
}

// MeanServiceTime returns the configured mean service time
func (e *Engine) MeanServiceTime() float64 {
	return e.meanServiceTime
}

// MaxCompletions returns the number of departures a run processes
func (e *Engine) MaxCompletions() int {
	return e.maxCompletions
}
