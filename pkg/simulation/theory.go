package simulation

import (
	"errors"
	"fmt"
)

// ErrUnstable is returned when the offered load is at or above one
var ErrUnstable = errors.New("unstable queue: utilization >= 1")

// Theory holds the closed-form steady-state values of an M/M/1 queue.
type Theory struct {
	Rho        float64 // server utilization
	L          float64 // mean number in system
	Lq         float64 // mean number waiting
	W          float64 // mean time in system
	Wq         float64 // mean time waiting
	Throughput float64
}

// Theoretical computes the M/M/1 steady state for the given arrival rate and
// mean service time. Rho is always filled in, even when ErrUnstable is returned.
func Theoretical(arrivalRate, meanServiceTime float64) (Theory, error) {
	if !isPositiveFinite(arrivalRate) || !isPositiveFinite(meanServiceTime) {
		return Theory{}, fmt.Errorf("%w: arrival rate %v, mean service time %v",
			ErrInvalidParameter, arrivalRate, meanServiceTime)
	}

	lambda := arrivalRate
	mu := 1 / meanServiceTime
	rho := lambda * meanServiceTime
	if rho >= 1 {
		return Theory{Rho: rho, Throughput: mu}, fmt.Errorf("%w: rho=%.4f", ErrUnstable, rho)
	}

	return Theory{
		Rho:        rho,
		L:          rho / (1 - rho),
		Lq:         rho * rho / (1 - rho),
		W:          1 / (mu - lambda),
		Wq:         rho / (mu - lambda),
		Throughput: lambda,
	}, nil
}
