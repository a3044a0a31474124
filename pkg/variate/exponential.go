package variate

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// Source produces the random durations consumed by the simulation engine.
// Implementations are not safe for concurrent use; each engine owns its own.
type Source interface {
	// Interarrival returns the time until the next arrival of a stream with the given rate.
	Interarrival(rate float64) float64
	// Service returns a service duration drawn with the given mean.
	Service(mean float64) float64
}

// pcgIncrement is the second PCG state word; any odd constant works.
const pcgIncrement = 0xda3e39cb94b95bdb

// Exponential samples inter-arrival and service durations from
// exponential distributions sharing a single generator stream.
type Exponential struct {
	seed uint64
	src  rand.Source
}

// NewSeeded creates a reproducible source: the same seed always yields
// the same sequence of samples.
func NewSeeded(seed uint64) *Exponential {
	return &Exponential{
		seed: seed,
		src:  rand.NewPCG(seed, pcgIncrement),
	}
}

// New creates a source seeded from the wall clock.
func New() *Exponential {
	return NewSeeded(uint64(time.Now().UnixNano()))
}

// Seed returns the seed the source was created with.
func (e *Exponential) Seed() uint64 {
	return e.seed
}

// Interarrival draws from Exp(rate), mean 1/rate.
func (e *Exponential) Interarrival(rate float64) float64 {
	return e.sample(rate)
}

// Service draws from an exponential distribution with the given mean.
func (e *Exponential) Service(mean float64) float64 {
	return e.sample(1 / mean)
}

// sample never returns zero: draws that underflow, or rates that overflow
// to +Inf, yield the smallest positive float instead.
func (e *Exponential) sample(rate float64) float64 {
	dist := distuv.Exponential{Rate: rate, Src: e.src}
	v := dist.Rand()
	if !(v > 0) {
		return math.SmallestNonzeroFloat64
	}
	return v
}

// DeriveSeed maps a base seed and a run index to an independent seed
// (splitmix64 finalizer), so every run in a sweep gets its own stream.
func DeriveSeed(base uint64, index int) uint64 {
	z := base + uint64(index+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
