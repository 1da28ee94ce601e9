package simulator

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/netman-network/netman/pkg/util"
)

// Default connection simulation parameters.
const (
	DefaultSuccessRate  = 0.9
	DefaultMinLatencyMs = 10.0
	DefaultMaxLatencyMs = 50.0
)

// Outcome is the result of one simulated reachability check.
type Outcome struct {
	Reachable bool    `json:"reachable"`
	LatencyMs float64 `json:"latency_ms"`
}

// ConnectionSimulator draws reachability and latency at random. Results do
// not depend on the device being checked.
//
// Thread-safety: the generator is guarded by a mutex; Simulate may be called
// from any goroutine.
type ConnectionSimulator struct {
	mu          sync.Mutex
	rng         *rand.Rand
	successRate float64
	minLatency  float64
	maxLatency  float64
}

// Option configures a ConnectionSimulator.
type Option func(*ConnectionSimulator)

// WithSeed makes the draw sequence reproducible.
func WithSeed(seed int64) Option {
	return func(s *ConnectionSimulator) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithSuccessRate sets the probability of a reachable outcome, clamped to [0,1].
func WithSuccessRate(p float64) Option {
	return func(s *ConnectionSimulator) {
		switch {
		case p < 0:
			p = 0
		case p > 1:
			p = 1
		}
		s.successRate = p
	}
}

// WithLatencyRange sets the uniform latency interval in milliseconds.
// Reversed bounds are swapped.
func WithLatencyRange(minMs, maxMs float64) Option {
	return func(s *ConnectionSimulator) {
		if minMs > maxMs {
			minMs, maxMs = maxMs, minMs
		}
		s.minLatency = minMs
		s.maxLatency = maxMs
	}
}

// NewConnectionSimulator creates a simulator with p=0.9 and latency in
// [10,50] ms unless overridden.
func NewConnectionSimulator(opts ...Option) *ConnectionSimulator {
	s := &ConnectionSimulator{
		successRate: DefaultSuccessRate,
		minLatency:  DefaultMinLatencyMs,
		maxLatency:  DefaultMaxLatencyMs,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

// Simulate draws a fresh outcome. dev is accepted for interface parity with
// a real probe and does not influence the result.
func (s *ConnectionSimulator) Simulate(dev DeviceInfo) Outcome {
	s.mu.Lock()
	latency := s.minLatency + s.rng.Float64()*(s.maxLatency-s.minLatency)
	reachable := s.rng.Float64() < s.successRate
	s.mu.Unlock()

	util.WithDevice(dev.Hostname).Debugf("simulated probe: reachable=%v latency=%.1fms", reachable, latency)
	return Outcome{Reachable: reachable, LatencyMs: latency}
}

// Probe adapts Simulate to the monitor's prober contract. It never fails and
// ignores ctx because nothing blocks.
func (s *ConnectionSimulator) Probe(_ context.Context, dev DeviceInfo) (Outcome, error) {
	return s.Simulate(dev), nil
}
