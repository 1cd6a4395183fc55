/*
Copyright 2025 The llm-d Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package solver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/llm-d/mdp-value-iteration/internal/metrics"
	"github.com/llm-d/mdp-value-iteration/pkg/core"
	"github.com/llm-d/mdp-value-iteration/pkg/mdp"
)

var (
	ErrNilModel          = errors.New("model cannot be nil")
	ErrUnknownStrategy   = errors.New("unknown solver strategy")
	ErrInvalidDiscount   = errors.New("invalid discount")
	ErrInvalidIterations = errors.New("invalid iterations")
	ErrInvalidTheta      = errors.New("invalid theta")
)

// Strategy selects how state updates are scheduled.
type Strategy int

// enumeration of Strategy
const (
	// SynchronousStrategy sweeps every state per iteration using only the previous sweep's values.
	SynchronousStrategy Strategy = iota
	// CyclicStrategy updates one state per iteration, in place, cycling through the states.
	CyclicStrategy
	// PrioritizedSweepingStrategy updates the state with the largest residual first.
	PrioritizedSweepingStrategy
)

// Defaults taken by DefaultConfig.
const (
	DefaultDiscount              = 0.9
	DefaultSynchronousIterations = 100
	DefaultCyclicIterations      = 1000
	DefaultPrioritizedIterations = 100
	DefaultTheta                 = 1e-5
)

const (
	synchronousName = "synchronous"
	cyclicName      = "cyclic"
	prioritizedName = "prioritized"
)

func (s Strategy) String() string {
	switch s {
	case SynchronousStrategy:
		return synchronousName
	case CyclicStrategy:
		return cyclicName
	case PrioritizedSweepingStrategy:
		return prioritizedName
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy maps a strategy name to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case synchronousName, "sync", "batch":
		return SynchronousStrategy, nil
	case cyclicName, "async", "asynchronous":
		return CyclicStrategy, nil
	case prioritizedName, "prioritized-sweeping", "sweeping":
		return PrioritizedSweepingStrategy, nil
	default:
		return SynchronousStrategy, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// DefaultIterations returns the iteration budget used when none is configured.
func DefaultIterations(s Strategy) int {
	if s == CyclicStrategy {
		return DefaultCyclicIterations
	}
	if s == PrioritizedSweepingStrategy {
		return DefaultPrioritizedIterations
	}
	return DefaultSynchronousIterations
}

// Config holds the parameters of one solver run.
type Config struct {
	Strategy Strategy
	// Discount is the discount factor, expected in [0, 1).
	// 1 is accepted for episodic models whose values stay finite.
	Discount float64
	// Iterations is the update budget. For the synchronous strategy one
	// iteration is a full sweep; for the others it is a single state update.
	Iterations int
	// Theta is the residual above which a predecessor is queued.
	// Only the prioritized strategy reads it.
	Theta float64
}

// DefaultConfig returns the default configuration for strategy.
func DefaultConfig(s Strategy) Config {
	return Config{
		Strategy:   s,
		Discount:   DefaultDiscount,
		Iterations: DefaultIterations(s),
		Theta:      DefaultTheta,
	}
}

// Validate checks for invalid configuration values.
func (c Config) Validate() error {
	switch c.Strategy {
	case SynchronousStrategy, CyclicStrategy, PrioritizedSweepingStrategy:
	default:
		return fmt.Errorf("%w: %v", ErrUnknownStrategy, c.Strategy)
	}
	if math.IsNaN(c.Discount) || c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("%w: discount must be between 0 and 1, got %.2f", ErrInvalidDiscount, c.Discount)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("%w: iterations must be > 0, got %d", ErrInvalidIterations, c.Iterations)
	}
	if c.Strategy == PrioritizedSweepingStrategy && (math.IsNaN(c.Theta) || c.Theta <= 0) {
		return fmt.Errorf("%w: theta must be > 0, got %g", ErrInvalidTheta, c.Theta)
	}
	return nil
}

// Stats describes a completed run.
type Stats struct {
	Strategy Strategy
	// IterationsUsed is the part of the budget consumed. A prioritized run
	// whose queue empties early uses less than Config.Iterations.
	IterationsUsed int
	// Updates is the number of value writes.
	Updates int
	// QueueDrained is true when a prioritized run ended with an empty queue.
	QueueDrained bool
	// MaxResidual is the largest |new - old| of the final synchronous sweep or
	// cyclic pass, or of the last prioritized update.
	MaxResidual float64
}

func (s Stats) toRunStats() metrics.RunStats {
	return metrics.RunStats{
		IterationsUsed: s.IterationsUsed,
		Updates:        s.Updates,
		MaxResidual:    s.MaxResidual,
		QueueDrained:   s.QueueDrained,
	}
}

// Solver runs value iteration over a model, writing its estimates into values.
// A run never fails: malformed models are the caller's responsibility.
type Solver[S comparable, A comparable] interface {
	// Solve consumes the configured budget and returns what the run did.
	Solve(ctx context.Context, model mdp.Model[S, A], values *core.ValueTable[S]) Stats
}

type options struct {
	recorder metrics.Recorder
}

// Option customizes a solver.
type Option func(*options)

// WithRecorder reports every run to r.
func WithRecorder(r metrics.Recorder) Option {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}

// NewSolver is a factory that creates the solver selected by cfg.Strategy.
func NewSolver[S comparable, A comparable](cfg Config, opts ...Option) (Solver[S, A], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{recorder: metrics.NopRecorder{}}
	for _, opt := range opts {
		opt(&o)
	}

	switch cfg.Strategy {
	case SynchronousStrategy:
		return &synchronousSolver[S, A]{config: cfg, opts: o}, nil
	case CyclicStrategy:
		return &cyclicSolver[S, A]{config: cfg, opts: o}, nil
	case PrioritizedSweepingStrategy:
		return &prioritizedSolver[S, A]{config: cfg, opts: o}, nil
	default:
		return nil, fmt.Errorf("unsupported solver strategy: %v", cfg.Strategy)
	}
}
