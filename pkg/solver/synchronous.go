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
	"math"

	"github.com/llm-d/mdp-value-iteration/internal/logging"
	"github.com/llm-d/mdp-value-iteration/pkg/core"
	"github.com/llm-d/mdp-value-iteration/pkg/mdp"
)

// synchronousSolver implements batch value iteration: each sweep computes a
// fresh table from the previous one only, then swaps it in.
type synchronousSolver[S comparable, A comparable] struct {
	config Config
	opts   options
}

// Solve implements Solver.
func (s *synchronousSolver[S, A]) Solve(ctx context.Context, model mdp.Model[S, A], values *core.ValueTable[S]) Stats {
	states := model.States()
	_, run := startRun(ctx, s.config, s.opts, len(states))

	stats := Stats{Strategy: SynchronousStrategy}
	for i := 0; i < s.config.Iterations; i++ {
		next := core.NewValueTableWithCapacity[S](len(states))
		residual := 0.0
		for _, state := range states {
			v := 0.0
			if !model.IsTerminal(state) {
				v = BestValue(model, values, s.config.Discount, state)
			}
			residual = math.Max(residual, math.Abs(v-values.Get(state)))
			next.Set(state, v)
			stats.Updates++
		}
		values.Replace(next)

		stats.IterationsUsed++
		stats.MaxResidual = residual
		run.logger.V(logging.DEBUG).Info("Sweep completed", "sweep", i+1, "maxResidual", residual)
	}

	run.finish(stats)
	return stats
}
