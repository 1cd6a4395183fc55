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

// cyclicSolver updates one state per iteration, in place, walking the
// model's state order round-robin. Later updates see earlier ones.
type cyclicSolver[S comparable, A comparable] struct {
	config Config
	opts   options
}

// Solve implements Solver.
func (s *cyclicSolver[S, A]) Solve(ctx context.Context, model mdp.Model[S, A], values *core.ValueTable[S]) Stats {
	// the order is captured once so that i mod n addresses the same state all run
	states := model.States()
	_, run := startRun(ctx, s.config, s.opts, len(states))

	stats := Stats{Strategy: CyclicStrategy}
	n := len(states)
	if n == 0 {
		run.finish(stats)
		return stats
	}

	passResidual := 0.0
	for i := 0; i < s.config.Iterations; i++ {
		if i%n == 0 {
			if i > 0 {
				run.logger.V(logging.DEBUG).Info("Pass completed", "pass", i/n, "maxResidual", passResidual)
			}
			passResidual = 0
		}
		stats.IterationsUsed++

		state := states[i%n]
		if model.IsTerminal(state) {
			continue
		}
		v := BestValue(model, values, s.config.Discount, state)
		passResidual = math.Max(passResidual, math.Abs(v-values.Get(state)))
		values.Set(state, v)
		stats.Updates++
		run.logger.V(logging.TRACE).Info("Updated state", "state", state, "value", v)
	}
	stats.MaxResidual = passResidual

	run.finish(stats)
	return stats
}
