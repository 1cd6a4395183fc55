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
	"cmp"
	"context"
	"math"
	"slices"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/llm-d/mdp-value-iteration/internal/logging"
	"github.com/llm-d/mdp-value-iteration/internal/utils/pqueue"
	"github.com/llm-d/mdp-value-iteration/pkg/core"
	"github.com/llm-d/mdp-value-iteration/pkg/mdp"
)

// prioritizedSolver implements prioritized sweeping: states are updated in
// order of decreasing residual, and every update re-queues the predecessors
// whose residual rose above theta.
type prioritizedSolver[S comparable, A comparable] struct {
	config Config
	opts   options
}

// Predecessors maps a state to the non-terminal states that reach it in one
// step with nonzero probability, listed in the model's state order.
type Predecessors[S comparable] map[S][]S

// BuildPredecessors computes the predecessor map of model.
func BuildPredecessors[S comparable, A comparable](model mdp.Model[S, A]) Predecessors[S] {
	return buildPredecessors(model, model.States())
}

func buildPredecessors[S comparable, A comparable](model mdp.Model[S, A], states []S) Predecessors[S] {
	rank := make(map[S]int, len(states))
	for i, s := range states {
		rank[s] = i
	}

	found := make(map[S]sets.Set[S])
	for _, s := range states {
		if model.IsTerminal(s) {
			continue
		}
		for _, action := range model.PossibleActions(s) {
			for _, t := range model.TransitionStatesAndProbs(s, action) {
				if t.Prob == 0 {
					continue
				}
				if found[t.State] == nil {
					found[t.State] = sets.New[S]()
				}
				found[t.State].Insert(s)
			}
		}
	}

	preds := make(Predecessors[S], len(found))
	for next, origins := range found {
		list := origins.UnsortedList()
		slices.SortFunc(list, func(a, b S) int { return cmp.Compare(rank[a], rank[b]) })
		preds[next] = list
	}
	return preds
}

// Solve implements Solver.
func (s *prioritizedSolver[S, A]) Solve(ctx context.Context, model mdp.Model[S, A], values *core.ValueTable[S]) Stats {
	states := model.States()
	_, run := startRun(ctx, s.config, s.opts, len(states))
	discount := s.config.Discount

	// read-only for the rest of the run
	preds := buildPredecessors(model, states)

	// priorities are negated residuals so that the min-queue pops the stalest state first
	queue := pqueue.New[S]()
	for _, state := range states {
		if model.IsTerminal(state) {
			continue
		}
		queue.Push(state, -Residual(model, values, discount, state))
	}
	if top, priority, ok := queue.Peek(); ok {
		run.logger.V(logging.DEBUG).Info("Seeded priority queue",
			"queued", queue.Len(),
			"predecessorTargets", len(preds),
			"first", top,
			"firstResidual", -priority)
	}

	stats := Stats{Strategy: PrioritizedSweepingStrategy}
	for i := 0; i < s.config.Iterations; i++ {
		state, ok := queue.Pop()
		if !ok {
			break
		}
		stats.IterationsUsed++

		if !model.IsTerminal(state) {
			v := BestValue(model, values, discount, state)
			stats.MaxResidual = math.Abs(v - values.Get(state))
			values.Set(state, v)
			stats.Updates++
			run.logger.V(logging.TRACE).Info("Updated state", "state", state, "value", v)
		}

		for _, p := range preds[state] {
			diff := Residual(model, values, discount, p)
			if diff > s.config.Theta {
				previous, queued := queue.Priority(p)
				if queue.Update(p, -diff) && run.logger.V(logging.TRACE).Enabled() {
					run.logger.V(logging.TRACE).Info("Queued predecessor",
						"state", p, "residual", diff, "requeued", queued, "previousResidual", -previous)
				}
			}
		}
	}
	stats.QueueDrained = queue.IsEmpty()

	run.finish(stats)
	return stats
}
