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

	"github.com/llm-d/mdp-value-iteration/pkg/core"
	"github.com/llm-d/mdp-value-iteration/pkg/mdp"
)

// Agent runs one solver over a model at construction and then answers value,
// Q-value and policy queries against the resulting table.
// The table is never mutated after NewAgent returns, so repeated queries agree.
type Agent[S comparable, A comparable] struct {
	model  mdp.Model[S, A]
	config Config
	values *core.ValueTable[S]
	stats  Stats
}

// NewAgent validates cfg, runs the selected strategy to completion and returns
// the agent holding the final values.
func NewAgent[S comparable, A comparable](
	ctx context.Context,
	model mdp.Model[S, A],
	cfg Config,
	opts ...Option,
) (*Agent[S, A], error) {
	if model == nil {
		return nil, ErrNilModel
	}
	solver, err := NewSolver[S, A](cfg, opts...)
	if err != nil {
		return nil, err
	}

	values := core.NewValueTable[S]()
	stats := solver.Solve(ctx, model, values)

	return &Agent[S, A]{
		model:  model,
		config: cfg,
		values: values,
		stats:  stats,
	}, nil
}

// Value returns the final value of state, 0 if it was never updated.
func (a *Agent[S, A]) Value(state S) float64 {
	return a.values.Get(state)
}

// QValue recomputes the Q-value of action in state from the final values.
func (a *Agent[S, A]) QValue(state S, action A) float64 {
	return QValue(a.model, a.values, a.config.Discount, state, action)
}

// Policy returns the greedy action in state. The boolean is false at
// terminal states, where no decision applies.
func (a *Agent[S, A]) Policy(state S) (A, bool) {
	return BestAction(a.model, a.values, a.config.Discount, state)
}

// Action returns the action to take in state: the policy, without exploration.
func (a *Agent[S, A]) Action(state S) (A, bool) {
	return a.Policy(state)
}

// Values returns a copy of every stored value.
func (a *Agent[S, A]) Values() map[S]float64 {
	return a.values.Snapshot()
}

// Stats returns what the run did.
func (a *Agent[S, A]) Stats() Stats {
	return a.stats
}

// Config returns the configuration the agent ran with.
func (a *Agent[S, A]) Config() Config {
	return a.config
}
