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
	"math"

	"github.com/llm-d/mdp-value-iteration/pkg/core"
	"github.com/llm-d/mdp-value-iteration/pkg/mdp"
)

// QValue is the one-step Bellman backup of taking action in state:
// the sum over outcomes of prob * (reward + discount * V(next)).
// An action without outcomes has Q-value 0.
func QValue[S comparable, A comparable](
	model mdp.Model[S, A],
	values *core.ValueTable[S],
	discount float64,
	state S,
	action A,
) float64 {
	q := 0.0
	for _, t := range model.TransitionStatesAndProbs(state, action) {
		q += t.Prob * (model.Reward(state, action, t.State) + discount*values.Get(t.State))
	}
	return q
}

// BestAction returns the action with the greatest Q-value in state.
// Ties go to the action enumerated first by the model.
// The boolean is false for terminal states and for states without actions.
func BestAction[S comparable, A comparable](
	model mdp.Model[S, A],
	values *core.ValueTable[S],
	discount float64,
	state S,
) (A, bool) {
	action, _, ok := best(model, values, discount, state)
	return action, ok
}

// BestValue returns the Q-value of BestAction, or 0 when there is none
// (terminal states are worth 0 by convention).
func BestValue[S comparable, A comparable](
	model mdp.Model[S, A],
	values *core.ValueTable[S],
	discount float64,
	state S,
) float64 {
	_, q, _ := best(model, values, discount, state)
	return q
}

// Residual is |V(state) - BestValue(state)|.
func Residual[S comparable, A comparable](
	model mdp.Model[S, A],
	values *core.ValueTable[S],
	discount float64,
	state S,
) float64 {
	return math.Abs(values.Get(state) - BestValue(model, values, discount, state))
}

func best[S comparable, A comparable](
	model mdp.Model[S, A],
	values *core.ValueTable[S],
	discount float64,
	state S,
) (A, float64, bool) {
	var bestAction A
	if model.IsTerminal(state) {
		return bestAction, 0, false
	}

	bestQ := 0.0
	found := false
	for _, action := range model.PossibleActions(state) {
		q := QValue(model, values, discount, state, action)
		// strict comparison keeps the first of equal actions
		if !found || q > bestQ {
			bestAction, bestQ, found = action, q, true
		}
	}
	return bestAction, bestQ, found
}
