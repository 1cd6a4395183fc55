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

// Package mdp defines the finite Markov decision process contract consumed by
// the solvers, plus TableModel, an explicit MDP that can be declared in YAML.
package mdp

// Transition is one possible outcome of taking an action in a state.
type Transition[S comparable] struct {
	// State is the successor state.
	State S
	// Prob is the probability of reaching State. The probabilities of all
	// outcomes of a (state, action) pair are expected to sum to 1.
	Prob float64
}

// Model is a finite MDP. Implementations must be side-effect free and return
// sequences in a stable order: the solvers rely on the order of States for
// cyclic updates and on the order of PossibleActions for tie-breaking.
type Model[S comparable, A comparable] interface {
	// States returns every state of the MDP.
	States() []S

	// PossibleActions returns the legal actions in state. It is empty for terminal states.
	PossibleActions(state S) []A

	// TransitionStatesAndProbs returns the outcomes of taking action in state.
	TransitionStatesAndProbs(state S, action A) []Transition[S]

	// Reward returns the reward for the transition state -action-> next.
	Reward(state S, action A, next S) float64

	// IsTerminal reports whether state ends an episode.
	IsTerminal(state S) bool
}
