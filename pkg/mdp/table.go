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

package mdp

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/sets"
)

var (
	ErrNoStates           = errors.New("model declares no states")
	ErrUnknownState       = errors.New("transition references an undeclared state")
	ErrTerminalHasActions = errors.New("terminal state declares transitions")
	ErrBadProbabilities   = errors.New("outcome probabilities do not sum to 1")
	ErrDuplicateOutcome   = errors.New("successor listed twice for one action")
)

// probabilityTolerance bounds how far the outcome probabilities of a
// (state, action) pair may drift from 1.
const probabilityTolerance = 1e-9

// TableSpec is the YAML form of a TableModel.
type TableSpec struct {
	// States lists every state. Its order is the model's enumeration order.
	States []string `yaml:"states"`

	// Terminal lists the terminal states.
	Terminal []string `yaml:"terminal,omitempty"`

	// Transitions lists the outcomes of each legal (state, action) pair.
	// Actions of a state are enumerated in first-seen order.
	Transitions []TransitionSpec `yaml:"transitions"`
}

// TransitionSpec declares the outcomes of one (state, action) pair.
type TransitionSpec struct {
	State    string        `yaml:"state"`
	Action   string        `yaml:"action"`
	Outcomes []OutcomeSpec `yaml:"outcomes"`
}

// OutcomeSpec is a single successor with its probability and reward.
type OutcomeSpec struct {
	Next   string  `yaml:"next"`
	Prob   float64 `yaml:"prob"`
	Reward float64 `yaml:"reward,omitempty"`
}

type stateAction struct {
	state  string
	action string
}

type stateActionState struct {
	state  string
	action string
	next   string
}

// TableModel is an explicit finite MDP with string states and actions.
// It implements Model[string, string].
type TableModel struct {
	states      []string
	terminal    sets.Set[string]
	actions     map[string][]string
	transitions map[stateAction][]Transition[string]
	rewards     map[stateActionState]float64
}

var _ Model[string, string] = (*TableModel)(nil)

// NewTableModel validates spec and builds the model.
func NewTableModel(spec TableSpec) (*TableModel, error) {
	if len(spec.States) == 0 {
		return nil, ErrNoStates
	}

	declared := sets.New[string]()
	for _, s := range spec.States {
		if declared.Has(s) {
			return nil, fmt.Errorf("state %q declared twice", s)
		}
		declared.Insert(s)
	}

	m := &TableModel{
		states:      append([]string(nil), spec.States...),
		terminal:    sets.New[string](),
		actions:     make(map[string][]string),
		transitions: make(map[stateAction][]Transition[string]),
		rewards:     make(map[stateActionState]float64),
	}

	for _, s := range spec.Terminal {
		if !declared.Has(s) {
			return nil, fmt.Errorf("terminal %q: %w", s, ErrUnknownState)
		}
		m.terminal.Insert(s)
	}

	for _, t := range spec.Transitions {
		if !declared.Has(t.State) {
			return nil, fmt.Errorf("state %q: %w", t.State, ErrUnknownState)
		}
		if m.terminal.Has(t.State) {
			return nil, fmt.Errorf("state %q: %w", t.State, ErrTerminalHasActions)
		}
		key := stateAction{state: t.State, action: t.Action}
		if _, exists := m.transitions[key]; exists {
			return nil, fmt.Errorf("action %q of state %q declared twice", t.Action, t.State)
		}

		probs := make([]float64, 0, len(t.Outcomes))
		outcomes := make([]Transition[string], 0, len(t.Outcomes))
		// rewards are keyed by successor, so each successor may appear once per action
		seen := sets.New[string]()
		for _, o := range t.Outcomes {
			if !declared.Has(o.Next) {
				return nil, fmt.Errorf("outcome %q of (%s, %s): %w", o.Next, t.State, t.Action, ErrUnknownState)
			}
			if seen.Has(o.Next) {
				return nil, fmt.Errorf("outcome %q of (%s, %s): %w", o.Next, t.State, t.Action, ErrDuplicateOutcome)
			}
			seen.Insert(o.Next)
			if o.Prob < 0 {
				return nil, fmt.Errorf("outcome %q of (%s, %s) has negative probability %g: %w",
					o.Next, t.State, t.Action, o.Prob, ErrBadProbabilities)
			}
			probs = append(probs, o.Prob)
			outcomes = append(outcomes, Transition[string]{State: o.Next, Prob: o.Prob})
			m.rewards[stateActionState{state: t.State, action: t.Action, next: o.Next}] = o.Reward
		}
		if sum := floats.Sum(probs); !scalar.EqualWithinAbs(sum, 1, probabilityTolerance) {
			return nil, fmt.Errorf("(%s, %s) sums to %g: %w", t.State, t.Action, sum, ErrBadProbabilities)
		}

		m.transitions[key] = outcomes
		m.actions[t.State] = append(m.actions[t.State], t.Action)
	}

	return m, nil
}

// ParseTableModel decodes a YAML document into a TableModel.
func ParseTableModel(data []byte) (*TableModel, error) {
	var spec TableSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse model: %w", err)
	}
	return NewTableModel(spec)
}

// LoadTableModel reads and parses a YAML model file.
func LoadTableModel(path string) (*TableModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model %s: %w", path, err)
	}
	m, err := ParseTableModel(data)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	return m, nil
}

// States returns a copy of the states in declaration order.
func (m *TableModel) States() []string {
	return slices.Clone(m.states)
}

// PossibleActions returns a copy of the actions of state in declaration order.
func (m *TableModel) PossibleActions(state string) []string {
	if m.terminal.Has(state) {
		return nil
	}
	return slices.Clone(m.actions[state])
}

// TransitionStatesAndProbs returns the declared outcomes of (state, action).
func (m *TableModel) TransitionStatesAndProbs(state, action string) []Transition[string] {
	return m.transitions[stateAction{state: state, action: action}]
}

// Reward returns the reward declared on the outcome, or 0 for an undeclared triple.
func (m *TableModel) Reward(state, action, next string) float64 {
	return m.rewards[stateActionState{state: state, action: action, next: next}]
}

// IsTerminal reports whether state was listed as terminal.
func (m *TableModel) IsTerminal(state string) bool {
	return m.terminal.Has(state)
}
