package solver

import (
	"github.com/llm-d/mdp-value-iteration/internal/metrics"
	"github.com/llm-d/mdp-value-iteration/pkg/mdp"
)

func mustModel(spec mdp.TableSpec) *mdp.TableModel {
	m, err := mdp.NewTableModel(spec)
	if err != nil {
		panic(err)
	}
	return m
}

func step(state, action, next string, reward float64) mdp.TransitionSpec {
	return mdp.TransitionSpec{
		State:    state,
		Action:   action,
		Outcomes: []mdp.OutcomeSpec{{Next: next, Prob: 1, Reward: reward}},
	}
}

// chainModel is A -> B -> T with a unit reward per step, enumerated in order.
func chainModel(order ...string) *mdp.TableModel {
	if len(order) == 0 {
		order = []string{"A", "B", "T"}
	}
	return mustModel(mdp.TableSpec{
		States:   order,
		Terminal: []string{"T"},
		Transitions: []mdp.TransitionSpec{
			step("A", "right", "B", 1),
			step("B", "right", "T", 1),
		},
	})
}

// loopModel is A looping on itself with reward 1, plus an unreachable terminal T.
func loopModel() *mdp.TableModel {
	return mustModel(mdp.TableSpec{
		States:      []string{"A", "T"},
		Terminal:    []string{"T"},
		Transitions: []mdp.TransitionSpec{step("A", "stay", "A", 1)},
	})
}

// bridgeModel mixes stochastic outcomes, several actions per state and negative rewards.
func bridgeModel() *mdp.TableModel {
	return mustModel(mdp.TableSpec{
		States:   []string{"start", "bridge", "river", "goal", "exit"},
		Terminal: []string{"exit"},
		Transitions: []mdp.TransitionSpec{
			{State: "start", Action: "cross", Outcomes: []mdp.OutcomeSpec{
				{Next: "bridge", Prob: 0.8},
				{Next: "river", Prob: 0.2},
			}},
			step("start", "quit", "exit", 1),
			{State: "bridge", Action: "cross", Outcomes: []mdp.OutcomeSpec{
				{Next: "goal", Prob: 0.9},
				{Next: "river", Prob: 0.1},
			}},
			{State: "bridge", Action: "back", Outcomes: []mdp.OutcomeSpec{
				{Next: "start", Prob: 1},
			}},
			step("river", "exit", "exit", -100),
			step("goal", "exit", "exit", 10),
		},
	})
}

// cycleModel has a self-loop and a cycle so values only converge in the limit.
func cycleModel() *mdp.TableModel {
	return mustModel(mdp.TableSpec{
		States:   []string{"X", "Y", "T"},
		Terminal: []string{"T"},
		Transitions: []mdp.TransitionSpec{
			{State: "X", Action: "wait", Outcomes: []mdp.OutcomeSpec{
				{Next: "X", Prob: 0.5, Reward: 1},
				{Next: "Y", Prob: 0.5, Reward: 1},
			}},
			{State: "Y", Action: "go", Outcomes: []mdp.OutcomeSpec{
				{Next: "T", Prob: 0.5, Reward: 2},
				{Next: "X", Prob: 0.5, Reward: 0},
			}},
		},
	})
}

// lockStep applies k synchronous Bellman backups from an all-zero table.
func lockStep(model mdp.Model[string, string], discount float64, k int) map[string]float64 {
	v := map[string]float64{}
	for i := 0; i < k; i++ {
		next := map[string]float64{}
		for _, s := range model.States() {
			if model.IsTerminal(s) {
				next[s] = 0
				continue
			}
			best, found := 0.0, false
			for _, a := range model.PossibleActions(s) {
				q := 0.0
				for _, t := range model.TransitionStatesAndProbs(s, a) {
					q += t.Prob * (model.Reward(s, a, t.State) + discount*v[t.State])
				}
				if !found || q > best {
					best, found = q, true
				}
			}
			next[s] = best
		}
		v = next
	}
	return v
}

type fakeRecorder struct {
	strategies []string
	stats      []metrics.RunStats
}

func (f *fakeRecorder) ObserveRun(strategy string, stats metrics.RunStats) {
	f.strategies = append(f.strategies, strategy)
	f.stats = append(f.stats, stats)
}
