// Package solver implements value iteration for finite Markov decision processes.
//
// The solver package computes approximate optimal values and greedy policies for an
// mdp.Model, using one of three update schedules over a core.ValueTable.
//
// Key Components:
//
//   - QValue, BestAction, BestValue: the shared one-step Bellman backup and greedy selection
//   - Solver: interface implemented by the three strategies, built by NewSolver
//   - Agent: runs a strategy once and answers Value, QValue, Policy and Action queries
//
// Strategies:
//
//  1. SynchronousStrategy: every iteration sweeps all states into a fresh table computed
//     only from the previous table, then swaps it in. After k iterations the values are
//     exactly k lock-step Bellman backups from an all-zero table.
//  2. CyclicStrategy: iteration i updates states[i mod n] in place, so later updates see
//     earlier ones within and across passes. Terminal states consume an iteration without
//     an update.
//  3. PrioritizedSweepingStrategy: every non-terminal state is queued by residual; each
//     iteration pops the largest residual, updates it, and re-queues predecessors whose
//     residual exceeds theta. The run stops early once the queue is empty.
//
// Example usage:
//
//	cfg := solver.DefaultConfig(solver.PrioritizedSweepingStrategy)
//	cfg.Discount = 0.99
//
//	agent, err := solver.NewAgent(ctx, model, cfg)
//	if err != nil {
//	    return err
//	}
//
//	for _, s := range model.States() {
//	    action, ok := agent.Policy(s)
//	    log.Info("policy", "state", s, "value", agent.Value(s), "action", action, "decided", ok)
//	}
//
// The solver is designed to be:
//   - Deterministic: the same model and configuration produce the same values and policy
//   - Single-threaded: a run owns its value table, priority queue and predecessor map
//   - Observable: runs are logged, traced and reported to a metrics.Recorder
package solver
