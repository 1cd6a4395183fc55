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

// Command solver runs value iteration over a YAML model and logs the
// resulting value and greedy action of every state.
//
// Usage:
//
//	solver --model bridge.yaml
//	solver --model bridge.yaml --strategy prioritized --theta 1e-6
//	solver --config solver.yaml --metrics-textfile /var/lib/node_exporter/solver.prom
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"

	"github.com/llm-d/mdp-value-iteration/internal/config"
	"github.com/llm-d/mdp-value-iteration/internal/logging"
	"github.com/llm-d/mdp-value-iteration/internal/metrics"
	"github.com/llm-d/mdp-value-iteration/pkg/mdp"
	"github.com/llm-d/mdp-value-iteration/pkg/solver"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stderr); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "solver: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, output io.Writer) error {
	fs := pflag.NewFlagSet("solver", pflag.ContinueOnError)
	fs.SetOutput(output)
	config.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}
	if cfg.Model == "" {
		return errors.New("a model path is required")
	}

	logger, err := logging.NewLogger(cfg.LogLevel, false)
	if err != nil {
		return err
	}
	logging.SetLogger(logger)
	ctx = logging.IntoContext(ctx, logger)
	cfg.Log(logger)

	solverCfg, err := cfg.ToSolverConfig()
	if err != nil {
		return err
	}

	model, err := mdp.LoadTableModel(cfg.Model)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	recorder, err := metrics.NewPrometheusRecorder(registry)
	if err != nil {
		return err
	}

	agent, err := solver.NewAgent(ctx, model, solverCfg, solver.WithRecorder(recorder))
	if err != nil {
		return fmt.Errorf("failed to solve %s: %w", cfg.Model, err)
	}

	for _, state := range model.States() {
		action, ok := agent.Policy(state)
		if !ok {
			logger.Info("State value", "state", state, "value", agent.Value(state), "terminal", model.IsTerminal(state))
			continue
		}
		logger.Info("State value", "state", state, "value", agent.Value(state), "action", action,
			"qValue", agent.QValue(state, action))
	}

	if cfg.MetricsTextfile != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsTextfile, registry); err != nil {
			return fmt.Errorf("failed to write metrics to %s: %w", cfg.MetricsTextfile, err)
		}
		logger.V(logging.DEBUG).Info("Wrote metrics textfile", "path", cfg.MetricsTextfile)
	}
	return nil
}
