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
	"time"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/llm-d/mdp-value-iteration/internal/logging"
)

const tracerName = "github.com/llm-d/mdp-value-iteration/pkg/solver"

// runScope carries the logger, span and recorder of a single Solve call.
type runScope struct {
	logger logr.Logger
	span   trace.Span
	opts   options
	start  time.Time
}

func startRun(ctx context.Context, cfg Config, opts options, numStates int) (context.Context, *runScope) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "solver."+cfg.Strategy.String(),
		trace.WithAttributes(
			attribute.String("strategy", cfg.Strategy.String()),
			attribute.Float64("discount", cfg.Discount),
			attribute.Int("iterations", cfg.Iterations),
			attribute.Int("states", numStates),
		),
	)

	logger := logging.FromContext(ctx).WithValues("strategy", cfg.Strategy.String())
	logger.Info("Starting value iteration",
		"discount", cfg.Discount,
		"iterations", cfg.Iterations,
		"theta", cfg.Theta,
		"states", numStates)

	return ctx, &runScope{
		logger: logger,
		span:   span,
		opts:   opts,
		start:  time.Now(),
	}
}

func (r *runScope) finish(stats Stats) {
	duration := time.Since(r.start)

	r.span.SetAttributes(
		attribute.Int("iterations_used", stats.IterationsUsed),
		attribute.Int("updates", stats.Updates),
		attribute.Bool("queue_drained", stats.QueueDrained),
		attribute.Float64("max_residual", stats.MaxResidual),
	)
	r.span.End()

	r.opts.recorder.ObserveRun(stats.Strategy.String(), stats.toRunStats())

	r.logger.Info("Value iteration completed",
		"iterationsUsed", stats.IterationsUsed,
		"updates", stats.Updates,
		"queueDrained", stats.QueueDrained,
		"maxResidual", stats.MaxResidual,
		"duration", duration)
}
