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

// Package metrics exposes Prometheus collectors describing solver runs.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "mdpvi"

	// StrategyLabel is the label carrying the solver strategy name.
	StrategyLabel = "strategy"
)

// RunStats summarizes one completed solver run.
type RunStats struct {
	// IterationsUsed is the number of budgeted iterations actually consumed.
	IterationsUsed int
	// Updates is the number of state values written.
	Updates int
	// MaxResidual is the largest value change observed at the end of the run.
	MaxResidual float64
	// QueueDrained is true when a prioritized run stopped because its queue emptied.
	QueueDrained bool
}

// Recorder receives a summary of every solver run.
type Recorder interface {
	ObserveRun(strategy string, stats RunStats)
}

// NopRecorder discards everything.
type NopRecorder struct{}

// ObserveRun implements Recorder.
func (NopRecorder) ObserveRun(string, RunStats) {}

// PrometheusRecorder records solver runs into Prometheus collectors.
type PrometheusRecorder struct {
	runs           *prometheus.CounterVec
	updates        *prometheus.CounterVec
	iterationsUsed *prometheus.HistogramVec
	maxResidual    *prometheus.GaugeVec
	queueDrained   *prometheus.CounterVec
}

var _ Recorder = (*PrometheusRecorder)(nil)

// NewPrometheusRecorder creates the solver collectors and registers them with reg.
func NewPrometheusRecorder(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	r := &PrometheusRecorder{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solver_runs_total",
			Help:      "Number of completed solver runs.",
		}, []string{StrategyLabel}),
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_updates_total",
			Help:      "Number of state values written by solver runs.",
		}, []string{StrategyLabel}),
		iterationsUsed: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solver_iterations_used",
			Help:      "Iterations consumed per solver run.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}, []string{StrategyLabel}),
		maxResidual: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "solver_max_residual",
			Help:      "Largest value change observed at the end of the last solver run.",
		}, []string{StrategyLabel}),
		queueDrained: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solver_queue_drained_total",
			Help:      "Prioritized runs that stopped because the priority queue emptied.",
		}, []string{StrategyLabel}),
	}

	for _, c := range []prometheus.Collector{r.runs, r.updates, r.iterationsUsed, r.maxResidual, r.queueDrained} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register solver metrics: %w", err)
		}
	}
	return r, nil
}

// ObserveRun implements Recorder.
func (r *PrometheusRecorder) ObserveRun(strategy string, stats RunStats) {
	r.runs.WithLabelValues(strategy).Inc()
	r.updates.WithLabelValues(strategy).Add(float64(stats.Updates))
	r.iterationsUsed.WithLabelValues(strategy).Observe(float64(stats.IterationsUsed))
	r.maxResidual.WithLabelValues(strategy).Set(stats.MaxResidual)
	if stats.QueueDrained {
		r.queueDrained.WithLabelValues(strategy).Inc()
	}
}
