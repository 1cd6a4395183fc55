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

// Package logging wires logr on top of zap and defines the verbosity levels
// used across the solver packages.
package logging

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels passed to logr.Logger.V.
const (
	INFO  = 0
	DEBUG = 1
	TRACE = 2
)

var (
	mu     sync.RWMutex
	global = logr.Discard()
)

// Log returns the process-wide logger. It discards everything until SetLogger is called.
func Log() logr.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// SetLogger replaces the process-wide logger.
func SetLogger(l logr.Logger) {
	mu.Lock()
	defer mu.Unlock()
	global = l
}

// FromContext returns the logger stored in ctx, or the process-wide logger
// when the context carries none.
func FromContext(ctx context.Context) logr.Logger {
	if ctx != nil {
		if l, err := logr.FromContext(ctx); err == nil {
			return l
		}
	}
	return Log()
}

// IntoContext is a shorthand for logr.NewContext.
func IntoContext(ctx context.Context, l logr.Logger) context.Context {
	return logr.NewContext(ctx, l)
}

// ParseLevel maps a level name to a logr verbosity.
func ParseLevel(level string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return INFO, nil
	case "debug":
		return DEBUG, nil
	case "trace":
		return TRACE, nil
	default:
		return INFO, fmt.Errorf("unsupported log level %q", level)
	}
}

// NewLogger builds a zap-backed logr.Logger that emits records up to the
// given verbosity. Development mode switches to the console encoder.
func NewLogger(level string, development bool) (logr.Logger, error) {
	verbosity, err := ParseLevel(level)
	if err != nil {
		return logr.Discard(), err
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	// zapr maps V(n) to zap level -n
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-verbosity))

	zl, err := cfg.Build()
	if err != nil {
		return logr.Discard(), fmt.Errorf("failed to build zap logger: %w", err)
	}
	return zapr.NewLogger(zl), nil
}

// NewTestLogger installs a development logger at TRACE verbosity as the
// process-wide logger and returns it.
func NewTestLogger() logr.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-TRACE))
	zl, err := cfg.Build()
	if err != nil {
		zl = zap.NewNop()
	}
	l := zapr.NewLogger(zl)
	SetLogger(l)
	return l
}
