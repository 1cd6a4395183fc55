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

package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"k8s.io/utils/ptr"

	"github.com/llm-d/mdp-value-iteration/internal/logging"
	"github.com/llm-d/mdp-value-iteration/pkg/solver"
)

// ErrInvalidConfig is joined with the validation error returned by Load.
var ErrInvalidConfig = errors.New("invalid configuration")

// EnvPrefix prefixes every environment variable read by Load, e.g. MDPVI_DISCOUNT.
const EnvPrefix = "MDPVI"

// Keys shared by flags, environment variables and the config file.
const (
	ConfigKey          = "config"
	ModelKey           = "model"
	StrategyKey        = "strategy"
	DiscountKey        = "discount"
	IterationsKey      = "iterations"
	ThetaKey           = "theta"
	LogLevelKey        = "log-level"
	MetricsTextfileKey = "metrics-textfile"
)

// settingKeys are the keys Load resolves from the environment.
var settingKeys = []string{
	ModelKey, StrategyKey, DiscountKey, IterationsKey, ThetaKey, LogLevelKey, MetricsTextfileKey,
}

// SolverConfig is the user-facing configuration of a solver run.
// Numeric fields are pointers so that an explicit zero can be told apart
// from a value that was never set; unset fields take the strategy default.
type SolverConfig struct {
	// Model is the path of the YAML model to solve.
	Model string `yaml:"model,omitempty" mapstructure:"model"`

	// Strategy names the update schedule: synchronous, cyclic or prioritized.
	Strategy string `yaml:"strategy,omitempty" mapstructure:"strategy"`

	Discount   *float64 `yaml:"discount,omitempty" mapstructure:"discount"`
	Iterations *int     `yaml:"iterations,omitempty" mapstructure:"iterations"`
	// Theta only affects the prioritized strategy.
	Theta *float64 `yaml:"theta,omitempty" mapstructure:"theta"`

	LogLevel string `yaml:"log-level,omitempty" mapstructure:"log-level"`

	// MetricsTextfile, when set, receives the run metrics in the Prometheus text format.
	MetricsTextfile string `yaml:"metrics-textfile,omitempty" mapstructure:"metrics-textfile"`
}

// Validate checks for invalid configuration values.
func (c *SolverConfig) Validate() error {
	if _, err := solver.ParseStrategy(c.strategyName()); err != nil {
		return err
	}
	if c.Discount != nil {
		d := *c.Discount
		if math.IsNaN(d) || d < 0 || d > 1 {
			return fmt.Errorf("discount must be between 0 and 1, got %.2f", d)
		}
	}
	if c.Iterations != nil && *c.Iterations <= 0 {
		return fmt.Errorf("iterations must be > 0, got %d", *c.Iterations)
	}
	if c.Theta != nil && (math.IsNaN(*c.Theta) || *c.Theta <= 0) {
		return fmt.Errorf("theta must be > 0, got %g", *c.Theta)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func (c *SolverConfig) strategyName() string {
	if c.Strategy == "" {
		return solver.SynchronousStrategy.String()
	}
	return c.Strategy
}

// ToSolverConfig resolves unset fields to the defaults of the selected
// strategy and returns the validated runtime configuration.
func (c *SolverConfig) ToSolverConfig() (solver.Config, error) {
	if err := c.Validate(); err != nil {
		return solver.Config{}, err
	}
	strategy, err := solver.ParseStrategy(c.strategyName())
	if err != nil {
		return solver.Config{}, err
	}

	defaults := solver.DefaultConfig(strategy)
	cfg := solver.Config{
		Strategy:   strategy,
		Discount:   ptr.Deref(c.Discount, defaults.Discount),
		Iterations: ptr.Deref(c.Iterations, defaults.Iterations),
		Theta:      ptr.Deref(c.Theta, defaults.Theta),
	}
	return cfg, cfg.Validate()
}

// BindFlags registers the solver flags on fs.
// Numeric flags only take effect when given explicitly.
func BindFlags(fs *pflag.FlagSet) {
	fs.String(ConfigKey, "", "Path to a YAML config file")
	fs.String(ModelKey, "", "Path to the YAML model to solve")
	fs.String(StrategyKey, "", "Update schedule: synchronous, cyclic or prioritized (default synchronous)")
	fs.Float64(DiscountKey, solver.DefaultDiscount, "Discount factor in [0, 1]")
	fs.Int(IterationsKey, 0, "Iteration budget (default depends on the strategy)")
	fs.Float64(ThetaKey, solver.DefaultTheta, "Residual threshold for re-queueing predecessors (prioritized only)")
	fs.String(LogLevelKey, "info", "Log verbosity: info, debug or trace")
	fs.String(MetricsTextfileKey, "", "Write run metrics to this file in the Prometheus text format")
}

// Load resolves the configuration from, in increasing precedence: the config
// file named by the config flag, MDPVI_* environment variables, and flags set
// on the command line. fs may be nil.
func Load(fs *pflag.FlagSet) (*SolverConfig, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	for _, key := range settingKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding environment variable for %s: %w", key, err)
		}
	}

	configFilePath := ""
	if fs != nil {
		if f := fs.Lookup(ConfigKey); f != nil {
			configFilePath = f.Value.String()
		}
	}
	if configFilePath != "" {
		if _, err := os.Stat(configFilePath); err != nil {
			return nil, fmt.Errorf("error checking config file %s: %w", configFilePath, err)
		}
		v.SetConfigFile(configFilePath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFilePath, err)
		}
	}

	if fs != nil {
		var bindErr error
		// only explicitly set flags, so that flag defaults never shadow the file or environment
		fs.Visit(func(f *pflag.Flag) {
			if f.Name == ConfigKey || bindErr != nil {
				return
			}
			bindErr = v.BindPFlag(f.Name, f)
		})
		if bindErr != nil {
			return nil, fmt.Errorf("error binding flags: %w", bindErr)
		}
	}

	cfg := &SolverConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	return cfg, nil
}

// Log writes the resolved configuration to logger at DEBUG verbosity.
// Fields left unset are logged as nil.
func (c *SolverConfig) Log(logger logr.Logger) {
	logger.V(logging.DEBUG).Info("Loaded solver configuration",
		"model", c.Model,
		"strategy", c.strategyName(),
		"discount", c.Discount,
		"iterations", c.Iterations,
		"theta", c.Theta,
		"metricsTextfile", c.MetricsTextfile)
}
