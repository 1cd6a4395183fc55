// Package config provides configuration management for the solver command.
//
// Configuration Sources:
//
//  1. Command-line flags (highest priority, only when set explicitly)
//  2. Environment variables prefixed with MDPVI_ (MDPVI_DISCOUNT, MDPVI_LOG_LEVEL, ...)
//  3. A YAML config file named by --config
//  4. Per-strategy defaults from the solver package (lowest priority)
//
// Example usage:
//
//	fs := pflag.NewFlagSet("solver", pflag.ContinueOnError)
//	config.BindFlags(fs)
//	if err := fs.Parse(os.Args[1:]); err != nil {
//	    return err
//	}
//
//	cfg, err := config.Load(fs)
//	if err != nil {
//	    return err
//	}
//	solverCfg, err := cfg.ToSolverConfig()
//
// Numeric fields that were never set resolve to the defaults of the selected
// strategy; an explicit zero is kept and validated as such.
package config
