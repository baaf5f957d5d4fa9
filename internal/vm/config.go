package vm

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// VMConfig carries the compile-time-in-spirit, runtime-in-practice
// per-build-variant constants: STACK_CAPACITY is fixed at
// StackCapacity in this implementation (real targets can vary it, but
// this repository only ships the 1024-word reference variant), while
// MaxGlobals is configurable between the 64-global and 128-global
// variants.
type VMConfig struct {
	MaxGlobals  int  `mapstructure:"max_globals"`
	DebugChecks bool `mapstructure:"debug_checks"`
}

// DefaultVMConfig returns the reference-variant configuration.
func DefaultVMConfig() VMConfig {
	return VMConfig{
		MaxGlobals:  DefaultMaxGlobals,
		DebugChecks: true,
	}
}

// Validate rejects configurations that would violate the memory
// context's invariants.
func (c VMConfig) Validate() error {
	if c.MaxGlobals <= 0 {
		return errors.New("cockpitvm: max_globals must be positive")
	}
	if c.MaxGlobals > MaxGlobalsHardCap {
		return errors.Errorf("cockpitvm: max_globals must not exceed %d", MaxGlobalsHardCap)
	}
	return nil
}

// LoadVMConfig binds defaults onto a viper instance and decodes a
// VMConfig, following viper's layered defaults/file/env/flag
// precedence. v is expected to already have any TOML config file and
// cobra flags bound by the caller (cmd/cockpitvm); this function only
// supplies the vm-specific keys and decodes the result.
func LoadVMConfig(v *viper.Viper) (VMConfig, error) {
	defaults := DefaultVMConfig()
	v.SetDefault("max_globals", defaults.MaxGlobals)
	v.SetDefault("debug_checks", defaults.DebugChecks)

	var cfg VMConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return VMConfig{}, errors.Wrap(err, "cockpitvm: decoding vm config")
	}
	if err := cfg.Validate(); err != nil {
		return VMConfig{}, err
	}
	return cfg, nil
}
