// Copyright 2025 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cfg declares the configuration surface bound to command-line
// flags and (optionally) a config file via viper, the same split the
// teacher's cfg package maintains between a plain struct and a
// flag-to-viper-key binding function.
package cfg

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds every value that tunes a Vfs instance's behavior.
type Config struct {
	Pool PoolConfig `yaml:"pool"`

	Debug DebugConfig `yaml:"debug"`

	LogFile LogFileConfig `yaml:"log-file" mapstructure:"log-file"`
}

// PoolConfig mirrors the ABI constants §6 calls out: max_vnode_size,
// lru_batch, dev_vnode_mode.
type PoolConfig struct {
	MaxVnodeSize int `yaml:"max-vnode-size" mapstructure:"max-vnode-size"`

	LRUBatch int `yaml:"lru-batch" mapstructure:"lru-batch"`

	DevMode int `yaml:"dev-mode" mapstructure:"dev-mode"`
}

// DebugConfig holds the debug switches, in the ambient-stack sense the
// teacher's own debug flags do. CheckInvariants is bound and stored here;
// neither vnodectl nor the vnode package reads it.
type DebugConfig struct {
	CheckInvariants bool `yaml:"check-invariants" mapstructure:"check-invariants"`
}

// LogFileConfig configures the rotating log sink (logger.Config), left zero
// to log to stderr only.
type LogFileConfig struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max-size-mb" mapstructure:"max-size-mb"`
	MaxBackups int    `yaml:"max-backups" mapstructure:"max-backups"`
	MaxAgeDays int    `yaml:"max-age-days" mapstructure:"max-age-days"`
}

// BindFlags registers flagSet's flags and binds each to its viper key, so
// CLI flags, a config file, and hardcoded defaults compose the same way
// they do for the teacher's mount command.
func BindFlags(flagSet *pflag.FlagSet) error {
	flagSet.IntP("max-vnode-size", "", 4096, "Hard ceiling on the number of vnodes the pool may hold.")
	if err := viper.BindPFlag("pool.max-vnode-size", flagSet.Lookup("max-vnode-size")); err != nil {
		return err
	}

	flagSet.IntP("lru-batch", "", 10, "Maximum number of vnodes freed per reclaim.")
	if err := viper.BindPFlag("pool.lru-batch", flagSet.Lookup("lru-batch")); err != nil {
		return err
	}

	flagSet.IntP("dev-mode", "", 0o755, "Permission bits for synthetic device vnodes, in octal.")
	if err := viper.BindPFlag("pool.dev-mode", flagSet.Lookup("dev-mode")); err != nil {
		return err
	}

	flagSet.BoolP("check-invariants", "", false, "Invariant-checking switch; stored in the config, not read by vnodectl or the vnode package.")
	if err := viper.BindPFlag("debug.check-invariants", flagSet.Lookup("check-invariants")); err != nil {
		return err
	}

	flagSet.StringP("log-file", "", "", "Path to rotate structured logs to, in addition to stderr.")
	if err := viper.BindPFlag("log-file.path", flagSet.Lookup("log-file")); err != nil {
		return err
	}

	return nil
}
