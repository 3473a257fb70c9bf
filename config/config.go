// Copyright 2024 The sqlg authors.
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

// Package config holds the compiler's configuration, loaded either from
// flat environment variables or a pflag.FlagSet, matching a flat,
// flag-driven style rather than a nested configuration tree.
package config

import (
	"os"
	"strconv"

	"github.com/spf13/pflag"
)

// Config is the compiler's configuration surface.
type Config struct {
	// Dialect names the dialect implementation to use (e.g. "postgres").
	Dialect string

	// MaxJoinsPerStatement overrides the dialect's default join-count
	// ceiling when > 0.
	MaxJoinsPerStatement int

	// TempTableThreshold is the minimum IN-list size that triggers
	// scratch-table materialization instead of an inline IN (...).
	TempTableThreshold int

	// IgnoreLabelOptimization, when true, disables using label-keyed
	// filters to narrow table enumeration at resolution time.
	IgnoreLabelOptimization bool
}

// Default returns the compiler's default configuration.
func Default() Config {
	return Config{
		Dialect:            "postgres",
		TempTableThreshold: 64,
	}
}

// FromEnv overlays SQLG_DIALECT, SQLG_MAX_JOINS_PER_STATEMENT,
// SQLG_TEMP_TABLE_THRESHOLD, and SQLG_IGNORE_LABEL_OPTIMIZATION onto the
// defaults.
func FromEnv() Config {
	cfg := Default()
	if v := os.Getenv("SQLG_DIALECT"); v != "" {
		cfg.Dialect = v
	}
	if v := os.Getenv("SQLG_MAX_JOINS_PER_STATEMENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxJoinsPerStatement = n
		}
	}
	if v := os.Getenv("SQLG_TEMP_TABLE_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TempTableThreshold = n
		}
	}
	if v := os.Getenv("SQLG_IGNORE_LABEL_OPTIMIZATION"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.IgnoreLabelOptimization = b
		}
	}
	return cfg
}

// RegisterFlags binds this Config's fields onto fs, for callers (such as
// cmd/sqlgc) that parse their own command line.
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Dialect, "dialect", c.Dialect, "SQL dialect to compile for")
	fs.IntVar(&c.MaxJoinsPerStatement, "max-joins-per-statement", c.MaxJoinsPerStatement, "override the dialect's default join-count ceiling (0 = use dialect default)")
	fs.IntVar(&c.TempTableThreshold, "temp-table-threshold", c.TempTableThreshold, "minimum IN-list size that triggers scratch-table materialization")
	fs.BoolVar(&c.IgnoreLabelOptimization, "ignore-label-optimization", c.IgnoreLabelOptimization, "disable narrowing table enumeration by label-keyed filters")
}
