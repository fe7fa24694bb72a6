// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package config loads clientgen settings from defaults, an optional
// clientgen.yaml, CLIENTGEN_* environment variables and command line flags,
// in increasing order of precedence.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. CLIENTGEN_TARGET.
const EnvPrefix = "CLIENTGEN"

// FileName is the configuration file searched for in the working directory.
const FileName = "clientgen.yaml"

// Config holds every setting of a run.
type Config struct {
	// Target names the generator, e.g. "java" or "go".
	Target string `mapstructure:"target"`
	// Package overrides the model document's package.
	Package string `mapstructure:"package"`
	// OutputDir receives generated files.
	OutputDir string `mapstructure:"output_dir"`
	// ConstructorArgs passes required properties to constructors.
	ConstructorArgs bool `mapstructure:"constructor_args"`
	// Workers bounds parallel fixture rendering.
	Workers int `mapstructure:"workers"`

	LanguageServer LanguageServer `mapstructure:"language_server"`
	Log            Log            `mapstructure:"log"`
}

// LanguageServer configures the customization pass.
type LanguageServer struct {
	Command         string        `mapstructure:"command"`
	Args            []string      `mapstructure:"args"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	DispatchWorkers int           `mapstructure:"dispatch_workers"`
	MaxFrameSize    int           `mapstructure:"max_frame_size"`
}

// Log configures logging.
type Log struct {
	JSON    bool `mapstructure:"json"`
	Verbose bool `mapstructure:"verbose"`
}

// SetDefaults registers the default of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("target", "java")
	v.SetDefault("package", "")
	v.SetDefault("output_dir", "generated")
	v.SetDefault("constructor_args", true)
	v.SetDefault("workers", 4)
	v.SetDefault("language_server.command", "")
	v.SetDefault("language_server.args", []string{})
	v.SetDefault("language_server.request_timeout", 30*time.Second)
	v.SetDefault("language_server.dispatch_workers", 16)
	v.SetDefault("language_server.max_frame_size", 16<<20)
	v.SetDefault("log.json", false)
	v.SetDefault("log.verbose", false)
}

// New returns a viper instance with defaults and environment binding. If
// file is empty, clientgen.yaml is read from dir when present.
func New(file, dir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if file == "" {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err != nil {
			return v, nil
		}
		file = candidate
	}
	v.SetConfigFile(file)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "read config file %s", file),
			"check that the file exists and is valid YAML")
	}
	return v, nil
}

// Load unmarshals and validates the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	if c.Target == "" {
		return errors.WithHint(errors.New("config: target is empty"), "set --target or CLIENTGEN_TARGET")
	}
	if c.Workers < 1 {
		return errors.Newf("config: workers must be positive, got %d", c.Workers)
	}
	if c.LanguageServer.DispatchWorkers < 1 {
		return errors.Newf("config: language_server.dispatch_workers must be positive, got %d", c.LanguageServer.DispatchWorkers)
	}
	if c.LanguageServer.MaxFrameSize < 1 {
		return errors.Newf("config: language_server.max_frame_size must be positive, got %d", c.LanguageServer.MaxFrameSize)
	}
	return nil
}
