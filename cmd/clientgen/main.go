// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Command clientgen generates client libraries and test fixtures from a
// code model, and customizes generated sources through a language server.
//
// Usage:
//
//	clientgen generate [flags] <model.yaml | url>
//	clientgen customize [flags] <plan.yaml>
//	clientgen version
//
// Settings are read from clientgen.yaml in the working directory (or the
// file named by --config), CLIENTGEN_* environment variables and flags.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/albertocavalcante/clientgen/generator"
	"github.com/albertocavalcante/clientgen/internal/config"
	"github.com/albertocavalcante/clientgen/internal/logging"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"target":           "target",
	"package":          "package",
	"output":           "output_dir",
	"constructor-args": "constructor_args",
	"workers":          "workers",
	"verbose":          "log.verbose",
	"json-log":         "log.json",
	"server":           "language_server.command",
	"server-arg":       "language_server.args",
	"request-timeout":  "language_server.request_timeout",
}

// app holds the state shared by subcommands once settings are loaded.
type app struct {
	configFile string

	cfg *config.Config
	log *zap.Logger
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if hints := errors.FlattenHints(err); hints != "" {
			fmt.Fprintf(os.Stderr, "hint: %s\n", hints)
		}
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "clientgen",
		Short: "Generate client libraries and test fixtures from a code model",
		Long: `clientgen - client library generator

Generates models, client interfaces and one test per example from a YAML
code model, then optionally renames generated symbols through a language
server.

Examples:
  # Generate Java sources
  clientgen generate -o ./sdk model.yaml

  # Generate a Go package for two types and their dependencies
  clientgen generate --target go --types Pet,Owner --resolve-deps model.yaml

  # Rename generated classes with jdtls
  clientgen customize --server jdtls --dir ./sdk plan.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd, stderr)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "Configuration file (default: ./"+config.FileName+")")
	pf.BoolP("verbose", "v", false, "Verbose output")
	pf.Bool("json-log", false, "Log as JSON")

	root.AddCommand(newGenerateCmd(a), newCustomizeCmd(a), newTargetsCmd(), newVersionCmd())
	return root
}

// setup loads settings for cmd and builds the logger.
func (a *app) setup(cmd *cobra.Command, stderr io.Writer) error {
	if cmd.Name() == "version" || cmd.Name() == "targets" {
		return nil
	}
	v, err := config.New(a.configFile, ".")
	if err != nil {
		return err
	}
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logging.New(logging.Options{JSON: cfg.Log.JSON, Verbose: cfg.Log.Verbose, Output: stderr})
	return nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || err != nil {
			return
		}
		err = errors.Wrapf(v.BindPFlag(key, f), "bind --%s", f.Name)
	})
	return err
}

func newTargetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List generators and their options",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			for _, g := range generator.All() {
				meta := g.Metadata()
				fmt.Fprintf(w, "%s %s: %s\n", meta.Name, meta.Version, meta.Description)
				for _, o := range meta.Options {
					def := ""
					if o.Default != "" {
						def = " (default: " + o.Default + ")"
					}
					fmt.Fprintf(w, "  --option %s=...  %s%s\n", o.Key, o.Description, def)
				}
			}
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "clientgen %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}
