// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/google/subcommands"
	"go.uber.org/multierr"

	"go.lapackjni.dev/bindgen/tools/jnigen/cdecl"
	"go.lapackjni.dev/bindgen/tools/jnigen/config"
	"go.lapackjni.dev/bindgen/tools/jnigen/emit"
	"go.lapackjni.dev/bindgen/tools/jnigen/filter"
	"go.lapackjni.dev/bindgen/tools/jnigen/mangle"
	"go.lapackjni.dev/bindgen/tools/jnigen/typemap"
	"go.lapackjni.dev/bindgen/tools/lib/logger"
)

// stringsFlag collects the values of a repeated flag.
type stringsFlag []string

func (s *stringsFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *stringsFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// BaseCommand holds the flags shared by every subcommand. Flags that are set
// override the config file, which overrides the built-in defaults.
type BaseCommand struct {
	configPath string
	convention mangle.Convention
	glueStyle  string
	allow      stringsFlag
	allowAll   bool
	pkg        string
	class      string
	library    string
	managedOut string
	glueOut    string
}

func (c *BaseCommand) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "path to a YAML config file")
	f.Var(&c.convention, "convention", "naming convention, can be flat or overloaded-native")
	f.StringVar(&c.glueStyle, "glue-style", "", "glue type spelling, can be plain or prefixed")
	f.Var(&c.allow, "allow", "header whose functions get bindings; may be repeated, replaces the configured list")
	f.BoolVar(&c.allowAll, "allow-all", false, "bind functions from every header")
	f.StringVar(&c.pkg, "package", "", "Java package of the generated class")
	f.StringVar(&c.class, "class", "", "name of the generated Java class")
	f.StringVar(&c.library, "library", "", "native library loaded by the generated class")
	f.StringVar(&c.managedOut, "managed-out", "", "path of the generated .java file")
	f.StringVar(&c.glueOut, "glue-out", "", "path of the generated .c file")
}

// loadConfig reads the config file, if any, and applies the flags to it.
func (c *BaseCommand) loadConfig() (config.Config, error) {
	cfg := config.Default()
	if c.configPath != "" {
		var err error
		if cfg, err = config.Load(c.configPath); err != nil {
			return cfg, err
		}
	}
	if c.convention != "" {
		cfg.NamingConvention = c.convention
	}
	if c.glueStyle != "" {
		cfg.GlueTypeStyle = typemap.GlueStyle(c.glueStyle)
	}
	if c.allowAll {
		cfg.ProvenanceAllowList = nil
	} else if len(c.allow) > 0 {
		cfg.ProvenanceAllowList = append([]string(nil), c.allow...)
	}
	if c.pkg != "" {
		cfg.Package = c.pkg
	}
	if c.class != "" {
		if cfg.Library == cfg.Class && c.library == "" {
			cfg.Library = c.class
		}
		cfg.Class = c.class
	}
	if c.library != "" {
		cfg.Library = c.library
	}
	if c.managedOut != "" {
		cfg.ManagedOutput = c.managedOut
	}
	if c.glueOut != "" {
		cfg.GlueOutput = c.glueOut
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// execute runs f with the declaration stream named by the only positional
// argument.
func (c *BaseCommand) execute(ctx context.Context, args []string, f func(context.Context, config.Config, string) error) subcommands.ExitStatus {
	if len(args) != 1 {
		logger.Errorf(ctx, "expected exactly one declaration file, got %d arguments", len(args))
		return subcommands.ExitUsageError
	}
	cfg, err := c.loadConfig()
	if err != nil {
		logger.Errorf(ctx, "%s", err)
		return subcommands.ExitUsageError
	}
	if err := f(ctx, cfg, args[0]); err != nil {
		logger.Errorf(ctx, "%s", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// openDecls opens a declaration stream; "-" is stdin.
func openDecls(path string) (*cdecl.Decoder, io.Closer, error) {
	if path == "-" {
		return cdecl.NewDecoder(os.Stdin), io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return cdecl.NewDecoder(f), f, nil
}

func createOutput(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, err
	}
	return os.Create(path)
}

// generate writes both outputs of cfg from the declarations in input.
func generate(ctx context.Context, cfg config.Config, input string) (emit.Result, error) {
	decls, in, err := openDecls(input)
	if err != nil {
		return emit.Result{}, err
	}
	defer in.Close()

	managed, err := createOutput(cfg.ManagedOutput)
	if err != nil {
		return emit.Result{}, err
	}
	glue, err := createOutput(cfg.GlueOutput)
	if err != nil {
		return emit.Result{}, multierr.Append(err, managed.Close())
	}
	res, err := emit.Generate(ctx, cfg, decls, managed, glue)
	if err != nil {
		return res, fmt.Errorf("generating bindings from %s: %w", input, err)
	}
	logSummary(ctx, cfg, res)
	return res, nil
}

func logSummary(ctx context.Context, cfg config.Config, res emit.Result) {
	s := res.Stats
	logger.Infof(ctx, "wrote %s and %s to %s (%s) and %s (%s)",
		english.Plural(s.Functions, "function", ""),
		english.Plural(s.Constants, "constant", ""),
		cfg.ManagedOutput, humanize.IBytes(uint64(s.ManagedBytes)),
		cfg.GlueOutput, humanize.IBytes(uint64(s.GlueBytes)))
	if n := s.Skipped(); n > 0 {
		var parts []string
		for _, r := range filter.Reasons {
			if c := s.Rejected[r]; c > 0 {
				parts = append(parts, fmt.Sprintf("%d %s", c, r))
			}
		}
		logger.Infof(ctx, "skipped %s (%s)", english.Plural(n, "declaration", ""), strings.Join(parts, ", "))
	}
	if n := len(res.Diagnostics); n > 0 {
		logger.Warningf(ctx, "%s, see above", english.Plural(n, "warning", ""))
	}
}
