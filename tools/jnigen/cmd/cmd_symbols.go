// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"go.lapackjni.dev/bindgen/tools/jnigen/cdecl"
	"go.lapackjni.dev/bindgen/tools/jnigen/config"
	"go.lapackjni.dev/bindgen/tools/jnigen/filter"
	"go.lapackjni.dev/bindgen/tools/jnigen/mangle"
	"go.lapackjni.dev/bindgen/tools/lib/logger"
)

// SymbolsCommand lists the glue symbols a generate run would export.
type SymbolsCommand struct {
	BaseCommand
	out io.Writer
}

func (*SymbolsCommand) Name() string { return "symbols" }

func (*SymbolsCommand) Synopsis() string {
	return "prints the glue symbol of every function that would get a binding"
}

func (*SymbolsCommand) Usage() string {
	return `jnigen symbols [flags] <decls.yaml|->

Prints one "name<TAB>symbol" line per accepted function, in stream order.

flags:
`
}

func (c *SymbolsCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.execute(ctx, f.Args(), func(ctx context.Context, cfg config.Config, input string) error {
		decls, in, err := openDecls(input)
		if err != nil {
			return err
		}
		defer in.Close()
		out := c.out
		if out == nil {
			out = os.Stdout
		}
		return listSymbols(ctx, cfg, decls, out)
	})
}

func listSymbols(ctx context.Context, cfg config.Config, src cdecl.Source, out io.Writer) error {
	m := mangle.New(cfg.NamingConvention, cfg.JavaClass())
	fl := filter.New(cfg.ProvenanceAllowList)
	for {
		d, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading declarations: %w", err)
		}
		fn, ok := d.(cdecl.Function)
		if !ok {
			continue
		}
		if v := fl.Check(fn); !v.Accepted() {
			logger.Debugf(ctx, "skipping %s", v.Detail)
			continue
		}
		if _, err := fmt.Fprintf(out, "%s\t%s\n", fn.Name, m.Symbol(fn.Name)); err != nil {
			return err
		}
	}
	return nil
}
