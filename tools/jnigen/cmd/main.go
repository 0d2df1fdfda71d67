// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// jnigen generates JNI bindings for the CBLAS and LAPACKE headers from a
// stream of declaration records.
package main

import (
	"context"
	"flag"
	"os"
	"syscall"

	"github.com/google/subcommands"

	"go.lapackjni.dev/bindgen/tools/lib/color"
	"go.lapackjni.dev/bindgen/tools/lib/command"
	"go.lapackjni.dev/bindgen/tools/lib/logger"
)

var (
	colors = color.ColorAuto
	level  = logger.InfoLevel
)

func init() {
	flag.Var(&colors, "color", "use color in output, can be never, auto, always")
	flag.Var(&level, "level", "output verbosity, can be fatal, error, warning, info, debug or trace")
}

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&GenerateCommand{}, "")
	subcommands.Register(&SymbolsCommand{}, "")
	subcommands.Register(&WatchCommand{}, "")

	flag.Parse()

	l := logger.NewLogger(level, color.NewColor(colors), os.Stdout, os.Stderr, "jnigen ")
	l.SetFlags(0)
	ctx := logger.WithLogger(context.Background(), l)

	ctx, cancel := command.CancelOnSignals(ctx, syscall.SIGINT, syscall.SIGTERM)
	status := subcommands.Execute(ctx)
	cancel()
	os.Exit(int(status))
}
