// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"go.lapackjni.dev/bindgen/tools/jnigen/config"
)

type GenerateCommand struct {
	BaseCommand
}

func (*GenerateCommand) Name() string { return "generate" }

func (*GenerateCommand) Synopsis() string {
	return "writes the Java declarations and C glue for a declaration stream"
}

func (*GenerateCommand) Usage() string {
	return `jnigen generate [flags] <decls.yaml|->

flags:
`
}

func (c *GenerateCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.execute(ctx, f.Args(), func(ctx context.Context, cfg config.Config, input string) error {
		_, err := generate(ctx, cfg, input)
		return err
	})
}
