// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/subcommands"

	"go.lapackjni.dev/bindgen/tools/jnigen/config"
	"go.lapackjni.dev/bindgen/tools/lib/logger"
)

// WatchCommand regenerates the bindings whenever the declaration file is
// rewritten, until interrupted.
type WatchCommand struct {
	BaseCommand
	debounce time.Duration
}

func (*WatchCommand) Name() string { return "watch" }

func (*WatchCommand) Synopsis() string {
	return "runs generate every time the declaration file changes"
}

func (*WatchCommand) Usage() string {
	return `jnigen watch [flags] <decls.yaml>

flags:
`
}

func (c *WatchCommand) SetFlags(f *flag.FlagSet) {
	c.BaseCommand.SetFlags(f)
	f.DurationVar(&c.debounce, "debounce", 200*time.Millisecond, "how long the file must be quiet before regenerating")
}

func (c *WatchCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.execute(ctx, f.Args(), func(ctx context.Context, cfg config.Config, input string) error {
		return watch(ctx, cfg, input, c.debounce, nil)
	})
}

// watch generates once, then again each time input is written and has been
// quiet for debounce. Failed generations are logged and do not stop it. Each
// attempt is reported on done, if not nil. It returns when ctx is done.
func watch(ctx context.Context, cfg config.Config, input string, debounce time.Duration, done chan<- error) error {
	if input == "-" {
		return errors.New("cannot watch stdin")
	}
	target, err := filepath.Abs(input)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to initialize fsnotify: %w", err)
	}
	defer w.Close()
	// Editors often replace the file instead of writing it, so watch the
	// directory and pick out the events for the file.
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	run := func() {
		_, err := generate(ctx, cfg, input)
		if err != nil {
			logger.Errorf(ctx, "%s", err)
		}
		if done != nil {
			select {
			case done <- err:
			case <-ctx.Done():
			}
		}
	}
	run()
	logger.Infof(ctx, "watching %s", input)

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			switch {
			case ev.Op&(fsnotify.Write|fsnotify.Create) != 0:
				logger.Debugf(ctx, "%s: %s", ev.Name, ev.Op)
				fire = time.After(debounce)
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				logger.Warningf(ctx, "%s was removed, waiting for it to come back", input)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warningf(ctx, "watching %s: %s", input, err)
		case <-fire:
			fire = nil
			run()
		}
	}
}
