// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package emit

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/multierr"

	"go.lapackjni.dev/bindgen/tools/jnigen/cdecl"
	"go.lapackjni.dev/bindgen/tools/jnigen/config"
)

// Result is what a completed Generate reports.
type Result struct {
	Stats       Stats
	Diagnostics []Diagnostic
}

// Generate runs every declaration of src through a new Run and closes it.
// If src fails the outputs are closed without their closing framing.
func Generate(ctx context.Context, cfg config.Config, src cdecl.Source, managed, glue io.Writer) (Result, error) {
	r, err := NewRun(ctx, cfg, managed, glue)
	if r == nil {
		return Result{}, err
	}
	if err != nil {
		return r.abort(ctx, err)
	}
	for {
		d, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return r.abort(ctx, fmt.Errorf("reading declarations: %w", err))
		}
		if err := r.Process(ctx, d); err != nil {
			return r.abort(ctx, err)
		}
	}
	err = r.Close(ctx)
	return r.result(), err
}

// abort closes the outputs after cause. Output errors already carried by
// cause are not reported twice.
func (r *Run) abort(ctx context.Context, cause error) (Result, error) {
	sinkErr := r.Err()
	err := r.Abort(ctx)
	if sinkErr == nil || !errors.Is(cause, sinkErr) {
		err = multierr.Append(cause, err)
	}
	return r.result(), err
}

func (r *Run) result() Result {
	return Result{Stats: r.Stats(), Diagnostics: r.Diagnostics()}
}
