// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package command

import (
	"context"
	"os"
	"os/signal"

	"go.lapackjni.dev/bindgen/tools/lib/logger"
)

// CancelOnSignals returns a Context that is cancelled when any of sigs is
// received, or when the returned CancelFunc is called. The signal handler is
// removed once the Context is done, so a second signal terminates the
// process as usual.
func CancelOnSignals(ctx context.Context, sigs ...os.Signal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	c := make(chan os.Signal, 1)
	signal.Notify(c, sigs...)
	go func() {
		defer signal.Stop(c)
		select {
		case <-ctx.Done():
		case sig := <-c:
			logger.Debugf(ctx, "received %s, stopping", sig)
			cancel()
		}
	}()
	return ctx, cancel
}
