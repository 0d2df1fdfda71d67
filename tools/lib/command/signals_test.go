// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package command

import (
	"context"
	"syscall"
	"testing"
	"time"
)

func TestCancelOnSignals(t *testing.T) {
	ctx, cancel := CancelOnSignals(context.Background(), syscall.SIGUSR1)
	defer cancel()
	if err := syscall.Kill(syscall.Getpid(), syscall.SIGUSR1); err != nil {
		t.Fatal(err)
	}
	select {
	case <-ctx.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("context was not cancelled by the signal")
	}
}

func TestCancelOnSignalsCancelFunc(t *testing.T) {
	ctx, cancel := CancelOnSignals(context.Background(), syscall.SIGUSR2)
	cancel()
	select {
	case <-ctx.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("context was not cancelled by its CancelFunc")
	}
}
