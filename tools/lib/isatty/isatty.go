// Copyright 2018 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package isatty reports whether stdout is attached to a terminal.
package isatty

// IsTerminal returns true when stdout is a terminal.
func IsTerminal() bool {
	return isTerminal()
}
