// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package emit

import (
	"bufio"
	"fmt"
	"io"

	"go.uber.org/multierr"
)

// sink is one append-only output stream. The first write error sticks: every
// later write returns it without touching the underlying writer.
type sink struct {
	name   string
	w      *bufio.Writer
	closer io.Closer
	n      int64
	err    error
	closed bool
}

func newSink(name string, w io.Writer) *sink {
	s := &sink{name: name, w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	return s
}

func (s *sink) Write(p []byte) (int, error) {
	if s.closed {
		panic(fmt.Sprintf("write to the %s output after it was closed", s.name))
	}
	if s.err != nil {
		return 0, s.err
	}
	n, err := s.w.Write(p)
	s.n += int64(n)
	if err != nil {
		s.err = fmt.Errorf("writing %s output: %w", s.name, err)
	}
	return n, s.err
}

// Close flushes the buffer and closes the underlying writer if it is an
// io.Closer. The writer is closed even when flushing failed.
func (s *sink) Close() error {
	if s.closed {
		panic(fmt.Sprintf("%s output closed twice", s.name))
	}
	s.closed = true
	err := s.err
	if err == nil {
		if ferr := s.w.Flush(); ferr != nil {
			err = fmt.Errorf("flushing %s output: %w", s.name, ferr)
			s.err = err
		}
	}
	if s.closer != nil {
		if cerr := s.closer.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("closing %s output: %w", s.name, cerr))
		}
	}
	return err
}
