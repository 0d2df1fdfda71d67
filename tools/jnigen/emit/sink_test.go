// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package emit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/multierr"

	"go.lapackjni.dev/bindgen/tools/jnigen/cdecl"
	"go.lapackjni.dev/bindgen/tools/jnigen/config"
	"go.lapackjni.dev/bindgen/tools/lib/logger"
)

var errDiskFull = errors.New("disk full")

// failingWriter accepts limit bytes and then fails every write.
type failingWriter struct {
	limit  int
	writes int
	closed bool
	buf    bytes.Buffer
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	if w.buf.Len()+len(p) > w.limit {
		n := w.limit - w.buf.Len()
		w.buf.Write(p[:n])
		return n, errDiskFull
	}
	return w.buf.Write(p)
}

func (w *failingWriter) Close() error {
	w.closed = true
	return nil
}

func expectPanic(t *testing.T, what string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", what)
		}
	}()
	f()
}

func TestSinkErrorIsSticky(t *testing.T) {
	w := &failingWriter{limit: 10}
	s := newSink("glue", w)
	if _, err := s.Write(bytes.Repeat([]byte("x"), 8192)); !errors.Is(err, errDiskFull) {
		t.Fatalf("Write error = %v, want %v", err, errDiskFull)
	}
	writes := w.writes
	if _, err := s.Write([]byte("more")); !errors.Is(err, errDiskFull) {
		t.Errorf("second Write error = %v", err)
	}
	if w.writes != writes {
		t.Error("Write reached the underlying writer after a failure")
	}
	if err := s.Close(); !errors.Is(err, errDiskFull) {
		t.Errorf("Close error = %v", err)
	}
	if !w.closed {
		t.Error("underlying writer was not closed")
	}
}

func TestSinkFlushError(t *testing.T) {
	w := &failingWriter{limit: 0}
	s := newSink("managed", w)
	if _, err := s.Write([]byte("buffered")); err != nil {
		t.Fatalf("buffered Write failed: %v", err)
	}
	err := s.Close()
	if !errors.Is(err, errDiskFull) || !strings.Contains(err.Error(), "flushing managed output") {
		t.Errorf("Close error = %v", err)
	}
}

func TestSinkContract(t *testing.T) {
	s := newSink("managed", &bytes.Buffer{})
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	expectPanic(t, "Write after Close", func() { s.Write([]byte("x")) })
	expectPanic(t, "second Close", func() { s.Close() })
}

func TestRunContract(t *testing.T) {
	ctx := context.Background()
	r, err := NewRun(ctx, config.Default(), &bytes.Buffer{}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	expectPanic(t, "EmitFunction without a name", func() { r.EmitFunction(ctx, cdecl.Function{}) })
	expectPanic(t, "EmitEnumConstant without a value", func() { r.EmitEnumConstant(ctx, cdecl.EnumConstant{Name: "X"}) })
	if err := r.Close(ctx); err != nil {
		t.Fatal(err)
	}
	expectPanic(t, "Process after Close", func() { r.Process(ctx, dgemm()) })
	expectPanic(t, "second Close", func() { r.Close(ctx) })
	expectPanic(t, "Abort after Close", func() { r.Abort(ctx) })
}

func TestGenerateFailsOnSinkError(t *testing.T) {
	ctx, _ := testContext(logger.ErrorLevel)
	var decls []cdecl.Decl
	for i := 0; i < 200; i++ {
		fn := dgemm()
		fn.Name = fmt.Sprintf("cblas_f%d", i)
		decls = append(decls, fn)
	}
	managed := &bytes.Buffer{}
	glue := &failingWriter{limit: 1000}
	res, err := Generate(ctx, config.Default(), cdecl.NewSliceSource(decls...), managed, glue)
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("Generate error = %v, want %v", err, errDiskFull)
	}
	if n := len(multierr.Errors(err)); n != 1 {
		t.Errorf("the sink error was reported %d times: %v", n, err)
	}
	if res.Stats.Functions == 0 || res.Stats.Functions == len(decls) {
		t.Errorf("Functions = %d, want a partial run", res.Stats.Functions)
	}
	if !glue.closed {
		t.Error("glue output was not closed")
	}
	if strings.HasSuffix(managed.String(), "}\n") {
		t.Error("failed run wrote the closing framing")
	}
}

type brokenSource struct {
	decls []cdecl.Decl
}

func (s *brokenSource) Next() (cdecl.Decl, error) {
	if len(s.decls) == 0 {
		return nil, errors.New("record 3: bad YAML")
	}
	d := s.decls[0]
	s.decls = s.decls[1:]
	return d, nil
}

func TestGenerateLeavesPartialOutputOnSourceError(t *testing.T) {
	ctx, _ := testContext(logger.ErrorLevel)
	var managed, glue bytes.Buffer
	_, err := Generate(ctx, config.Default(), &brokenSource{[]cdecl.Decl{dgemm()}}, &managed, &glue)
	if err == nil || !strings.Contains(err.Error(), "reading declarations: record 3") {
		t.Fatalf("Generate error = %v", err)
	}
	if !strings.Contains(managed.String(), "cblas_dgemm(") {
		t.Error("declarations before the failure were not flushed")
	}
	if strings.HasSuffix(managed.String(), "}\n") {
		t.Error("aborted run wrote the closing framing")
	}
}
