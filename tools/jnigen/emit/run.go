// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package emit renders JNI bindings: Java native-method declarations and the
// C glue functions that forward to the wrapped library.
package emit

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/kr/pretty"
	"go.uber.org/multierr"

	"go.lapackjni.dev/bindgen/tools/jnigen/cdecl"
	"go.lapackjni.dev/bindgen/tools/jnigen/config"
	"go.lapackjni.dev/bindgen/tools/jnigen/filter"
	"go.lapackjni.dev/bindgen/tools/jnigen/mangle"
	"go.lapackjni.dev/bindgen/tools/jnigen/typemap"
	"go.lapackjni.dev/bindgen/tools/lib/logger"
)

// Category classifies a Diagnostic.
type Category string

// The categories of degraded type mappings share their names with
// typemap.Problem.
const (
	UnmappableType    Category = "unmappable-type"
	VoidParameter     Category = "void-parameter"
	LossyComplex      Category = "lossy-complex"
	MultiLevelPointer Category = "multi-level-pointer"
	NonConstantEnum   Category = "non-constant-enum"
	DuplicateFunction Category = "duplicate-function"
)

// Diagnostic is a non-fatal problem with one declaration.
type Diagnostic struct {
	Decl     string
	Location string
	Category Category
	Message  string
}

func (d Diagnostic) String() string {
	if d.Location == "" {
		return fmt.Sprintf("%s [%s]: %s", d.Decl, d.Category, d.Message)
	}
	return fmt.Sprintf("%s: %s [%s]: %s", d.Location, d.Decl, d.Category, d.Message)
}

// Stats counts what a run did.
type Stats struct {
	Functions int
	Constants int
	// Rejected counts declarations turned away by the filter, per reason.
	Rejected     map[filter.Reason]int
	ManagedBytes int64
	GlueBytes    int64
}

// Skipped is the total number of rejected declarations.
func (s Stats) Skipped() int {
	n := 0
	for _, c := range s.Rejected {
		n += c
	}
	return n
}

var tmpls = func() *template.Template {
	t := template.New("JNITemplates").Funcs(template.FuncMap{"join": strings.Join})
	template.Must(t.Parse(javaTemplates))
	template.Must(t.Parse(glueTemplates))
	return t
}()

// Run is the state of one generation run: both output streams and the set
// of function names emitted so far. Declarations are processed one at a
// time, in order; a Run is not safe for concurrent use.
type Run struct {
	compiler compiler
	filter   *filter.Filter
	managed  *sink
	glue     *sink
	diags    []Diagnostic
	stats    Stats
	closed   bool
}

// NewRun validates cfg and writes the preamble of both outputs. Writers that
// implement io.Closer are closed by Close. If writing a preamble fails the
// Run is returned along with the error and must still be closed.
func NewRun(ctx context.Context, cfg config.Config, managed, glue io.Writer) (*Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	r := &Run{
		compiler: compiler{
			mapper:  typemap.New(cfg.GlueTypeStyle),
			mangler: mangle.New(cfg.NamingConvention, cfg.JavaClass()),
		},
		filter:  filter.New(cfg.ProvenanceAllowList),
		managed: newSink("managed", managed),
		glue:    newSink("glue", glue),
		stats:   Stats{Rejected: make(map[filter.Reason]int)},
	}
	logger.Debugf(ctx, "generating %s with the %s convention", cfg.JavaClass(), cfg.NamingConvention)
	library := cfg.Library
	if library == "" {
		library = cfg.Class
	}
	if err := tmpls.ExecuteTemplate(r.managed, "JavaPreamble", javaClass{cfg.Package, cfg.Class, library}); err != nil {
		return r, r.sinkErr(err)
	}
	if err := tmpls.ExecuteTemplate(r.glue, "GluePreamble", glueFile{cfg.Includes}); err != nil {
		return r, r.sinkErr(err)
	}
	return r, nil
}

// Process filters d and emits it if accepted. The error is non-nil only when
// an output could not be written, which ends the run.
func (r *Run) Process(ctx context.Context, d cdecl.Decl) error {
	r.checkOpen()
	v := r.filter.Check(d)
	switch v.Reason {
	case filter.Accepted:
	case filter.Duplicate:
		r.reject(ctx, d, v)
		r.diagnose(ctx, d, DuplicateFunction, v.Detail)
		return r.Err()
	case filter.NonConstantEnum:
		r.reject(ctx, d, v)
		r.diagnose(ctx, d, NonConstantEnum, v.Detail+", skipping")
		return r.Err()
	default:
		r.reject(ctx, d, v)
		logger.Debugf(ctx, "skipping %s", v.Detail)
		return r.Err()
	}
	switch d := d.(type) {
	case cdecl.Function:
		return r.EmitFunction(ctx, d)
	case *cdecl.Function:
		return r.EmitFunction(ctx, *d)
	case cdecl.EnumConstant:
		return r.EmitEnumConstant(ctx, d)
	case *cdecl.EnumConstant:
		return r.EmitEnumConstant(ctx, *d)
	}
	return nil
}

func (r *Run) reject(ctx context.Context, d cdecl.Decl, v filter.Verdict) {
	r.stats.Rejected[v.Reason]++
	if l := logger.LoggerFromContext(ctx); l != nil && l.LoggerLevel >= logger.TraceLevel {
		l.Tracef("rejected (%s) %# v", v.Reason, pretty.Formatter(d))
	}
}

// EmitFunction renders fn into both outputs without filtering it.
func (r *Run) EmitFunction(ctx context.Context, fn cdecl.Function) error {
	r.checkOpen()
	if fn.Name == "" {
		panic("EmitFunction called with an unnamed function")
	}
	logger.Infof(ctx, "Found function %s", fn.Name)
	method, glue, problems := r.compiler.compileFunction(fn)
	for _, p := range problems {
		r.diagnose(ctx, fn, p.category, p.message)
	}
	if err := tmpls.ExecuteTemplate(r.managed, "JavaMethod", method); err != nil {
		return r.sinkErr(err)
	}
	if err := tmpls.ExecuteTemplate(r.glue, "GlueFunction", glue); err != nil {
		return r.sinkErr(err)
	}
	r.stats.Functions++
	return nil
}

// EmitEnumConstant renders e as a Java int field. Nothing is written to the
// glue output. e must have a value.
func (r *Run) EmitEnumConstant(ctx context.Context, e cdecl.EnumConstant) error {
	r.checkOpen()
	if !e.HasValue() {
		panic(fmt.Sprintf("EmitEnumConstant called with %s, which has no value", e.Name))
	}
	logger.Infof(ctx, "Found enum constant %s", e.Name)
	if err := tmpls.ExecuteTemplate(r.managed, "JavaConstant", compileConstant(e)); err != nil {
		return r.sinkErr(err)
	}
	r.stats.Constants++
	return nil
}

func (r *Run) diagnose(ctx context.Context, d cdecl.Decl, c Category, msg string) {
	diag := Diagnostic{Decl: d.GetName(), Location: d.GetLocation(), Category: c, Message: msg}
	r.diags = append(r.diags, diag)
	logger.Warningf(ctx, "%s", diag)
}

// sinkErr prefers the sticky sink error over the template's wrapping of it.
func (r *Run) sinkErr(err error) error {
	if serr := r.Err(); serr != nil {
		return serr
	}
	return err
}

// Err returns the first output error, if any.
func (r *Run) Err() error {
	if r.managed.err != nil {
		return r.managed.err
	}
	return r.glue.err
}

func (r *Run) checkOpen() {
	if r.closed {
		panic("declaration processed after the run was closed")
	}
}

// Close writes the closing framing and closes both outputs. It must be
// called exactly once, or Abort instead; the run cannot be used afterwards.
func (r *Run) Close(ctx context.Context) error {
	return r.closeOutputs(ctx, true)
}

// Abort closes both outputs without the closing framing, leaving what was
// written so far in place. It is used when the declaration stream fails.
func (r *Run) Abort(ctx context.Context) error {
	return r.closeOutputs(ctx, false)
}

func (r *Run) closeOutputs(ctx context.Context, footer bool) error {
	r.checkOpen()
	r.closed = true
	var err error
	if footer {
		if ferr := tmpls.ExecuteTemplate(r.managed, "JavaPostamble", nil); ferr != nil && r.managed.err == nil {
			err = ferr
		}
	}
	err = multierr.Combine(err, r.managed.Close(), r.glue.Close())
	logger.Debugf(ctx, "closed outputs after %d bytes of Java and %d bytes of C", r.managed.n, r.glue.n)
	return err
}

// Diagnostics returns every problem recorded so far, in order.
func (r *Run) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), r.diags...)
}

// Stats returns the counters of the run. Byte counts include buffered output.
func (r *Run) Stats() Stats {
	s := r.stats
	s.ManagedBytes = r.managed.n
	s.GlueBytes = r.glue.n
	s.Rejected = make(map[filter.Reason]int, len(r.stats.Rejected))
	for k, v := range r.stats.Rejected {
		s.Rejected[k] = v
	}
	return s
}
