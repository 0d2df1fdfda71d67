// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package filter decides which declarations of a stream get bindings.
//
// The declaration supplier surfaces everything reachable through header
// inclusion: standard library prototypes, forward declarations paired with
// their definitions, and enumerators whose value is not a constant. A Filter
// is the only gate between that stream and the emitter.
package filter

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"go.lapackjni.dev/bindgen/tools/jnigen/cdecl"
)

// Reason says why a declaration was rejected.
type Reason string

const (
	Accepted        Reason = ""
	Definition      Reason = "definition"
	Provenance      Reason = "provenance"
	Duplicate       Reason = "duplicate"
	NonConstantEnum Reason = "non-constant-enum"
)

// Reasons lists the rejection reasons in the order they are checked.
var Reasons = []Reason{Definition, Provenance, Duplicate, NonConstantEnum}

// Verdict is the outcome of Check.
type Verdict struct {
	Reason Reason
	// Detail is a human readable explanation, empty when accepted.
	Detail string
}

func (v Verdict) Accepted() bool {
	return v.Reason == Accepted
}

// Filter holds the allow-list and the names accepted so far in one run.
// It is not safe for concurrent use.
type Filter struct {
	allow []string
	// seen maps accepted function names to the location they came from.
	seen map[string]string
}

// New returns a Filter admitting functions declared in one of the allow-list
// paths. An empty allow-list disables provenance filtering.
func New(allow []string) *Filter {
	f := &Filter{seen: make(map[string]string)}
	for _, a := range allow {
		if a = strings.TrimSpace(a); a != "" {
			f.allow = append(f.allow, path.Clean(a))
		}
	}
	return f
}

// Accept reports whether d should be emitted, recording accepted function
// names so later declarations of the same name are rejected.
func (f *Filter) Accept(d cdecl.Decl) bool {
	return f.Check(d).Accepted()
}

// Check is Accept with the reason for a rejection.
func (f *Filter) Check(d cdecl.Decl) Verdict {
	switch d := d.(type) {
	case cdecl.Function:
		return f.checkFunction(d)
	case *cdecl.Function:
		return f.checkFunction(*d)
	case cdecl.EnumConstant:
		return checkEnumConstant(d)
	case *cdecl.EnumConstant:
		return checkEnumConstant(*d)
	}
	panic(fmt.Sprintf("unknown declaration type %T", d))
}

func (f *Filter) checkFunction(fn cdecl.Function) Verdict {
	if !fn.PrototypeOnly {
		return Verdict{Definition, fmt.Sprintf("%s is a definition with a prototype", fn.Name)}
	}
	if !f.Allowed(fn.SourceLocation) {
		return Verdict{Provenance, fmt.Sprintf("%s is declared in %q, which is not allowed", fn.Name, SourcePath(fn.SourceLocation))}
	}
	if first, ok := f.seen[fn.Name]; ok {
		return Verdict{Duplicate, fmt.Sprintf("%s was already declared at %s", fn.Name, first)}
	}
	f.seen[fn.Name] = fn.SourceLocation
	return Verdict{}
}

func checkEnumConstant(e cdecl.EnumConstant) Verdict {
	if !e.HasValue() {
		return Verdict{NonConstantEnum, fmt.Sprintf("%s has no compile-time integer value", e.Name)}
	}
	return Verdict{}
}

// Allowed reports whether a declaration at loc passes the provenance gate.
// A path matches an entry when it equals it or ends in "/" + entry.
func (f *Filter) Allowed(loc string) bool {
	if len(f.allow) == 0 {
		return true
	}
	p := SourcePath(loc)
	if p == "" {
		return false
	}
	for _, a := range f.allow {
		if p == a || strings.HasSuffix(p, "/"+a) {
			return true
		}
	}
	return false
}

// Seen reports whether a function called name has been accepted.
func (f *Filter) Seen(name string) bool {
	_, ok := f.seen[name]
	return ok
}

// Len is the number of distinct functions accepted.
func (f *Filter) Len() int {
	return len(f.seen)
}

// SourcePath drops the ":line" and ":line:col" suffixes of a location and
// cleans the remaining path.
func SourcePath(loc string) string {
	loc = strings.TrimSpace(loc)
	for i := 0; i < 2; i++ {
		idx := strings.LastIndexByte(loc, ':')
		if idx < 0 {
			break
		}
		if _, err := strconv.Atoi(loc[idx+1:]); err != nil {
			break
		}
		loc = loc[:idx]
	}
	if loc == "" {
		return ""
	}
	return path.Clean(loc)
}
