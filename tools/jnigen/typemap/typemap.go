// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package typemap maps C types to the spellings used on the two sides of a
// JNI binding: the Java native-method declaration and the C glue function.
package typemap

import (
	"fmt"

	"go.lapackjni.dev/bindgen/tools/jnigen/cdecl"
)

// Unknown is written in place of a type no rule applies to. It is meant to be
// seen (and to fail compilation) until the declaration is fixed upstream.
const Unknown = "???"

// Java scalar names.
const (
	Void    = "void"
	Boolean = "boolean"
	Byte    = "byte"
	Short   = "short"
	Int     = "int"
	Long    = "long"
	Float   = "float"
	Double  = "double"
)

// PointerSized is the Java integer type as wide as a native pointer (LP64).
const PointerSized = Long

// GlueStyle selects how scalar types are spelled in the glue file.
type GlueStyle string

const (
	// Plain reuses the Java scalar name ("int", "double") where C has the
	// same keyword, and the C builtin name ("char", "_Bool") where it does not.
	Plain GlueStyle = "plain"
	// Prefixed uses the jni.h typedefs ("jint", "jdouble").
	Prefixed GlueStyle = "prefixed"
)

func (s GlueStyle) IsValid() bool {
	return s == Plain || s == Prefixed
}

// Problem classifies a degraded mapping. The empty Problem means exact.
type Problem string

const (
	NoProblem         Problem = ""
	Unmappable        Problem = "unmappable-type"
	VoidParameter     Problem = "void-parameter"
	LossyComplex      Problem = "lossy-complex"
	MultiLevelPointer Problem = "multi-level-pointer"
)

// Mapping holds every spelling one C type needs in a binding.
type Mapping struct {
	// Managed is the Java type.
	Managed string
	// Glue is the C type of the glue function's parameter or result.
	Glue string
	// Cast prefixes the glue parameter when it is passed on to the native
	// function, e.g. "(double*) ". Empty for results and non-pointers.
	Cast    string
	Problem Problem
	Detail  string
}

// Mapper applies the mapping rules. The zero value uses the Plain style.
type Mapper struct {
	Style GlueStyle
}

func New(style GlueStyle) Mapper {
	return Mapper{Style: style}
}

// ManagedType returns the Java spelling of t.
func (m Mapper) ManagedType(t cdecl.Type) string {
	return m.Return(t).Managed
}

// GlueType returns the glue-side spelling of t.
func (m Mapper) GlueType(t cdecl.Type) string {
	return m.Return(t).Glue
}

// Return maps a function result. Void is legal here.
func (m Mapper) Return(t cdecl.Type) Mapping {
	managed, problem, detail := managedType(t)
	return Mapping{
		Managed: managed,
		Glue:    m.glueFor(t, managed),
		Problem: problem,
		Detail:  detail,
	}
}

// Param maps a parameter and computes its cast. A parameter can never be
// void; such input is replaced by the pointer-sized integer.
func (m Mapper) Param(t cdecl.Type) Mapping {
	mp := m.Return(t)
	if mp.Managed == Void {
		mp = Mapping{
			Managed: PointerSized,
			Glue:    m.glue(PointerSized),
			Problem: VoidParameter,
			Detail:  fmt.Sprintf("non-void type %s has void name, assuming %s instead", t, PointerSized),
		}
	}
	if t.Kind != cdecl.PointerType {
		return mp
	}
	mp.Cast = "(" + castTarget(t) + ") "
	switch {
	case t.PointerDepth() > 1:
		mp.Problem = MultiLevelPointer
		mp.Detail = fmt.Sprintf("%s has %d levels of indirection", t, t.PointerDepth())
	case mp.Cast == "("+Unknown+"*) ":
		mp.Problem = Unmappable
		mp.Detail = fmt.Sprintf("no C spelling for the pointee of %s", t)
	}
	return mp
}

// castTarget is the declared type when known, else pointee followed by "*".
func castTarget(t cdecl.Type) string {
	if t.Spelling != "" {
		return t.Spelling
	}
	if t.Pointee == nil {
		return "void*"
	}
	return t.Pointee.CSpelling() + "*"
}

func managedType(t cdecl.Type) (string, Problem, string) {
	switch t.Kind {
	case cdecl.PointerType:
		return PointerSized, NoProblem, ""
	case cdecl.EnumType:
		return Int, NoProblem, ""
	case cdecl.BuiltinType:
		if s, ok := scalar(t.Builtin); ok {
			return s, NoProblem, ""
		}
		return Unknown, Unmappable, fmt.Sprintf("no Java scalar matches %s", t.Builtin.CSpelling())
	case cdecl.ComplexType:
		return PointerSized, LossyComplex, fmt.Sprintf("%s is passed as an opaque %s", t, PointerSized)
	case cdecl.VoidType:
		return Void, NoProblem, ""
	case cdecl.UnsupportedType:
		return Unknown, Unmappable, fmt.Sprintf("unsupported type %q", t.Spelling)
	}
	return Unknown, Unmappable, fmt.Sprintf("unknown type kind %q", t.Kind)
}

// scalar picks the Java primitive of the same width and class. Java has no
// unsigned integers, so unsigned kinds share the signed name.
func scalar(k cdecl.BuiltinKind) (string, bool) {
	if !k.IsValid() {
		return "", false
	}
	switch {
	case k == cdecl.BuiltinVoid:
		return Void, true
	case k == cdecl.Bool:
		return Boolean, true
	case k.IsFloat():
		switch k.NumberOfBits() {
		case 32:
			return Float, true
		case 64:
			return Double, true
		}
		return "", false
	}
	switch k.NumberOfBits() {
	case 8:
		return Byte, true
	case 16:
		return Short, true
	case 32:
		return Int, true
	case 64:
		return Long, true
	}
	return "", false
}

// glueFor is glue, except that the Java names C lacks ("byte", "boolean")
// take the C builtin name, or the jni.h typedef when t is not a builtin.
func (m Mapper) glueFor(t cdecl.Type, managed string) string {
	if m.Style == Prefixed || (managed != Byte && managed != Boolean) {
		return m.glue(managed)
	}
	if t.Kind == cdecl.BuiltinType {
		return t.Builtin.CSpelling()
	}
	return "j" + managed
}

func (m Mapper) glue(managed string) string {
	if m.Style != Prefixed || managed == Void || managed == Unknown {
		return managed
	}
	return "j" + managed
}
