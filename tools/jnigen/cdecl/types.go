// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cdecl

import (
	"fmt"
	"math/big"
	"strings"
)

/*
This file contains types which describe C declarations drawn from numerical
library headers.

They are produced by an external parser (a clang-based tool) and delivered as
an ordered stream of records, one per declaration, in source order. Name,
type and constant-expression resolution are already done by the time a record
reaches this package; bindings are generated from these records alone.
*/

// TypeKind discriminates the Type variants.
type TypeKind string

const (
	VoidType        TypeKind = "void"
	BuiltinType     TypeKind = "builtin"
	PointerType     TypeKind = "pointer"
	EnumType        TypeKind = "enum"
	ComplexType     TypeKind = "complex"
	UnsupportedType TypeKind = "unsupported"
)

// BuiltinKind names a C scalar type.
type BuiltinKind string

const (
	Bool       BuiltinKind = "bool"
	Char       BuiltinKind = "char"
	SChar      BuiltinKind = "schar"
	UChar      BuiltinKind = "uchar"
	Short      BuiltinKind = "short"
	UShort     BuiltinKind = "ushort"
	Int        BuiltinKind = "int"
	UInt       BuiltinKind = "uint"
	Long       BuiltinKind = "long"
	ULong      BuiltinKind = "ulong"
	LongLong   BuiltinKind = "longlong"
	ULongLong  BuiltinKind = "ulonglong"
	Int128     BuiltinKind = "int128"
	UInt128    BuiltinKind = "uint128"
	Float      BuiltinKind = "float"
	Double     BuiltinKind = "double"
	LongDouble BuiltinKind = "longdouble"
	// BuiltinVoid only shows up in malformed records; well-formed ones use VoidType.
	BuiltinVoid BuiltinKind = "void"
)

type builtinInfo struct {
	spelling string
	bits     int
	unsigned bool
	float    bool
}

// Widths assume an LP64 target.
var builtins = map[BuiltinKind]builtinInfo{
	Bool:        {"_Bool", 8, true, false},
	Char:        {"char", 8, false, false},
	SChar:       {"signed char", 8, false, false},
	UChar:       {"unsigned char", 8, true, false},
	Short:       {"short", 16, false, false},
	UShort:      {"unsigned short", 16, true, false},
	Int:         {"int", 32, false, false},
	UInt:        {"unsigned int", 32, true, false},
	Long:        {"long", 64, false, false},
	ULong:       {"unsigned long", 64, true, false},
	LongLong:    {"long long", 64, false, false},
	ULongLong:   {"unsigned long long", 64, true, false},
	Int128:      {"__int128", 128, false, false},
	UInt128:     {"unsigned __int128", 128, true, false},
	Float:       {"float", 32, false, true},
	Double:      {"double", 64, false, true},
	LongDouble:  {"long double", 128, false, true},
	BuiltinVoid: {"void", 0, false, false},
}

// IsValid reports whether k is one of the known scalar kinds.
func (k BuiltinKind) IsValid() bool {
	_, ok := builtins[k]
	return ok
}

// CSpelling is the C name of the scalar, e.g. "unsigned int".
func (k BuiltinKind) CSpelling() string {
	return builtins[k].spelling
}

func (k BuiltinKind) NumberOfBits() int {
	return builtins[k].bits
}

func (k BuiltinKind) IsUnsigned() bool {
	return builtins[k].unsigned
}

func (k BuiltinKind) IsFloat() bool {
	return builtins[k].float
}

// Type describes a C type. Only the fields relevant to Kind are set:
// Builtin for BuiltinType, Pointee for PointerType, Name for EnumType and
// Element for ComplexType. Spelling, when present, is the fully-qualified
// type as written in the declaration (keeping const and decayed arrays).
type Type struct {
	Kind     TypeKind
	Builtin  BuiltinKind
	Pointee  *Type
	Element  *Type
	Name     string
	Spelling string
}

func Void() Type {
	return Type{Kind: VoidType}
}

func Builtin(k BuiltinKind) Type {
	return Type{Kind: BuiltinType, Builtin: k}
}

func PointerTo(pointee Type) Type {
	return Type{Kind: PointerType, Pointee: &pointee}
}

func Enum(name string) Type {
	return Type{Kind: EnumType, Name: name}
}

func Complex(element Type) Type {
	return Type{Kind: ComplexType, Element: &element}
}

func Unsupported(spelling string) Type {
	return Type{Kind: UnsupportedType, Spelling: spelling}
}

// WithSpelling returns a copy of t carrying the declared spelling s.
func (t Type) WithSpelling(s string) Type {
	t.Spelling = s
	return t
}

// PointerDepth counts the levels of indirection in t.
func (t Type) PointerDepth() int {
	n := 0
	for cur := &t; cur != nil && cur.Kind == PointerType; cur = cur.Pointee {
		n++
	}
	return n
}

// CSpelling renders t as C source. The declared spelling wins when present.
func (t Type) CSpelling() string {
	if t.Spelling != "" {
		return t.Spelling
	}
	switch t.Kind {
	case VoidType:
		return "void"
	case BuiltinType:
		return t.Builtin.CSpelling()
	case PointerType:
		if t.Pointee == nil {
			return "void*"
		}
		return t.Pointee.CSpelling() + "*"
	case EnumType:
		if t.Name == "" {
			return "int"
		}
		return t.Name
	case ComplexType:
		if t.Element == nil {
			return "_Complex double"
		}
		return "_Complex " + t.Element.CSpelling()
	}
	return "???"
}

func (t Type) String() string {
	switch t.Kind {
	case BuiltinType:
		return fmt.Sprintf("builtin(%s)", t.Builtin)
	case PointerType:
		if t.Pointee == nil {
			return "pointer(?)"
		}
		return fmt.Sprintf("pointer(%s)", t.Pointee)
	case EnumType:
		return fmt.Sprintf("enum(%s)", t.Name)
	case ComplexType:
		if t.Element == nil {
			return "complex(?)"
		}
		return fmt.Sprintf("complex(%s)", t.Element)
	case UnsupportedType:
		return fmt.Sprintf("unsupported(%s)", t.Spelling)
	}
	return string(t.Kind)
}

// Decl is a declaration record: either a Function or an EnumConstant.
type Decl interface {
	GetName() string
	GetLocation() string
	isDecl()
}

// Param is a single function parameter. Name may be empty for unnamed
// parameters in a prototype.
type Param struct {
	Name string
	Type Type
}

// Function is a C function declaration.
type Function struct {
	Name   string
	Return Type
	Params []Param
	// PrototypeOnly is false for a definition that also carries a complete
	// prototype; those records duplicate a declaration seen elsewhere.
	PrototypeOnly  bool
	SourceLocation string
}

func (f Function) GetName() string     { return f.Name }
func (f Function) GetLocation() string { return f.SourceLocation }
func (Function) isDecl()               {}

// Signature renders f as a C prototype, for log messages.
func (f Function) Signature() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = strings.TrimSpace(p.Type.CSpelling() + " " + p.Name)
	}
	return fmt.Sprintf("%s %s(%s)", f.Return.CSpelling(), f.Name, strings.Join(params, ", "))
}

// EnumConstant is one enumerator. Value is nil when the initializer could not
// be evaluated to an integer at compile time.
type EnumConstant struct {
	Name           string
	Value          *big.Int
	SourceLocation string
}

func (e EnumConstant) GetName() string     { return e.Name }
func (e EnumConstant) GetLocation() string { return e.SourceLocation }
func (EnumConstant) isDecl()               {}

// HasValue reports whether the initializer was a compile-time integer.
func (e EnumConstant) HasValue() bool {
	return e.Value != nil
}
