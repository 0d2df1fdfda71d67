// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cdecl

import (
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// RecordKind is the value of the "kind" key of a top-level record.
type RecordKind string

const (
	FunctionRecord     RecordKind = "function"
	EnumConstantRecord RecordKind = "enum_constant"
)

// Source delivers declarations one at a time, in source order. Next returns
// io.EOF once the stream is exhausted.
type Source interface {
	Next() (Decl, error)
}

// Decoder reads a YAML stream of declaration records, one per document.
type Decoder struct {
	d     *yaml.Decoder
	index int
}

var _ Source = (*Decoder)(nil)

// NewDecoder returns a Decoder reading from r. Unknown keys are errors.
func NewDecoder(r io.Reader) *Decoder {
	d := yaml.NewDecoder(r)
	d.SetStrict(true)
	return &Decoder{d: d}
}

// Next decodes the next record. Null documents are skipped; any other
// document must be a complete record.
func (d *Decoder) Next() (Decl, error) {
	for {
		var rec *record
		err := d.d.Decode(&rec)
		if err == io.EOF {
			return nil, io.EOF
		}
		d.index++
		if err != nil {
			return nil, fmt.Errorf("record %d: while reading YAML: %w", d.index, err)
		}
		if rec == nil {
			continue
		}
		decl, err := rec.decl()
		if err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", d.index, rec.Name, err)
		}
		return decl, nil
	}
}

// ReadAll drains a Source.
func ReadAll(src Source) ([]Decl, error) {
	var decls []Decl
	for {
		decl, err := src.Next()
		if err == io.EOF {
			return decls, nil
		}
		if err != nil {
			return decls, err
		}
		decls = append(decls, decl)
	}
}

// ReadFile decodes every record of a declaration file.
func ReadFile(path string) ([]Decl, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Error reading from %s: %w", path, err)
	}
	defer f.Close()
	return ReadAll(NewDecoder(f))
}

// SliceSource replays a fixed list of declarations.
type SliceSource struct {
	decls []Decl
}

func NewSliceSource(decls ...Decl) *SliceSource {
	return &SliceSource{decls: decls}
}

func (s *SliceSource) Next() (Decl, error) {
	if len(s.decls) == 0 {
		return nil, io.EOF
	}
	d := s.decls[0]
	s.decls = s.decls[1:]
	return d, nil
}

type record struct {
	Kind       RecordKind    `yaml:"kind"`
	Name       string        `yaml:"name"`
	Location   string        `yaml:"location,omitempty"`
	Definition bool          `yaml:"definition,omitempty"`
	Prototype  *bool         `yaml:"prototype,omitempty"`
	Return     *Type         `yaml:"return,omitempty"`
	Params     []paramRecord `yaml:"params,omitempty"`
	Value      *IntLiteral   `yaml:"value,omitempty"`
}

type paramRecord struct {
	Name string `yaml:"name,omitempty"`
	Type *Type  `yaml:"type"`
}

func (r record) decl() (Decl, error) {
	if r.Name == "" {
		return nil, fmt.Errorf("record of kind %q has no name", r.Kind)
	}
	switch r.Kind {
	case FunctionRecord:
		if r.Value != nil {
			return nil, fmt.Errorf("function record carries a value")
		}
		hasPrototype := r.Prototype == nil || *r.Prototype
		fn := Function{
			Name:           r.Name,
			Return:         Void(),
			PrototypeOnly:  !(r.Definition && hasPrototype),
			SourceLocation: r.Location,
		}
		if r.Return != nil {
			fn.Return = *r.Return
		}
		for i, p := range r.Params {
			if p.Type == nil {
				return nil, fmt.Errorf("parameter %d (%s) has no type", i, p.Name)
			}
			fn.Params = append(fn.Params, Param{Name: p.Name, Type: *p.Type})
		}
		return fn, nil
	case EnumConstantRecord:
		if r.Return != nil || len(r.Params) > 0 {
			return nil, fmt.Errorf("enum constant record carries a signature")
		}
		ec := EnumConstant{Name: r.Name, SourceLocation: r.Location}
		if r.Value != nil {
			ec.Value = r.Value.Int
		}
		return ec, nil
	}
	return nil, fmt.Errorf("Unknown record kind: %q", r.Kind)
}

// IntLiteral is an arbitrary-precision integer scalar. Decimal, hex (0x),
// octal (0o / leading 0) and binary (0b) forms are accepted.
type IntLiteral struct {
	*big.Int
}

var _ yaml.Unmarshaler = (*IntLiteral)(nil)

func (l *IntLiteral) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return fmt.Errorf("could not unmarshal integer: %w", err)
	}
	v, ok := new(big.Int).SetString(strings.ReplaceAll(strings.TrimSpace(s), "_", ""), 0)
	if !ok {
		return fmt.Errorf("%q is not an integer", s)
	}
	l.Int = v
	return nil
}

// typeRecord is the on-disk shape of a Type.
type typeRecord struct {
	Kind     TypeKind    `yaml:"kind"`
	Builtin  BuiltinKind `yaml:"builtin,omitempty"`
	Pointee  *Type       `yaml:"pointee,omitempty"`
	Element  *Type       `yaml:"element,omitempty"`
	Name     string      `yaml:"name,omitempty"`
	Spelling string      `yaml:"spelling,omitempty"`
}

var _ yaml.Unmarshaler = (*Type)(nil)

// UnmarshalYAML checks that each kind carries the fields it needs.
func (t *Type) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw typeRecord
	if err := unmarshal(&raw); err != nil {
		return err
	}
	*t = Type{Kind: raw.Kind, Name: raw.Name, Spelling: raw.Spelling}
	switch raw.Kind {
	case VoidType, EnumType, UnsupportedType:
	case BuiltinType:
		if !raw.Builtin.IsValid() {
			return fmt.Errorf("Unknown builtin kind: %q", raw.Builtin)
		}
		t.Builtin = raw.Builtin
	case PointerType:
		if raw.Pointee == nil {
			return fmt.Errorf("pointer type has no pointee")
		}
		t.Pointee = raw.Pointee
	case ComplexType:
		if raw.Element == nil {
			e := Builtin(Double)
			raw.Element = &e
		}
		t.Element = raw.Element
	default:
		return fmt.Errorf("Unknown type kind: %q", raw.Kind)
	}
	return nil
}
