// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package mangle names glue functions so that the JVM's native method
// linker finds them.
package mangle

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// Convention is the rule set for glue symbol shape and the context
// parameters that lead every glue function.
type Convention string

const (
	// Flat exports each glue function under the JNI short name
	// Java_<package>_<class>_<method> and dispatches statically.
	Flat Convention = "flat"
	// OverloadedNative exports the glue under the bare function name. It is
	// a C++ overload of the wrapped function, told apart by its leading JNI
	// parameters, and is registered with the runtime by name.
	OverloadedNative Convention = "overloaded-native"
)

var conventions = []Convention{Flat, OverloadedNative}

// Conventions lists the supported conventions.
func Conventions() []Convention {
	return append([]Convention(nil), conventions...)
}

func (c Convention) IsValid() bool {
	for _, known := range conventions {
		if c == known {
			return true
		}
	}
	return false
}

func (c Convention) String() string {
	return string(c)
}

// Set implements flag.Value.
func (c *Convention) Set(s string) error {
	v := Convention(s)
	if !v.IsValid() {
		return fmt.Errorf("%q is not a valid convention, want one of %v", s, conventions)
	}
	*c = v
	return nil
}

// Modifiers is what precedes the return type of the Java declaration.
func (c Convention) Modifiers() string {
	if c == OverloadedNative {
		return "public native"
	}
	return "public static native"
}

// ContextParams are the runtime parameters every glue function starts with.
func (c Convention) ContextParams() []string {
	if c == OverloadedNative {
		return []string{"JNIEnv *java_env", "jobject java_object"}
	}
	return []string{"JNIEnv *java_env", "jclass java_class"}
}

// Class identifies the Java class that declares the native methods.
type Class struct {
	// Package is dot separated, e.g. "scala.offheap.numeric.jni".
	Package string
	Name    string
}

// BinaryName is the class name as the JVM spells it internally, with
// slashes between package components.
func (c Class) BinaryName() string {
	if c.Package == "" {
		return c.Name
	}
	return strings.ReplaceAll(c.Package, ".", "/") + "/" + c.Name
}

func (c Class) String() string {
	if c.Package == "" {
		return c.Name
	}
	return c.Package + "." + c.Name
}

// Mangler produces glue symbols for one class under one convention.
type Mangler struct {
	Convention Convention
	Class      Class
}

func New(conv Convention, class Class) Mangler {
	return Mangler{Convention: conv, Class: class}
}

// Symbol returns the exported name of the glue function wrapping name.
// Name must not be empty.
func (m Mangler) Symbol(name string) string {
	if m.Convention == OverloadedNative {
		return name
	}
	var b strings.Builder
	b.WriteString("Java_")
	for i, part := range strings.Split(m.Class.Package, ".") {
		if part == "" && i == 0 {
			break
		}
		b.WriteString(Escape(part))
		b.WriteByte('_')
	}
	b.WriteString(Escape(m.Class.Name))
	b.WriteByte('_')
	b.WriteString(Escape(name))
	return b.String()
}

// Escape applies the JNI escape rules to a single identifier: ASCII letters
// and digits are kept, '_' ';' and '[' become "_1" "_2" and "_3", and every
// other UTF-16 code unit becomes "_0" followed by four lowercase hex digits.
func Escape(ident string) string {
	var b strings.Builder
	for _, u := range utf16.Encode([]rune(ident)) {
		escapeUnit(&b, u)
	}
	return b.String()
}

func escapeUnit(b *strings.Builder, u uint16) {
	switch {
	case u >= 'a' && u <= 'z', u >= 'A' && u <= 'Z', u >= '0' && u <= '9':
		b.WriteByte(byte(u))
	case u == '_':
		b.WriteString("_1")
	case u == ';':
		b.WriteString("_2")
	case u == '[':
		b.WriteString("_3")
	default:
		fmt.Fprintf(b, "_0%04x", u)
	}
}
