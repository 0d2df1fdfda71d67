// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package mangle

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Resolve returns the short name the JVM looks up when linking the native
// method named method of the class with the given binary name
// ("pkg/sub/Class"). It walks the name one code unit at a time, the way the
// runtime does, so it can be checked against Symbol independently.
func Resolve(binaryName, method string) string {
	var b strings.Builder
	b.WriteString("Java_")
	for _, u := range utf16.Encode([]rune(binaryName)) {
		if u == '/' {
			b.WriteByte('_')
			continue
		}
		escapeUnit(&b, u)
	}
	b.WriteByte('_')
	for _, u := range utf16.Encode([]rune(method)) {
		escapeUnit(&b, u)
	}
	return b.String()
}

// Demangle splits a JNI short name into the class binary name and the method
// name. Overloaded long names (with a "__" signature suffix) are rejected
// as having an empty component.
func Demangle(symbol string) (binaryName, method string, err error) {
	rest, ok := strings.CutPrefix(symbol, "Java_")
	if !ok {
		return "", "", fmt.Errorf("%q is not a JNI symbol", symbol)
	}
	var parts [][]uint16
	var cur []uint16
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		if c != '_' {
			cur = append(cur, uint16(c))
			continue
		}
		if i+1 >= len(rest) {
			return "", "", fmt.Errorf("%q: trailing underscore", symbol)
		}
		switch next := rest[i+1]; next {
		case '1':
			cur = append(cur, '_')
			i++
		case '2':
			cur = append(cur, ';')
			i++
		case '3':
			cur = append(cur, '[')
			i++
		case '0':
			if i+6 > len(rest) {
				return "", "", fmt.Errorf("%q: short unicode escape", symbol)
			}
			v, err := strconv.ParseUint(rest[i+2:i+6], 16, 16)
			if err != nil {
				return "", "", fmt.Errorf("%q: bad unicode escape: %w", symbol, err)
			}
			cur = append(cur, uint16(v))
			i += 5
		default:
			parts = append(parts, cur)
			cur = nil
		}
	}
	parts = append(parts, cur)
	if len(parts) < 2 {
		return "", "", fmt.Errorf("%q has no class component", symbol)
	}
	names := make([]string, len(parts))
	for i, p := range parts {
		if len(p) == 0 {
			return "", "", fmt.Errorf("%q has an empty component", symbol)
		}
		names[i] = string(utf16.Decode(p))
	}
	last := len(names) - 1
	return strings.Join(names[:last], "/"), names[last], nil
}
