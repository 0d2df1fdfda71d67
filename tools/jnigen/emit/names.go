// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package emit

import (
	"fmt"

	"go.lapackjni.dev/bindgen/tools/jnigen/mangle"
)

type nameChanger func(string) string

// nameContext renames identifiers that cannot be used as given.
type nameContext struct {
	reserved map[string]struct{}
	changer  nameChanger
}

func newNameContext(changer nameChanger) nameContext {
	return nameContext{
		reserved: make(map[string]struct{}),
		changer:  changer,
	}
}

func (c *nameContext) reserve(names ...string) {
	for _, n := range names {
		c.reserved[n] = struct{}{}
	}
}

func (c *nameContext) isReserved(name string) bool {
	if _, ok := c.reserved[name]; ok {
		return true
	}
	return mangle.IsJavaReserved(name)
}

func (c *nameContext) changeIfReserved(name string) string {
	if c.isReserved(name) {
		return c.changer(name)
	}
	return name
}

// paramNames holds Java keywords, plus the names of the context parameters so
// a C parameter cannot shadow them in the glue function.
var paramNames = func() nameContext {
	c := newNameContext(func(s string) string { return s + "_" })
	c.reserve("java_env", "java_class", "java_object", "JNIEnv")
	return c
}()

// paramName is the name a parameter is given in both outputs.
func paramName(name string, index int) string {
	if name == "" {
		return fmt.Sprintf("arg%d", index)
	}
	return paramNames.changeIfReserved(name)
}
