// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package emit

import (
	"fmt"

	"go.lapackjni.dev/bindgen/tools/jnigen/cdecl"
	"go.lapackjni.dev/bindgen/tools/jnigen/mangle"
	"go.lapackjni.dev/bindgen/tools/jnigen/typemap"
)

// The types below are the template inputs. They are produced from one
// declaration and dropped once rendered.

type javaClass struct {
	Package string
	Class   string
	Library string
}

type glueFile struct {
	Includes []string
}

type javaParam struct {
	Type string
	Name string
}

type javaMethod struct {
	Modifiers string
	Return    string
	Name      string
	Params    []javaParam
}

type javaConstant struct {
	Name  string
	Value string
}

type glueFunction struct {
	Return string
	Symbol string
	// Params starts with the context parameters of the convention.
	Params []string
	Void   bool
	Callee string
	Args   []string
}

// problem is a degraded mapping found while compiling a function.
type problem struct {
	category Category
	message  string
}

type compiler struct {
	mapper  typemap.Mapper
	mangler mangle.Mangler
}

func (c compiler) compileFunction(fn cdecl.Function) (javaMethod, glueFunction, []problem) {
	var problems []problem
	note := func(m typemap.Mapping, where string) {
		if m.Problem != typemap.NoProblem {
			problems = append(problems, problem{Category(m.Problem), fmt.Sprintf("%s: %s", where, m.Detail)})
		}
	}

	ret := c.mapper.Return(fn.Return)
	note(ret, "return type")

	conv := c.mangler.Convention
	m := javaMethod{
		Modifiers: conv.Modifiers(),
		Return:    ret.Managed,
		Name:      fn.Name,
	}
	g := glueFunction{
		Return: ret.Glue,
		Symbol: c.mangler.Symbol(fn.Name),
		Params: conv.ContextParams(),
		Void:   ret.Managed == typemap.Void,
		Callee: fn.Name,
	}
	for i, p := range fn.Params {
		name := paramName(p.Name, i)
		pm := c.mapper.Param(p.Type)
		note(pm, fmt.Sprintf("parameter %s", name))
		m.Params = append(m.Params, javaParam{Type: pm.Managed, Name: name})
		g.Params = append(g.Params, pm.Glue+" "+name)
		g.Args = append(g.Args, pm.Cast+name)
	}
	return m, g, problems
}

func compileConstant(e cdecl.EnumConstant) javaConstant {
	return javaConstant{Name: e.Name, Value: e.Value.String()}
}
