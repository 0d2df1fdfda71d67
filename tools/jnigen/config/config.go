// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package config holds the settings of one binding generation run.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v2"

	"go.lapackjni.dev/bindgen/tools/jnigen/mangle"
	"go.lapackjni.dev/bindgen/tools/jnigen/typemap"
)

type Config struct {
	NamingConvention mangle.Convention `yaml:"namingConvention"`
	GlueTypeStyle    typemap.GlueStyle `yaml:"glueTypeStyle"`
	// ProvenanceAllowList admits functions declared in these headers only.
	// Empty admits everything.
	ProvenanceAllowList []string `yaml:"provenanceAllowList"`
	Package             string   `yaml:"package"`
	Class               string   `yaml:"class"`
	// Library is passed to System.loadLibrary. Defaults to Class.
	Library string `yaml:"library"`
	// Includes are the headers the glue file includes, in order.
	Includes      []string `yaml:"includes"`
	ManagedOutput string   `yaml:"managedOutput"`
	GlueOutput    string   `yaml:"glueOutput"`
}

// Default returns the settings for the CBLAS/LAPACKE bindings.
func Default() Config {
	return Config{
		NamingConvention:    mangle.Flat,
		GlueTypeStyle:       typemap.Plain,
		ProvenanceAllowList: []string{"cblas.h", "lapacke.h"},
		Package:             "scala.offheap.numeric.jni",
		Class:               "LapackJNI",
		Library:             "LapackJNI",
		Includes:            []string{"jni.h", "stdio.h", "cblas.h", "lapacke.h"},
		ManagedOutput:       "LapackJNI.java",
		GlueOutput:          "LapackJNI.c",
	}
}

// Load reads a YAML file over Default. Unknown keys are an error.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	c, err := Parse(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse is Load for an already open reader. An empty document yields Default.
func Parse(r io.Reader) (Config, error) {
	c := Default()
	c.Library = ""
	d := yaml.NewDecoder(r)
	d.SetStrict(true)
	if err := d.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("while reading YAML: %w", err)
	}
	if c.Library == "" {
		c.Library = c.Class
	}
	return c, nil
}

// JavaClass is the Java class the native methods are declared in.
func (c Config) JavaClass() mangle.Class {
	return mangle.Class{Package: c.Package, Name: c.Class}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var err error
	if !c.NamingConvention.IsValid() {
		err = multierr.Append(err, fmt.Errorf("unknown namingConvention %q, want one of %v", c.NamingConvention, mangle.Conventions()))
	}
	if !c.GlueTypeStyle.IsValid() {
		err = multierr.Append(err, fmt.Errorf("unknown glueTypeStyle %q, want %q or %q", c.GlueTypeStyle, typemap.Plain, typemap.Prefixed))
	}
	if c.Package != "" {
		for _, part := range strings.Split(c.Package, ".") {
			if !mangle.IsJavaIdentifier(part) {
				err = multierr.Append(err, fmt.Errorf("package %q: %q is not a Java identifier", c.Package, part))
				break
			}
		}
	}
	if !mangle.IsJavaIdentifier(c.Class) {
		err = multierr.Append(err, fmt.Errorf("class %q is not a Java identifier", c.Class))
	}
	if c.Library == "" {
		err = multierr.Append(err, errors.New("library must not be empty"))
	}
	for _, inc := range c.Includes {
		if strings.TrimSpace(inc) == "" {
			err = multierr.Append(err, errors.New("includes contains an empty header name"))
			break
		}
	}
	if c.NamingConvention == mangle.OverloadedNative && filepath.Ext(c.GlueOutput) == ".c" {
		err = multierr.Append(err, fmt.Errorf("glueOutput %q: %s glue redeclares each native function and must be built as C++", c.GlueOutput, mangle.OverloadedNative))
	}
	if c.ManagedOutput != "" && c.ManagedOutput == c.GlueOutput {
		err = multierr.Append(err, fmt.Errorf("managedOutput and glueOutput are both %q", c.ManagedOutput))
	}
	return err
}
