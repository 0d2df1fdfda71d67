// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package emit

import (
	"bytes"
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.lapackjni.dev/bindgen/tools/jnigen/cdecl"
	"go.lapackjni.dev/bindgen/tools/jnigen/config"
	"go.lapackjni.dev/bindgen/tools/jnigen/filter"
	"go.lapackjni.dev/bindgen/tools/jnigen/mangle"
	"go.lapackjni.dev/bindgen/tools/jnigen/typemap"
	"go.lapackjni.dev/bindgen/tools/lib/color"
	"go.lapackjni.dev/bindgen/tools/lib/logger"
)

func testContext(level logger.LogLevel) (context.Context, *bytes.Buffer) {
	var out bytes.Buffer
	l := logger.NewLogger(level, color.NewColor(color.ColorNever), &out, &out, "")
	l.SetFlags(0)
	return logger.WithLogger(context.Background(), l), &out
}

func dgemm() cdecl.Function {
	return cdecl.Function{
		Name:   "cblas_dgemm",
		Return: cdecl.Void(),
		Params: []cdecl.Param{
			{Name: "Order", Type: cdecl.Enum("CBLAS_ORDER")},
			{Name: "TransA", Type: cdecl.Enum("CBLAS_TRANSPOSE")},
			{Name: "M", Type: cdecl.Builtin(cdecl.Int)},
			{Name: "alpha", Type: cdecl.Builtin(cdecl.Double)},
			{Name: "A", Type: cdecl.PointerTo(cdecl.Builtin(cdecl.Double))},
		},
		PrototypeOnly:  true,
		SourceLocation: "/usr/include/cblas.h:120:6",
	}
}

const javaPreamble = `package scala.offheap.numeric.jni;

public class LapackJNI {
	static {
		System.loadLibrary("LapackJNI");
	}

`

const gluePreamble = `#include <jni.h>
#include <stdio.h>
#include <cblas.h>
#include <lapacke.h>

`

// generate runs decls through a Run with cfg and returns both outputs.
func generate(t *testing.T, cfg config.Config, decls ...cdecl.Decl) (string, string, Result) {
	t.Helper()
	ctx, _ := testContext(logger.WarningLevel)
	var managed, glue bytes.Buffer
	res, err := Generate(ctx, cfg, cdecl.NewSliceSource(decls...), &managed, &glue)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return managed.String(), glue.String(), res
}

func TestFlatFunction(t *testing.T) {
	managed, glue, res := generate(t, config.Default(), dgemm())

	wantManaged := javaPreamble +
		"\tpublic static native void cblas_dgemm(int Order, int TransA, int M, double alpha, long A);\n" +
		"}\n"
	if diff := cmp.Diff(wantManaged, managed); diff != "" {
		t.Errorf("managed output (-want +got):\n%s", diff)
	}
	wantGlue := gluePreamble +
		"JNIEXPORT void JNICALL Java_scala_offheap_numeric_jni_LapackJNI_cblas_1dgemm (JNIEnv *java_env, jclass java_class, int Order, int TransA, int M, double alpha, long A) {\n" +
		"\tcblas_dgemm(Order, TransA, M, alpha, (double*) A);\n" +
		"}\n\n"
	if diff := cmp.Diff(wantGlue, glue); diff != "" {
		t.Errorf("glue output (-want +got):\n%s", diff)
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", res.Diagnostics)
	}
	if res.Stats.Functions != 1 || res.Stats.Constants != 0 || res.Stats.Skipped() != 0 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.Stats.ManagedBytes != int64(len(managed)) || res.Stats.GlueBytes != int64(len(glue)) {
		t.Errorf("byte counts %d/%d, outputs are %d/%d", res.Stats.ManagedBytes, res.Stats.GlueBytes, len(managed), len(glue))
	}
}

func TestGlueSymbolResolvesFromJavaDeclaration(t *testing.T) {
	cfg := config.Default()
	names := []string{"cblas_dgemm", "LAPACKE_dgesv_work", "dnrm2"}
	var decls []cdecl.Decl
	for _, n := range names {
		decls = append(decls, cdecl.Function{Name: n, Return: cdecl.Void(), PrototypeOnly: true, SourceLocation: "cblas.h"})
	}
	managed, glue, _ := generate(t, cfg, decls...)
	binary := cfg.JavaClass().BinaryName()
	for _, n := range names {
		if !strings.Contains(managed, " "+n+"(") {
			t.Errorf("no Java declaration of %s", n)
			continue
		}
		sym := mangle.Resolve(binary, n)
		if !strings.Contains(glue, "JNICALL "+sym+" (") {
			t.Errorf("glue does not export %s, which the JVM looks up for %s", sym, n)
		}
	}
}

func TestOverloadedNativeFunction(t *testing.T) {
	cfg := config.Default()
	cfg.NamingConvention = mangle.OverloadedNative
	cfg.GlueTypeStyle = typemap.Prefixed
	cfg.GlueOutput = "LapackJNI.cpp"
	fn := cdecl.Function{
		Name:   "cblas_ddot",
		Return: cdecl.Builtin(cdecl.Double),
		Params: []cdecl.Param{
			{Name: "N", Type: cdecl.Builtin(cdecl.Int)},
			{Name: "X", Type: cdecl.PointerTo(cdecl.Builtin(cdecl.Double)).WithSpelling("const double *")},
			{Name: "incX", Type: cdecl.Builtin(cdecl.Int)},
		},
		PrototypeOnly:  true,
		SourceLocation: "/usr/include/cblas.h",
	}
	managed, glue, _ := generate(t, cfg, fn)
	if want := "\tpublic native double cblas_ddot(int N, long X, int incX);\n"; !strings.Contains(managed, want) {
		t.Errorf("managed output lacks %q:\n%s", want, managed)
	}
	wantGlue := "JNIEXPORT jdouble JNICALL cblas_ddot (JNIEnv *java_env, jobject java_object, jint N, jlong X, jint incX) {\n" +
		"\treturn cblas_ddot(N, (const double *) X, incX);\n" +
		"}\n\n"
	if !strings.HasSuffix(glue, wantGlue) {
		t.Errorf("glue output does not end with\n%s\ngot:\n%s", wantGlue, glue)
	}
}

func TestZeroParameters(t *testing.T) {
	fn := cdecl.Function{Name: "openblas_get_num_threads", Return: cdecl.Builtin(cdecl.Int), PrototypeOnly: true, SourceLocation: "cblas.h"}
	managed, glue, _ := generate(t, config.Default(), fn)
	if want := "\tpublic static native int openblas_get_num_threads();\n"; !strings.Contains(managed, want) {
		t.Errorf("managed output lacks %q", want)
	}
	if want := "(JNIEnv *java_env, jclass java_class) {\n\treturn openblas_get_num_threads();\n}\n"; !strings.Contains(glue, want) {
		t.Errorf("glue output lacks %q:\n%s", want, glue)
	}
}

func TestParameterNames(t *testing.T) {
	fn := cdecl.Function{
		Name:   "f",
		Return: cdecl.Void(),
		Params: []cdecl.Param{
			{Type: cdecl.Builtin(cdecl.Int)},
			{Name: "native", Type: cdecl.Builtin(cdecl.Int)},
			{Name: "java_env", Type: cdecl.Builtin(cdecl.Int)},
			{Type: cdecl.Builtin(cdecl.Int)},
		},
		PrototypeOnly: true,
	}
	cfg := config.Default()
	cfg.ProvenanceAllowList = nil
	managed, glue, _ := generate(t, cfg, fn)
	if want := "f(int arg0, int native_, int java_env_, int arg3);"; !strings.Contains(managed, want) {
		t.Errorf("managed output lacks %q:\n%s", want, managed)
	}
	if want := "\tf(arg0, native_, java_env_, arg3);\n"; !strings.Contains(glue, want) {
		t.Errorf("glue output lacks %q:\n%s", want, glue)
	}
}

func TestDuplicatesEmittedOnce(t *testing.T) {
	second := dgemm()
	second.SourceLocation = "/usr/include/cblas.h:900:6"
	second.Params = second.Params[:1]
	managed, glue, res := generate(t, config.Default(), dgemm(), second)
	if got := strings.Count(managed, "cblas_dgemm("); got != 1 {
		t.Errorf("managed declaration appears %d times", got)
	}
	if got := strings.Count(glue, "JNIEXPORT"); got != 1 {
		t.Errorf("glue function appears %d times", got)
	}
	want := []Diagnostic{{
		Decl:     "cblas_dgemm",
		Location: "/usr/include/cblas.h:900:6",
		Category: DuplicateFunction,
		Message:  "cblas_dgemm was already declared at /usr/include/cblas.h:120:6",
	}}
	if diff := cmp.Diff(want, res.Diagnostics); diff != "" {
		t.Errorf("diagnostics (-want +got):\n%s", diff)
	}
	if got := res.Stats.Rejected[filter.Duplicate]; got != 1 {
		t.Errorf("Rejected[duplicate] = %d", got)
	}
}

func TestEnumConstant(t *testing.T) {
	managed, glue, res := generate(t, config.Default(),
		cdecl.EnumConstant{Name: "CblasRowMajor", Value: big.NewInt(101), SourceLocation: "/usr/include/cblas.h:8:3"})
	if diff := cmp.Diff(javaPreamble+"\tpublic static int CblasRowMajor = 101;\n}\n", managed); diff != "" {
		t.Errorf("managed output (-want +got):\n%s", diff)
	}
	if glue != gluePreamble {
		t.Errorf("enum constant wrote to the glue output:\n%s", glue)
	}
	if res.Stats.Constants != 1 {
		t.Errorf("Stats = %+v", res.Stats)
	}
}

func TestEnumConstantValues(t *testing.T) {
	huge, _ := new(big.Int).SetString("-123456789012345678901234567890", 10)
	managed, _, _ := generate(t, config.Default(),
		cdecl.EnumConstant{Name: "Neg", Value: big.NewInt(-1)},
		cdecl.EnumConstant{Name: "Hex", Value: big.NewInt(0x7f)},
		cdecl.EnumConstant{Name: "Huge", Value: huge})
	for _, want := range []string{
		"\tpublic static int Neg = -1;\n",
		"\tpublic static int Hex = 127;\n",
		"\tpublic static int Huge = -123456789012345678901234567890;\n",
	} {
		if !strings.Contains(managed, want) {
			t.Errorf("managed output lacks %q", want)
		}
	}
}

func TestNonConstantEnum(t *testing.T) {
	ctx, log := testContext(logger.WarningLevel)
	var managed, glue bytes.Buffer
	r, err := NewRun(ctx, config.Default(), &managed, &glue)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Process(ctx, cdecl.EnumConstant{Name: "CblasSizeofThing", SourceLocation: "cblas.h:9:3"}); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(ctx); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(javaPreamble+"}\n", managed.String()); diff != "" {
		t.Errorf("managed output (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(gluePreamble, glue.String()); diff != "" {
		t.Errorf("glue output (-want +got):\n%s", diff)
	}
	diags := r.Diagnostics()
	if len(diags) != 1 || diags[0].Category != NonConstantEnum {
		t.Fatalf("Diagnostics() = %v, want one %s", diags, NonConstantEnum)
	}
	want := "WARN: cblas.h:9:3: CblasSizeofThing [non-constant-enum]: CblasSizeofThing has no compile-time integer value, skipping\n"
	if log.String() != want {
		t.Errorf("log = %q, want %q", log.String(), want)
	}
}

func TestDegradedTypes(t *testing.T) {
	fn := cdecl.Function{
		Name:   "LAPACKE_zgesv",
		Return: cdecl.Complex(cdecl.Builtin(cdecl.Double)),
		Params: []cdecl.Param{
			{Name: "v", Type: cdecl.Void()},
			{Name: "a", Type: cdecl.Unsupported("struct lapack_desc")},
			{Name: "pp", Type: cdecl.PointerTo(cdecl.PointerTo(cdecl.Builtin(cdecl.Char)))},
		},
		PrototypeOnly:  true,
		SourceLocation: "lapacke.h",
	}
	managed, glue, res := generate(t, config.Default(), fn)
	if want := "\tpublic static native long LAPACKE_zgesv(long v, ??? a, long pp);\n"; !strings.Contains(managed, want) {
		t.Errorf("managed output lacks %q:\n%s", want, managed)
	}
	if want := "\treturn LAPACKE_zgesv(v, a, (char**) pp);\n"; !strings.Contains(glue, want) {
		t.Errorf("glue output lacks %q:\n%s", want, glue)
	}
	var got []Category
	for _, d := range res.Diagnostics {
		got = append(got, d.Category)
	}
	want := []Category{LossyComplex, VoidParameter, UnmappableType, MultiLevelPointer}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diagnostic categories (-want +got):\n%s", diff)
	}
	if res.Stats.Functions != 1 {
		t.Error("degraded function was not emitted")
	}
}

func TestPlainGlueSpellsCTypes(t *testing.T) {
	fn := cdecl.Function{
		Name:   "LAPACKE_dsyev",
		Return: cdecl.Builtin(cdecl.Int),
		Params: []cdecl.Param{
			{Name: "jobz", Type: cdecl.Builtin(cdecl.Char)},
			{Name: "ok", Type: cdecl.Builtin(cdecl.Bool)},
			{Name: "w", Type: cdecl.PointerTo(cdecl.PointerTo(cdecl.Builtin(cdecl.Double))).WithSpelling("double **")},
		},
		PrototypeOnly:  true,
		SourceLocation: "lapacke.h:42:1",
	}
	managed, glue, res := generate(t, config.Default(), fn)
	if want := "\tpublic static native int LAPACKE_dsyev(byte jobz, boolean ok, long w);\n"; !strings.Contains(managed, want) {
		t.Errorf("managed output lacks %q:\n%s", want, managed)
	}
	wantGlue := "JNIEXPORT int JNICALL Java_scala_offheap_numeric_jni_LapackJNI_LAPACKE_1dsyev (JNIEnv *java_env, jclass java_class, char jobz, _Bool ok, long w) {\n" +
		"\treturn LAPACKE_dsyev(jobz, ok, (double **) w);\n" +
		"}\n\n"
	if !strings.HasSuffix(glue, wantGlue) {
		t.Errorf("glue output lacks %q:\n%s", wantGlue, glue)
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Category != MultiLevelPointer {
		t.Errorf("Diagnostics = %v, want one %s", res.Diagnostics, MultiLevelPointer)
	}
}

func TestFilteredDeclarations(t *testing.T) {
	defined := dgemm()
	defined.Name = "cblas_xerbla"
	defined.PrototypeOnly = false
	printf := cdecl.Function{Name: "printf", Return: cdecl.Builtin(cdecl.Int), PrototypeOnly: true, SourceLocation: "/usr/include/stdio.h:332:12"}
	managed, glue, res := generate(t, config.Default(), printf, defined, dgemm())
	if strings.Contains(managed, "printf") || strings.Contains(glue, "printf") {
		t.Error("stdio.h declaration was emitted")
	}
	if strings.Contains(managed, "xerbla") {
		t.Error("definition was emitted")
	}
	want := map[filter.Reason]int{filter.Provenance: 1, filter.Definition: 1}
	if diff := cmp.Diff(want, res.Stats.Rejected); diff != "" {
		t.Errorf("Rejected (-want +got):\n%s", diff)
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("filtered declarations produced diagnostics: %v", res.Diagnostics)
	}
}

func TestEmptyPackage(t *testing.T) {
	cfg := config.Default()
	cfg.Package = ""
	cfg.Class = "Blas"
	cfg.Library = "blasjni"
	cfg.Includes = []string{"jni.h"}
	fn := cdecl.Function{Name: "cblas_ddot", Return: cdecl.Void(), PrototypeOnly: true, SourceLocation: "cblas.h"}
	managed, glue, _ := generate(t, cfg, fn)
	wantManaged := "public class Blas {\n\tstatic {\n\t\tSystem.loadLibrary(\"blasjni\");\n\t}\n\n" +
		"\tpublic static native void cblas_ddot();\n}\n"
	if diff := cmp.Diff(wantManaged, managed); diff != "" {
		t.Errorf("managed output (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(glue, "#include <jni.h>\n\nJNIEXPORT void JNICALL Java_Blas_cblas_1ddot (") {
		t.Errorf("glue output:\n%s", glue)
	}
}

func TestInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.NamingConvention = "mangled"
	if _, err := NewRun(context.Background(), cfg, &bytes.Buffer{}, &bytes.Buffer{}); err == nil {
		t.Error("NewRun accepted an invalid config")
	}
}

func TestTraceDumpsRejectedDeclarations(t *testing.T) {
	ctx, log := testContext(logger.TraceLevel)
	r, err := NewRun(ctx, config.Default(), &bytes.Buffer{}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	printf := cdecl.Function{Name: "printf", Return: cdecl.Builtin(cdecl.Int), PrototypeOnly: true, SourceLocation: "stdio.h"}
	if err := r.Process(ctx, printf); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(ctx); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"TRACE: rejected (provenance)", `Name:`, `"printf"`, "DEBUG: skipping printf"} {
		if !strings.Contains(log.String(), want) {
			t.Errorf("log lacks %q:\n%s", want, log.String())
		}
	}
}
