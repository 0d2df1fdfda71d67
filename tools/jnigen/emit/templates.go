// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package emit

const javaTemplates = `
{{- define "JavaPreamble" -}}
{{ if .Package }}package {{ .Package }};

{{ end }}public class {{ .Class }} {
	static {
		System.loadLibrary("{{ .Library }}");
	}

{{ end -}}

{{- define "JavaMethod" }}	{{ .Modifiers }} {{ .Return }} {{ .Name }}(
{{- range $i, $p := .Params }}{{ if $i }}, {{ end }}{{ $p.Type }} {{ $p.Name }}{{ end -}}
);
{{ end -}}

{{- define "JavaConstant" }}	public static int {{ .Name }} = {{ .Value }};
{{ end -}}

{{- define "JavaPostamble" }}{{ "}" }}
{{ end -}}
`

const glueTemplates = `
{{- define "GluePreamble" }}
{{- range .Includes }}#include <{{ . }}>
{{ end }}
{{ end -}}

{{- define "GlueFunction" }}JNIEXPORT {{ .Return }} JNICALL {{ .Symbol }} ({{ join .Params ", " }}) {
	{{ if not .Void }}return {{ end }}{{ .Callee }}({{ join .Args ", " }});
}

{{ end -}}
`
