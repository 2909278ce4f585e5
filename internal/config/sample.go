package config

// SampleManifest is written by 'quill init'.
const SampleManifest = `# quill manifest. Paths are relative to this file.
strict: true
log_level: info

markers:
  start: "// GENERATED PART STARTS HERE"
  end: "// GENERATED PART ENDS HERE"

targets:
  - name: example
    path: src/example.h
    template: templates/example.tmpl
    data: templates/example.yml
`

// SampleTemplate renders the example target's block.
const SampleTemplate = `{{ range .constants -}}
static const int {{ snakeCase .name | upper }} = {{ .value }};
{{ end -}}
`

// SampleData feeds SampleTemplate.
const SampleData = `constants:
  - name: maxLocales
    value: 64
  - name: defaultLocale
    value: 1
`

// SampleTarget is the marked file the sample manifest points at.
const SampleTarget = `#ifndef EXAMPLE_H
#define EXAMPLE_H

// GENERATED PART STARTS HERE
// GENERATED PART ENDS HERE

#endif
`
