// Package quill regenerates marked blocks inside hand-maintained source files.
package quill

// Version is the current quill release.
const Version = "0.3.0"
