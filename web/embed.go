// Package web embeds the page templates and static assets of the server.
package web

import "embed"

// TemplatesFS embeds HTML templates for server-side rendering.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds the stylesheet, the page script and, when built before
// the server, wasm_exec.js and spendtable.wasm.
//
//go:embed static/*
var StaticFS embed.FS
