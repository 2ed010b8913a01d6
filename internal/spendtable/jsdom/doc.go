// Package jsdom adapts the browser DOM, reached through syscall/js, to the
// spendtable DOM contract. It only has content when built with
// GOOS=js GOARCH=wasm.
package jsdom
