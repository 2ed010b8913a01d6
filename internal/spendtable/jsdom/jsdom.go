//go:build js && wasm

package jsdom

import (
	"syscall/js"

	"spending/internal/spendtable"
)

var (
	_ spendtable.Document = (*Document)(nil)
	_ spendtable.Select   = (*Element)(nil)
)

// Document wraps window.document.
type Document struct {
	v js.Value
}

// Global returns the page document.
func Global() *Document {
	return &Document{v: js.Global().Get("document")}
}

func (d *Document) GetElementByID(id string) spendtable.Element {
	return Wrap(d.v.Call("getElementById", id))
}

func (d *Document) QuerySelector(selector string) spendtable.Element {
	return Wrap(d.v.Call("querySelector", selector))
}

// Element wraps an HTMLElement.
type Element struct {
	v js.Value
}

// Wrap turns a JS element into a spendtable element; null and undefined
// become nil.
func Wrap(v js.Value) spendtable.Element {
	if v.IsNull() || v.IsUndefined() {
		return nil
	}
	return &Element{v: v}
}

// Value returns the wrapped JS object.
func (e *Element) Value() js.Value {
	return e.v
}

func (e *Element) TagName() string {
	return e.v.Get("tagName").String()
}

func (e *Element) TextContent() string {
	return e.v.Get("textContent").String()
}

func (e *Element) SetTextContent(text string) {
	e.v.Set("textContent", text)
}

func (e *Element) Display() string {
	return e.v.Get("style").Get("display").String()
}

func (e *Element) SetDisplay(value string) {
	e.v.Get("style").Set("display", value)
}

func (e *Element) ElementsByClassName(class string) []spendtable.Element {
	return collect(e.v.Call("getElementsByClassName", class))
}

func (e *Element) QuerySelector(selector string) spendtable.Element {
	return Wrap(e.v.Call("querySelector", selector))
}

func (e *Element) QuerySelectorAll(selector string) []spendtable.Element {
	return collect(e.v.Call("querySelectorAll", selector))
}

func (e *Element) SelectedValue() string {
	idx := e.v.Get("selectedIndex").Int()
	if idx < 0 {
		return ""
	}
	return e.v.Get("options").Index(idx).Get("value").String()
}

func (e *Element) OptionValues() []string {
	opts := e.v.Get("options")
	n := opts.Length()
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, opts.Index(i).Get("value").String())
	}
	return out
}

// AddOption appends an option; the label is set as text, not markup.
func (e *Element) AddOption(value, label string) {
	opt := js.Global().Get("document").Call("createElement", "option")
	opt.Set("value", value)
	opt.Set("textContent", label)
	e.v.Call("appendChild", opt)
}

// collect copies an HTMLCollection or NodeList.
func collect(list js.Value) []spendtable.Element {
	n := list.Length()
	out := make([]spendtable.Element, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &Element{v: list.Index(i)})
	}
	return out
}
