// Package spendtable implements filtering and the running total of the
// spending table rendered by the web server.
//
// The component works against the small Document/Element contract below so
// the same code drives the browser DOM (via syscall/js, see package jsdom)
// and parsed HTML documents (package htmldom).
package spendtable

import "strings"

// Element is the part of a DOM element the table component touches.
type Element interface {
	TagName() string
	TextContent() string
	SetTextContent(text string)

	// Display returns the inline style display value ("" when unset).
	Display() string
	SetDisplay(value string)

	// ElementsByClassName returns descendants carrying class, in document order.
	ElementsByClassName(class string) []Element
	// QuerySelector returns the first descendant matching selector, or nil.
	QuerySelector(selector string) Element
	QuerySelectorAll(selector string) []Element
}

// Select is a dropdown element.
type Select interface {
	Element
	SelectedValue() string
	OptionValues() []string
	AddOption(value, label string)
}

// Document is the page holding the table.
type Document interface {
	// GetElementByID returns nil when no element has the id.
	GetElementByID(id string) Element
	QuerySelector(selector string) Element
}

// AsSelect reports whether el is a select element and returns it as one.
func AsSelect(el Element) (Select, bool) {
	if el == nil || !strings.EqualFold(el.TagName(), "select") {
		return nil, false
	}
	s, ok := el.(Select)
	return s, ok
}
