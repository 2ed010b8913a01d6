// Package htmldom adapts golang.org/x/net/html trees to the spendtable
// DOM contract, so the table component can run on a parsed page.
package htmldom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"spending/internal/spendtable"
)

var (
	_ spendtable.Document = (*Document)(nil)
	_ spendtable.Select   = (*Element)(nil)
)

// Document is a parsed HTML page.
type Document struct {
	root *html.Node
}

// Parse reads a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString is Parse for an in-memory page.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// GetElementByID implements spendtable.Document.
func (d *Document) GetElementByID(id string) spendtable.Element {
	n := findFirst(d.root, func(n *html.Node) bool { return attr(n, "id") == id })
	return wrap(n)
}

// QuerySelector implements spendtable.Document.
func (d *Document) QuerySelector(selector string) spendtable.Element {
	m := parseSelector(selector)
	return wrap(findFirst(d.root, m.match))
}

// Render writes the current tree as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// Element is an element node of a Document.
type Element struct {
	n *html.Node
}

// wrap keeps a missing node a nil interface rather than a typed nil.
func wrap(n *html.Node) spendtable.Element {
	if n == nil {
		return nil
	}
	return &Element{n: n}
}

func wrapAll(ns []*html.Node) []spendtable.Element {
	out := make([]spendtable.Element, 0, len(ns))
	for _, n := range ns {
		out = append(out, &Element{n: n})
	}
	return out
}

// Node exposes the underlying html node.
func (e *Element) Node() *html.Node {
	return e.n
}

func (e *Element) TagName() string {
	return strings.ToUpper(e.n.Data)
}

func (e *Element) TextContent() string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.n)
	return sb.String()
}

func (e *Element) SetTextContent(text string) {
	for c := e.n.FirstChild; c != nil; {
		next := c.NextSibling
		e.n.RemoveChild(c)
		c = next
	}
	if text != "" {
		e.n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

func (e *Element) Display() string {
	for _, decl := range styleDecls(attr(e.n, "style")) {
		if decl[0] == "display" {
			return decl[1]
		}
	}
	return ""
}

func (e *Element) SetDisplay(value string) {
	var parts []string
	for _, decl := range styleDecls(attr(e.n, "style")) {
		if decl[0] == "display" {
			continue
		}
		parts = append(parts, decl[0]+": "+decl[1])
	}
	if value != "" {
		parts = append(parts, "display: "+value)
	}
	if len(parts) == 0 {
		removeAttr(e.n, "style")
		return
	}
	setAttr(e.n, "style", strings.Join(parts, "; ")+";")
}

func (e *Element) ElementsByClassName(class string) []spendtable.Element {
	return wrapAll(findAll(e.n, func(n *html.Node) bool { return hasClass(n, class) }))
}

func (e *Element) QuerySelector(selector string) spendtable.Element {
	m := parseSelector(selector)
	return wrap(findFirst(e.n, m.match))
}

func (e *Element) QuerySelectorAll(selector string) []spendtable.Element {
	m := parseSelector(selector)
	return wrapAll(findAll(e.n, m.match))
}

// SelectedValue returns the value of the selected option, the first option
// when none is marked selected.
func (e *Element) SelectedValue() string {
	opts := e.options()
	if len(opts) == 0 {
		return ""
	}
	chosen := opts[0]
	for _, o := range opts {
		if hasAttr(o, "selected") {
			chosen = o
			break
		}
	}
	return optionValue(chosen)
}

func (e *Element) OptionValues() []string {
	var out []string
	for _, o := range e.options() {
		out = append(out, optionValue(o))
	}
	return out
}

func (e *Element) AddOption(value, label string) {
	opt := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Option,
		Data:     "option",
		Attr:     []html.Attribute{{Key: "value", Val: value}},
	}
	opt.AppendChild(&html.Node{Type: html.TextNode, Data: label})
	e.n.AppendChild(opt)
}

// Choose marks the option with value as the only selected one. It reports
// false when the select has no such option.
func (e *Element) Choose(value string) bool {
	found := false
	for _, o := range e.options() {
		removeAttr(o, "selected")
		if !found && optionValue(o) == value {
			setAttr(o, "selected", "")
			found = true
		}
	}
	return found
}

func (e *Element) options() []*html.Node {
	return findAll(e.n, func(n *html.Node) bool { return n.Data == "option" })
}

func optionValue(o *html.Node) string {
	if hasAttr(o, "value") {
		return attr(o, "value")
	}
	return strings.TrimSpace((&Element{n: o}).TextContent())
}

// findFirst searches the descendants of root (root excluded) in document order.
func findFirst(root *html.Node, pred func(*html.Node) bool) *html.Node {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && pred(c) {
			return c
		}
		if n := findFirst(c, pred); n != nil {
			return n
		}
	}
	return nil
}

func findAll(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && pred(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(root)
	return out
}
