// Package dom is a small typed query layer over goquery: find elements by tag
// name plus attribute filters, then read their text or attributes.
package dom

import (
	"bytes"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Filter reports whether an element node matches an attribute condition.
type Filter func(n *html.Node) bool

// Class matches elements whose class attribute contains token, or equals it verbatim.
func Class(token string) Filter {
	return func(n *html.Node) bool {
		val, ok := attr(n, "class")
		if !ok {
			return false
		}
		if val == token {
			return true
		}
		for _, c := range strings.Fields(val) {
			if c == token {
				return true
			}
		}
		return false
	}
}

// HasAttr matches elements carrying the attribute, whatever its value.
func HasAttr(name string) Filter {
	return func(n *html.Node) bool {
		_, ok := attr(n, name)
		return ok
	}
}

func AttrEquals(name, value string) Filter {
	return func(n *html.Node) bool {
		val, ok := attr(n, name)
		return ok && val == value
	}
}

type Document struct {
	doc *goquery.Document
}

func NewDocument(doc *goquery.Document) *Document {
	return &Document{doc: doc}
}

func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return NewDocument(doc), nil
}

func ParseBytes(b []byte) (*Document, error) {
	return Parse(bytes.NewReader(b))
}

func (d *Document) Root() Element {
	return Element{sel: d.doc.Selection}
}

func (d *Document) FindFirst(tag string, filters ...Filter) (Element, bool) {
	return d.Root().FindFirst(tag, filters...)
}

func (d *Document) FindAll(tag string, filters ...Filter) []Element {
	return d.Root().FindAll(tag, filters...)
}

// Element is a handle to a single node in a parsed document.
type Element struct {
	sel *goquery.Selection
}

func (e Element) match(tag string, filters []Filter) *goquery.Selection {
	sel := e.sel
	if sel == nil {
		sel = &goquery.Selection{}
	}
	return sel.Find(strings.ToLower(tag)).FilterFunction(func(_ int, s *goquery.Selection) bool {
		n := s.Get(0)
		for _, f := range filters {
			if !f(n) {
				return false
			}
		}
		return true
	})
}

// FindFirst returns the first descendant, in document order, with the given tag
// that satisfies every filter.
func (e Element) FindFirst(tag string, filters ...Filter) (Element, bool) {
	found := e.match(tag, filters)
	if found.Length() == 0 {
		return Element{}, false
	}
	return Element{sel: found.First()}, true
}

// FindAll returns every matching descendant in document order. The result is
// never nil.
func (e Element) FindAll(tag string, filters ...Filter) []Element {
	found := e.match(tag, filters)
	out := make([]Element, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		out = append(out, Element{sel: s})
	})
	return out
}

func (e Element) Tag() string {
	if e.sel == nil || e.sel.Length() == 0 {
		return ""
	}
	return e.sel.Get(0).Data
}

func (e Element) Attr(name string) (string, bool) {
	if e.sel == nil {
		return "", false
	}
	return e.sel.Attr(name)
}

// Text concatenates every descendant text node verbatim.
func (e Element) Text() string {
	var buf strings.Builder
	e.eachText(func(s string) {
		buf.WriteString(s)
	})
	return buf.String()
}

// StrippedText trims each descendant text node, drops the empty ones and joins
// the rest with sep.
func (e Element) StrippedText(sep string) string {
	var parts []string
	e.eachText(func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	})
	return strings.Join(parts, sep)
}

func (e Element) eachText(fn func(string)) {
	if e.sel == nil {
		return
	}
	for _, n := range e.sel.Nodes {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walkText(child, fn)
		}
	}
}

// script, style and template bodies are not document text.
var skippedTags = map[string]struct{}{
	"script":   {},
	"style":    {},
	"template": {},
}

func walkText(n *html.Node, fn func(string)) {
	if n == nil {
		return
	}
	switch n.Type {
	case html.TextNode:
		fn(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		if _, skip := skippedTags[n.Data]; skip {
			return
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		walkText(child, fn)
	}
}

func attr(n *html.Node, name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}
