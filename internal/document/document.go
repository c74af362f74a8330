// Package document provides a small query interface over parsed HTML.
//
// Parsers in this module only need to find a node by CSS selector, list
// matching nodes, and read text or attributes. Keeping that behind the Node
// interface lets the parsing rules be tested against literal HTML strings
// without knowing which HTML library built the tree.
//
// Design decision: The implementation uses goquery because its CSS
// selectors (via cascadia) express class combinations such as
// "div.twelve.columns" directly, while x/net/html alone would need a
// hand-written matcher for every rule.
package document

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrNilNode is returned when a nil node is passed where a document is required.
var ErrNilNode = errors.New("document: nil node")

// Node is a single element (or the document root) of a parsed HTML tree.
type Node interface {
	// Find returns the first descendant matching the CSS selector.
	Find(selector string) (Node, bool)

	// FindAll returns all descendants matching the CSS selector in
	// document order.
	FindAll(selector string) []Node

	// Text returns the combined text of the node and its descendants.
	Text() string

	// Attr returns the value of the named attribute.
	Attr(name string) (string, bool)

	// TextFragments returns the text of the node's direct text children,
	// in document order. Text nested in child elements is not included.
	TextFragments() []string
}

// Parse reads an HTML document. The reader must yield UTF-8.
func Parse(r io.Reader) (Node, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &selection{sel: doc.Selection}, nil
}

// ParseString parses an HTML document held in memory.
func ParseString(s string) (Node, error) {
	return Parse(strings.NewReader(s))
}

// selection adapts a single-node goquery selection to Node.
type selection struct {
	sel *goquery.Selection
}

// Find returns the first descendant matching selector.
func (s *selection) Find(selector string) (Node, bool) {
	found := s.sel.Find(selector).First()
	if found.Length() == 0 {
		return nil, false
	}
	return &selection{sel: found}, true
}

// FindAll returns every descendant matching selector.
func (s *selection) FindAll(selector string) []Node {
	found := s.sel.Find(selector)
	nodes := make([]Node, 0, found.Length())
	found.Each(func(_ int, item *goquery.Selection) {
		nodes = append(nodes, &selection{sel: item})
	})
	return nodes
}

// Text returns the text content of the node.
func (s *selection) Text() string {
	return s.sel.Text()
}

// Attr returns an attribute value.
func (s *selection) Attr(name string) (string, bool) {
	return s.sel.Attr(name)
}

// TextFragments returns the node's direct text children.
func (s *selection) TextFragments() []string {
	fragments := make([]string, 0)
	for _, n := range s.sel.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				fragments = append(fragments, c.Data)
			}
		}
	}
	return fragments
}
