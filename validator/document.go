package validator

import (
	"fmt"
	"strings"

	"github.com/agentflare-ai/go-xmldom"
)

// Document is the parsed, position-aware representation of one payment file.
// It is immutable once parsed and owned by the pipeline invocation that
// parsed it.
type Document struct {
	Name string
	Raw  []byte

	dom xmldom.Document
}

// ParseDocument decodes raw XML bytes into a Document.
func ParseDocument(name string, raw []byte) (*Document, error) {
	decoder := xmldom.NewDecoderFromBytes(raw)
	dom, err := decoder.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	return &Document{Name: name, Raw: raw, dom: dom}, nil
}

// DOM exposes the underlying tree for schema validation.
func (d *Document) DOM() xmldom.Document { return d.dom }

// Root returns the document element, or nil for an empty document.
func (d *Document) Root() xmldom.Element {
	if d.dom == nil {
		return nil
	}
	return d.dom.DocumentElement()
}

// Namespace returns the root element's namespace URI.
func (d *Document) Namespace() string {
	root := d.Root()
	if root == nil {
		return ""
	}
	return string(root.NamespaceURI())
}

// FindAll returns, in document order, every element reachable by the given
// path. The first segment matches any descendant of the root; the remaining
// segments are strict child steps, mirroring the .//a/b/c lookups the rule
// battery needs. Namespace prefixes are ignored; matching is by local name.
func (d *Document) FindAll(path string) []xmldom.Element {
	root := d.Root()
	if root == nil {
		return nil
	}
	segs := strings.Split(path, "/")
	var heads []xmldom.Element
	walkElements(root, func(e xmldom.Element) {
		if string(e.LocalName()) == segs[0] {
			heads = append(heads, e)
		}
	})
	matches := heads
	for _, seg := range segs[1:] {
		var next []xmldom.Element
		for _, e := range matches {
			next = append(next, childrenByName(e, seg)...)
		}
		matches = next
	}
	return matches
}

// First returns the first element matching path, or nil.
func (d *Document) First(path string) xmldom.Element {
	if all := d.FindAll(path); len(all) > 0 {
		return all[0]
	}
	return nil
}

// walkElements recursively walks all elements in the tree
func walkElements(elem xmldom.Element, fn func(xmldom.Element)) {
	if elem == nil {
		return
	}
	fn(elem)
	children := elem.Children()
	for i := uint(0); i < children.Length(); i++ {
		if child := children.Item(i); child != nil {
			walkElements(child, fn)
		}
	}
}

// childrenByName returns the direct children with the given local name.
func childrenByName(elem xmldom.Element, name string) []xmldom.Element {
	var out []xmldom.Element
	children := elem.Children()
	for i := uint(0); i < children.Length(); i++ {
		if child := children.Item(i); child != nil {
			if string(child.LocalName()) == name {
				out = append(out, child)
			}
		}
	}
	return out
}

// childFirst returns the first direct child with the given local name, or nil.
func childFirst(elem xmldom.Element, name string) xmldom.Element {
	if elem == nil {
		return nil
	}
	if kids := childrenByName(elem, name); len(kids) > 0 {
		return kids[0]
	}
	return nil
}

// nestedFirst follows a chain of first-child steps by local name.
func nestedFirst(elem xmldom.Element, names ...string) xmldom.Element {
	cur := elem
	for _, name := range names {
		cur = childFirst(cur, name)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// elementText returns the trimmed text content of an element.
func elementText(elem xmldom.Element) string {
	if elem == nil {
		return ""
	}
	return strings.TrimSpace(string(elem.TextContent()))
}

// elementLine returns the 1-based source line of an element, 0 if unknown.
func elementLine(elem xmldom.Element) int {
	if elem == nil {
		return 0
	}
	line, _, _ := elem.Position()
	return line
}
