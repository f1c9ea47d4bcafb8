package trajectory

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
)

// Readable is an opaque id-tagged annotation attached to a trajectory and
// round-tripped by serialization. The core stores readables verbatim and
// never interprets them.
type Readable interface {
	// readerType returns the serialization tag dispatched on by version-3
	// streams.
	readerType() string

	// payload returns the serialized body written to the stream.
	payload() (string, error)

	cloneReadable() Readable
}

type readableEntry struct {
	id       string
	readable Readable
}

// StringReadable is an annotation whose payload is an opaque string
// (typically JSON).
type StringReadable struct {
	Data string
}

func (r *StringReadable) readerType() string { return "StringReadable" }

func (r *StringReadable) payload() (string, error) { return r.Data, nil }

func (r *StringReadable) cloneReadable() Readable {
	c := *r
	return &c
}

// XMLElement is one node of a hierarchical markup annotation.
type XMLElement struct {
	Name     string
	Attrs    map[string]string
	Text     string
	Children []*XMLElement
}

func (e *XMLElement) clone() *XMLElement {
	c := &XMLElement{Name: e.Name, Text: e.Text}
	if e.Attrs != nil {
		c.Attrs = make(map[string]string, len(e.Attrs))
		for k, v := range e.Attrs {
			c.Attrs[k] = v
		}
	}
	for _, child := range e.Children {
		c.Children = append(c.Children, child.clone())
	}
	return c
}

// writeTo serializes the element as markup.
func (e *XMLElement) writeTo(sb *strings.Builder) {
	sb.WriteByte('<')
	sb.WriteString(e.Name)
	// deterministic attribute order
	keys := make([]string, 0, len(e.Attrs))
	for k := range e.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(sb, " %s=%q", k, e.Attrs[k])
	}
	sb.WriteByte('>')
	xml.EscapeText(sb, []byte(e.Text))
	for _, child := range e.Children {
		child.writeTo(sb)
	}
	sb.WriteString("</")
	sb.WriteString(e.Name)
	sb.WriteByte('>')
}

// HierarchicalReadable is an annotation holding a markup element tree.
type HierarchicalReadable struct {
	Root *XMLElement
}

func (r *HierarchicalReadable) readerType() string { return "HierarchicalXMLReadable" }

// payload wraps the tree in a synthetic root element so the reader always
// has a single element to parse under.
func (r *HierarchicalReadable) payload() (string, error) {
	var sb strings.Builder
	sb.WriteString("<root>")
	if r.Root != nil {
		r.Root.writeTo(&sb)
	}
	sb.WriteString("</root>")
	return sb.String(), nil
}

func (r *HierarchicalReadable) cloneReadable() Readable {
	c := &HierarchicalReadable{}
	if r.Root != nil {
		c.Root = r.Root.clone()
	}
	return c
}

// parseXMLElement parses a markup payload into an element tree. data must
// hold exactly one root element.
func parseXMLElement(data string) (*XMLElement, error) {
	dec := xml.NewDecoder(strings.NewReader(data))
	var root *XMLElement
	var stack []*XMLElement
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch tk := tok.(type) {
		case xml.StartElement:
			e := &XMLElement{Name: tk.Name.Local}
			if len(tk.Attr) > 0 {
				e.Attrs = make(map[string]string, len(tk.Attr))
				for _, a := range tk.Attr {
					e.Attrs[a.Name.Local] = a.Value
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, invalidArgf("markup payload has more than one root element")
				}
				root = e
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, e)
			}
			stack = append(stack, e)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += strings.TrimSpace(string(tk))
			}
		}
	}
	if root == nil {
		return nil, invalidArgf("markup payload has no root element")
	}
	return root, nil
}

// SetReadable attaches an annotation under the given id, replacing any
// existing annotation with that id but keeping the overall order otherwise.
func (t *Trajectory) SetReadable(id string, r Readable) {
	for i := range t.readables {
		if t.readables[i].id == id {
			t.readables[i].readable = r
			return
		}
	}
	t.readables = append(t.readables, readableEntry{id: id, readable: r})
}

// Readable returns the annotation with the given id, or nil.
func (t *Trajectory) Readable(id string) Readable {
	for _, e := range t.readables {
		if e.id == id {
			return e.readable
		}
	}
	return nil
}

// ReadableIDs returns the annotation ids in attachment order.
func (t *Trajectory) ReadableIDs() []string {
	ids := make([]string, len(t.readables))
	for i, e := range t.readables {
		ids[i] = e.id
	}
	return ids
}

// ClearReadables removes all annotations.
func (t *Trajectory) ClearReadables() {
	t.readables = nil
}
