package diagram

import (
	"encoding/json"
	"fmt"
	"os"
)

// Document is a complete diagram: the domain name, the prefix table, and the
// element graph.
type Document struct {
	Domain   string
	Prefixes map[string]string
	Elements map[string]Element
}

// rawDocument mirrors the on-disk JSON shape before element discrimination.
type rawDocument struct {
	Domain   string                     `json:"domain"`
	Prefixes map[string]string          `json:"prefixes"`
	Elements map[string]json.RawMessage `json:"elements"`
}

// rawElement carries only the discriminator.
type rawElement struct {
	Type string `json:"type"`
}

// Parse decodes a diagram document from JSON.
func Parse(data []byte) (*Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse diagram document: %w", err)
	}

	doc := &Document{
		Domain:   raw.Domain,
		Prefixes: raw.Prefixes,
		Elements: make(map[string]Element, len(raw.Elements)),
	}
	if doc.Prefixes == nil {
		doc.Prefixes = map[string]string{}
	}

	for id, msg := range raw.Elements {
		el, err := parseElement(id, msg)
		if err != nil {
			return nil, fmt.Errorf("parse element %q: %w", id, err)
		}
		doc.Elements[id] = el
	}

	return doc, nil
}

// Load reads and parses a diagram document from a file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read diagram file: %w", err)
	}
	return Parse(data)
}

func parseElement(id string, msg json.RawMessage) (Element, error) {
	var disc rawElement
	if err := json.Unmarshal(msg, &disc); err != nil {
		return nil, err
	}

	var el Element
	switch disc.Type {
	case "rectangle":
		el = &Rectangle{}
	case "diamond":
		el = &Diamond{}
	case "arrow":
		el = &Arrow{}
	case "text":
		el = &Text{}
	case "tree":
		el = &Tree{}
	default:
		return nil, fmt.Errorf("unknown element type %q", disc.Type)
	}

	if err := json.Unmarshal(msg, el); err != nil {
		return nil, err
	}

	// The map key is authoritative for identity.
	switch e := el.(type) {
	case *Rectangle:
		e.Ident = id
	case *Diamond:
		e.Ident = id
	case *Arrow:
		e.Ident = id
	case *Text:
		e.Ident = id
	case *Tree:
		e.Ident = id
	}

	return el, nil
}

// MarshalJSON encodes the document in the on-disk JSON shape.
func (d *Document) MarshalJSON() ([]byte, error) {
	elements := make(map[string]any, len(d.Elements))
	for id, el := range d.Elements {
		elements[id] = taggedElement{Type: el.Kind().String(), Element: el}
	}
	return json.Marshal(map[string]any{
		"domain":   d.Domain,
		"prefixes": d.Prefixes,
		"elements": elements,
	})
}

// taggedElement adds the type discriminator when encoding.
type taggedElement struct {
	Type    string `json:"type"`
	Element any    `json:"-"`
}

// MarshalJSON flattens the element fields next to the discriminator.
func (t taggedElement) MarshalJSON() ([]byte, error) {
	inner, err := json.Marshal(t.Element)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(inner, &fields); err != nil {
		return nil, err
	}
	fields["type"] = t.Type
	return json.Marshal(fields)
}
