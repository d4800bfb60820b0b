package diagram

import "github.com/google/uuid"

// Builder constructs diagram documents programmatically, minting unique
// element identifiers. It is the companion to Parse for callers (tests, the
// serve API) that assemble diagrams in code.
type Builder struct {
	doc *Document
}

// NewBuilder creates a builder for a diagram in the given domain.
func NewBuilder(domain string, prefixes map[string]string) *Builder {
	p := make(map[string]string, len(prefixes))
	for name, ns := range prefixes {
		p[name] = ns
	}
	return &Builder{doc: &Document{
		Domain:   domain,
		Prefixes: p,
		Elements: map[string]Element{},
	}}
}

func (b *Builder) newID() string {
	return uuid.NewString()
}

// Rectangle adds a rectangle element and returns its identifier.
func (b *Builder) Rectangle(text string) string {
	id := b.newID()
	b.doc.Elements[id] = &Rectangle{Ident: id, Text: text}
	return id
}

// Diamond adds a diamond element and returns its identifier.
func (b *Builder) Diamond(text string) string {
	id := b.newID()
	b.doc.Elements[id] = &Diamond{Ident: id, Text: text}
	return id
}

// Arrow adds an arrow element between two elements and returns its identifier.
func (b *Builder) Arrow(text, source, target string) string {
	id := b.newID()
	b.doc.Elements[id] = &Arrow{Ident: id, Text: text, Source: source, Target: target}
	return id
}

// Text adds a free-form text element and returns its identifier.
func (b *Builder) Text(value string) string {
	id := b.newID()
	b.doc.Elements[id] = &Text{Ident: id, Value: value}
	return id
}

// Tree adds a tree element over previously added diamonds and returns its
// identifier.
func (b *Builder) Tree(root string, items []TreeItem) string {
	id := b.newID()
	b.doc.Elements[id] = &Tree{Ident: id, Root: root, Items: items}
	return id
}

// Document returns the built document.
func (b *Builder) Document() *Document {
	return b.doc
}
