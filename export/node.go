// Package export re-ingests N-Triples text and serializes it as Turtle.
//
// The reader parses flat N-Triples statements into structured nodes carrying
// deduplication keys; the serializer groups parsed triples by subject, orders
// them canonically, folds RDF lists into bracket syntax, and renders a
// prefixed document. Serialization results are memoized by exact input text.
package export

import "strings"

// NodeKind identifies RDF node types.
type NodeKind uint8

const (
	// NodeURI is a full URI reference.
	NodeURI NodeKind = iota
	// NodeBlank is a document-scoped blank node.
	NodeBlank
	// NodeLiteral is a string literal with optional datatype or language.
	NodeLiteral
)

// Node is a parsed RDF node. Key returns the deduplication key: the
// angle-bracketed URI, the raw blank-node token, or the fully serialized
// literal, so two literals differing only in datatype stay distinct.
type Node interface {
	Kind() NodeKind
	Key() string
}

// URINode is a URI reference with its shortened CURIE form, when a declared
// namespace prefixes it.
type URINode struct {
	// Value is the full URI.
	Value string
	// Curie is the shortened form, empty when no namespace matches.
	Curie string
}

// Kind returns NodeURI.
func (n URINode) Kind() NodeKind { return NodeURI }

// Key returns the angle-bracketed URI.
func (n URINode) Key() string { return "<" + n.Value + ">" }

// BlankNode is a blank node with its local identifier.
type BlankNode struct {
	// ID is the identifier after the "_:" marker.
	ID string
}

// Kind returns NodeBlank.
func (n BlankNode) Kind() NodeKind { return NodeBlank }

// Key returns the raw blank-node token.
func (n BlankNode) Key() string { return "_:" + n.ID }

// LiteralNode is a literal value. Datatype and Lang are mutually exclusive.
type LiteralNode struct {
	// Value is the unescaped literal text.
	Value string
	// Datatype is the full datatype URI, empty when absent.
	Datatype string
	// Lang is the language tag, empty when absent.
	Lang string
}

// Kind returns NodeLiteral.
func (n LiteralNode) Kind() NodeKind { return NodeLiteral }

// Key returns the full serialized literal form.
func (n LiteralNode) Key() string {
	key := `"` + EscapeLiteral(n.Value) + `"`
	if n.Datatype != "" {
		key += "^^<" + n.Datatype + ">"
	} else if n.Lang != "" {
		key += "@" + n.Lang
	}
	return key
}

// Triple is one parsed N-Triples statement.
type Triple struct {
	Subject   Node
	Predicate URINode
	Object    Node
}

// key is the statement-level deduplication key.
func (t Triple) key() string {
	return t.Subject.Key() + " " + t.Predicate.Key() + " " + t.Object.Key()
}

// EscapeLiteral escapes a literal value for N-Triples serialization.
func EscapeLiteral(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\r", `\r`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	return s
}

// UnescapeLiteral reverses EscapeLiteral. The backslash is unescaped last to
// avoid double-unescaping.
func UnescapeLiteral(s string) string {
	s = strings.ReplaceAll(s, `\t`, "\t")
	s = strings.ReplaceAll(s, `\r`, "\r")
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\\`, `\`)
	return s
}
