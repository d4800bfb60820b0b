package export

import (
	"fmt"
	"sort"
	"strings"
)

// ParseNTriples parses a flat N-Triples text block. Each non-blank,
// non-comment line must match "<subject> <predicate> <object> ." with a URI
// or blank-node subject, a URI predicate, and a URI, blank-node, or literal
// object. Any malformed line raises a descriptive error carrying the source
// line. The prefix table is used only to record shortened CURIE forms on URI
// nodes.
func ParseNTriples(prefixes map[string]string, text string) ([]Triple, error) {
	shorten := newShortener(prefixes)

	var triples []Triple
	for i, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		triple, err := parseLine(shorten, trimmed)
		if err != nil {
			return nil, fmt.Errorf("parse n-triples line %d: %w: %q", i+1, err, trimmed)
		}
		triples = append(triples, triple)
	}
	return triples, nil
}

// shortener maps a URI to its CURIE form using the first declared namespace
// (in sorted prefix-name order) that is a string-prefix of the URI.
type shortener struct {
	names    []string
	prefixes map[string]string
}

func newShortener(prefixes map[string]string) *shortener {
	names := make([]string, 0, len(prefixes))
	for name := range prefixes {
		names = append(names, name)
	}
	sort.Strings(names)
	return &shortener{names: names, prefixes: prefixes}
}

func (s *shortener) curie(uri string) string {
	for _, name := range s.names {
		ns := s.prefixes[name]
		if ns != "" && strings.HasPrefix(uri, ns) {
			return name + ":" + strings.TrimPrefix(uri, ns)
		}
	}
	return ""
}

// cursor scans a single statement line.
type cursor struct {
	shorten *shortener
	input   string
	pos     int
}

func parseLine(shorten *shortener, line string) (Triple, error) {
	c := &cursor{shorten: shorten, input: line}

	subject, err := c.parseSubject()
	if err != nil {
		return Triple{}, err
	}
	predicate, err := c.parseURI()
	if err != nil {
		return Triple{}, err
	}
	object, err := c.parseObject()
	if err != nil {
		return Triple{}, err
	}

	c.skipSpace()
	if !c.consume('.') {
		return Triple{}, fmt.Errorf("expected '.' terminator")
	}
	c.skipSpace()
	if c.pos != len(c.input) {
		return Triple{}, fmt.Errorf("trailing content after '.'")
	}

	return Triple{Subject: subject, Predicate: predicate, Object: object}, nil
}

func (c *cursor) skipSpace() {
	for c.pos < len(c.input) && (c.input[c.pos] == ' ' || c.input[c.pos] == '\t') {
		c.pos++
	}
}

func (c *cursor) consume(ch byte) bool {
	if c.pos < len(c.input) && c.input[c.pos] == ch {
		c.pos++
		return true
	}
	return false
}

func (c *cursor) peek() byte {
	if c.pos < len(c.input) {
		return c.input[c.pos]
	}
	return 0
}

func (c *cursor) parseSubject() (Node, error) {
	c.skipSpace()
	switch c.peek() {
	case '<':
		return c.parseURI()
	case '_':
		return c.parseBlank()
	}
	return nil, fmt.Errorf("subject must be a URI or blank node")
}

func (c *cursor) parseURI() (URINode, error) {
	c.skipSpace()
	if !c.consume('<') {
		return URINode{}, fmt.Errorf("expected '<'")
	}
	start := c.pos
	for c.pos < len(c.input) && c.input[c.pos] != '>' {
		c.pos++
	}
	if c.pos == len(c.input) {
		return URINode{}, fmt.Errorf("unterminated URI")
	}
	value := c.input[start:c.pos]
	c.pos++ // '>'
	return URINode{Value: value, Curie: c.shorten.curie(value)}, nil
}

func (c *cursor) parseBlank() (BlankNode, error) {
	c.skipSpace()
	if !strings.HasPrefix(c.input[c.pos:], "_:") {
		return BlankNode{}, fmt.Errorf("expected '_:'")
	}
	c.pos += 2
	start := c.pos
	for c.pos < len(c.input) && c.input[c.pos] != ' ' && c.input[c.pos] != '\t' && c.input[c.pos] != '.' {
		c.pos++
	}
	if c.pos == start {
		return BlankNode{}, fmt.Errorf("empty blank node identifier")
	}
	return BlankNode{ID: c.input[start:c.pos]}, nil
}

func (c *cursor) parseObject() (Node, error) {
	c.skipSpace()
	switch c.peek() {
	case '<':
		return c.parseURI()
	case '_':
		return c.parseBlank()
	case '"':
		return c.parseLiteral()
	}
	return nil, fmt.Errorf("object must be a URI, blank node, or literal")
}

func (c *cursor) parseLiteral() (LiteralNode, error) {
	if !c.consume('"') {
		return LiteralNode{}, fmt.Errorf("expected '\"'")
	}
	var raw strings.Builder
	for c.pos < len(c.input) {
		ch := c.input[c.pos]
		if ch == '\\' && c.pos+1 < len(c.input) {
			raw.WriteByte(ch)
			raw.WriteByte(c.input[c.pos+1])
			c.pos += 2
			continue
		}
		if ch == '"' {
			break
		}
		raw.WriteByte(ch)
		c.pos++
	}
	if !c.consume('"') {
		return LiteralNode{}, fmt.Errorf("unterminated literal")
	}

	lit := LiteralNode{Value: UnescapeLiteral(raw.String())}

	if strings.HasPrefix(c.input[c.pos:], "^^") {
		c.pos += 2
		dt, err := c.parseURI()
		if err != nil {
			return LiteralNode{}, fmt.Errorf("malformed literal datatype: %w", err)
		}
		lit.Datatype = dt.Value
	} else if c.peek() == '@' {
		c.pos++
		start := c.pos
		for c.pos < len(c.input) && (isAlnum(c.input[c.pos]) || c.input[c.pos] == '-') {
			c.pos++
		}
		if c.pos == start {
			return LiteralNode{}, fmt.Errorf("empty language tag")
		}
		lit.Lang = c.input[start:c.pos]
	}

	return lit, nil
}

func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
