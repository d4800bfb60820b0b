// Package grammar implements the label grammars attached to diagram elements.
//
// Every element's short text is a miniature DSL: rectangles hold a single
// CURIE, diamonds a CURIE plus a type abbreviation, arrows a CURIE plus a
// cardinality range, and so on. Each resolver here is a pure pattern matcher:
// it either returns the parsed fields or reports "no match". Malformed text is
// never an error at this layer; the generator turns non-matches into
// classification, not crashes.
//
// The only side effect any resolver has is recording a successfully resolved
// namespace in the caller-supplied used-prefixes accumulator.
package grammar

import (
	"regexp"
	"strconv"
	"strings"
)

// Abbreviation is one of the four diamond type markers.
type Abbreviation string

const (
	// DirectClass marks a concrete, instantiable class ("DC").
	DirectClass Abbreviation = "DC"
	// SealedClass marks a closed class hierarchy root ("SC").
	SealedClass Abbreviation = "SC"
	// Enumeration marks a value-list class ("E").
	Enumeration Abbreviation = "E"
	// EnumValue marks a member of an enumeration ("V").
	EnumValue Abbreviation = "V"
)

// Curie is a resolved compact identifier.
type Curie struct {
	// Prefix is the prefix name the reference resolved through. For an
	// unprefixed reference this is the domain name.
	Prefix string
	// Reference is the local part after the colon.
	Reference string
	// Namespace is the namespace the prefix resolved to.
	Namespace string
	// URI is the full concatenated form.
	URI string
}

// Diamond is a resolved diamond label.
type Diamond struct {
	Curie Curie
	Abbv  Abbreviation
}

// Cardinality is a resolved arrow cardinality range.
type Cardinality struct {
	Min int
	// Max is meaningful only when Unbounded is false.
	Max       int
	Unbounded bool
}

// Relationship is a resolved diamond-to-diamond arrow label.
type Relationship struct {
	Curie       Curie
	Cardinality Cardinality
}

// Attribute is a resolved diamond-to-rectangle arrow label.
type Attribute struct {
	Curie       Curie
	Cardinality Cardinality
	// PK is the declared primary-key order, zero when absent.
	PK int
}

// Property is a resolved diamond-to-text arrow label.
type Property struct {
	// Predicate is the allow-listed predicate token.
	Predicate string
	// Lang is the language tag, defaulting to "en".
	Lang string
}

var (
	prefixNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.-]*$`)
	referencePattern  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

	diamondPattern          = regexp.MustCompile(`^(\S+) \((DC|SC|E|V)\)$`)
	diamondToDiamondPattern = regexp.MustCompile(`^(\S+) \((\d+)\.\.(\d+|n)\)$`)
	diamondToRectPattern    = regexp.MustCompile(`^(\S+) \((\d+)\.\.(\d+|n)(?: PK([1-9]\d*))?\)$`)
	diamondToTextPattern    = regexp.MustCompile(`^(label|description)(?:@([A-Za-z]+(?:-[A-Za-z0-9]+)*))?$`)

	literalPattern = regexp.MustCompile(
		`(?s)^(?:""".*"""|'''.*'''|"(?:[^"\\\n]|\\.)*"|'(?:[^'\\\n]|\\.)*')` +
			`(?:\^\^<[^<>\s]+>|@[A-Za-z]+(?:-[A-Za-z0-9]+)*)?$`)
)

// ResolveCurie matches "[prefix:]reference" and resolves it against the
// prefix table. An omitted prefix resolves through the domain's namespace; an
// explicit empty prefix (":x") never resolves. On success the namespace is
// recorded in used.
func ResolveCurie(domain string, prefixes map[string]string, used map[string]string, text string) (Curie, bool) {
	prefix := domain
	reference := text

	if idx := strings.Index(text, ":"); idx >= 0 {
		prefix = text[:idx]
		reference = text[idx+1:]
		if prefix == "" || !prefixNamePattern.MatchString(prefix) {
			return Curie{}, false
		}
	}

	if !referencePattern.MatchString(reference) {
		return Curie{}, false
	}

	namespace, ok := prefixes[prefix]
	if !ok || namespace == "" {
		return Curie{}, false
	}

	if used != nil {
		used[prefix] = namespace
	}

	return Curie{
		Prefix:    prefix,
		Reference: reference,
		Namespace: namespace,
		URI:       namespace + reference,
	}, true
}

// ResolveRectangle matches a rectangle label, which is exactly one CURIE.
func ResolveRectangle(domain string, prefixes map[string]string, used map[string]string, text string) (Curie, bool) {
	return ResolveCurie(domain, prefixes, used, text)
}

// ResolveDiamond matches a diamond label of the form "CURIE (ABBV)".
func ResolveDiamond(domain string, prefixes map[string]string, used map[string]string, text string) (Diamond, bool) {
	m := diamondPattern.FindStringSubmatch(text)
	if m == nil {
		return Diamond{}, false
	}
	curie, ok := ResolveCurie(domain, prefixes, used, m[1])
	if !ok {
		return Diamond{}, false
	}
	return Diamond{Curie: curie, Abbv: Abbreviation(m[2])}, true
}

// ResolveDiamondToDiamondArrow matches a relationship arrow label of the form
// "CURIE (min..max)" where max is a decimal integer or "n" for unbounded.
func ResolveDiamondToDiamondArrow(domain string, prefixes map[string]string, used map[string]string, text string) (Relationship, bool) {
	m := diamondToDiamondPattern.FindStringSubmatch(text)
	if m == nil {
		return Relationship{}, false
	}
	curie, ok := ResolveCurie(domain, prefixes, used, m[1])
	if !ok {
		return Relationship{}, false
	}
	card, ok := parseCardinality(m[2], m[3])
	if !ok {
		return Relationship{}, false
	}
	return Relationship{Curie: curie, Cardinality: card}, true
}

// ResolveDiamondToRectangleArrow matches an attribute arrow label of the form
// "CURIE (min..max)" with an optional trailing " PK<n>" inside the
// parentheses declaring a primary-key order.
func ResolveDiamondToRectangleArrow(domain string, prefixes map[string]string, used map[string]string, text string) (Attribute, bool) {
	m := diamondToRectPattern.FindStringSubmatch(text)
	if m == nil {
		return Attribute{}, false
	}
	curie, ok := ResolveCurie(domain, prefixes, used, m[1])
	if !ok {
		return Attribute{}, false
	}
	card, ok := parseCardinality(m[2], m[3])
	if !ok {
		return Attribute{}, false
	}
	pk := 0
	if m[4] != "" {
		pk, _ = strconv.Atoi(m[4])
	}
	return Attribute{Curie: curie, Cardinality: card, PK: pk}, true
}

// ResolveDiamondToTextArrow matches a literal-property arrow label: a bare
// predicate token from a fixed allow-list with an optional "@lang" suffix.
// The default language is "en". Unknown predicates are "no match", not an
// error.
func ResolveDiamondToTextArrow(text string) (Property, bool) {
	m := diamondToTextPattern.FindStringSubmatch(text)
	if m == nil {
		return Property{}, false
	}
	lang := m[2]
	if lang == "" {
		lang = "en"
	}
	return Property{Predicate: m[1], Lang: lang}, true
}

// ValidLiteral reports whether text is a syntactically valid RDF literal:
// single-, double-, or triple-quoted, optionally followed by "^^<datatype>"
// or "@lang". It is used only on the raw text→arrow→text path.
func ValidLiteral(text string) bool {
	return literalPattern.MatchString(text)
}

// Literal is a raw-path literal split into its parts.
type Literal struct {
	// Value is the unquoted body.
	Value string
	// Datatype is the full datatype URI, empty when absent.
	Datatype string
	// Lang is the language tag, empty when absent.
	Lang string
}

// ParseLiteral splits a valid literal into body, datatype, and language tag.
// It returns false when text is not a valid literal.
func ParseLiteral(text string) (Literal, bool) {
	if !ValidLiteral(text) {
		return Literal{}, false
	}

	lit := Literal{}
	body := text

	// Peel a trailing datatype or language suffix.
	if idx := strings.LastIndex(body, "^^<"); idx >= 0 && strings.HasSuffix(body, ">") {
		lit.Datatype = body[idx+3 : len(body)-1]
		body = body[:idx]
	} else if idx := strings.LastIndex(body, "@"); idx > 0 && isQuote(body[idx-1]) {
		lit.Lang = body[idx+1:]
		body = body[:idx]
	}

	switch {
	case strings.HasPrefix(body, `"""`):
		lit.Value = body[3 : len(body)-3]
	case strings.HasPrefix(body, `'''`):
		lit.Value = body[3 : len(body)-3]
	case strings.HasPrefix(body, `"`), strings.HasPrefix(body, `'`):
		lit.Value = unescapeBody(body[1 : len(body)-1])
	}

	return lit, true
}

func isQuote(b byte) bool {
	return b == '"' || b == '\''
}

func unescapeBody(s string) string {
	s = strings.ReplaceAll(s, `\t`, "\t")
	s = strings.ReplaceAll(s, `\r`, "\r")
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\'`, `'`)
	s = strings.ReplaceAll(s, `\\`, `\`)
	return s
}

// IsExternal reports whether text names a resource outside the current
// domain: it contains a colon and the substring before the colon differs from
// the domain name. External elements are suppressed from subject position but
// are never invalid for that reason alone.
func IsExternal(domain, text string) bool {
	idx := strings.Index(text, ":")
	if idx < 0 {
		return false
	}
	return text[:idx] != domain
}

func parseCardinality(minTok, maxTok string) (Cardinality, bool) {
	min, err := strconv.Atoi(minTok)
	if err != nil {
		return Cardinality{}, false
	}
	if maxTok == "n" {
		return Cardinality{Min: min, Unbounded: true}, true
	}
	max, err := strconv.Atoi(maxTok)
	if err != nil {
		return Cardinality{}, false
	}
	return Cardinality{Min: min, Max: max}, true
}
