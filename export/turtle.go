package export

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/theengineear/upper-doodle-sub000/vocabulary/w3c"
)

// knownPredicateOrder fixes the sort position of well-known predicates within
// a subject block, matched on the predicate's local name. Unknown predicates
// sort alphabetically after all known ones.
var knownPredicateOrder = []string{
	"type",
	"name",
	"label",
	"description",
	"minCount",
	"maxCount",
	"datatype",
	"class",
	"property",
	"oneOf",
	"primaryKey",
	"first",
	"rest",
}

var knownPredicateIndex = func() map[string]int {
	m := make(map[string]int, len(knownPredicateOrder))
	for i, name := range knownPredicateOrder {
		m[name] = i
	}
	return m
}()

// turtleCache memoizes serialization results by exact input. Inputs are
// immutable text snapshots, so entries never go stale.
var turtleCache = struct {
	sync.RWMutex
	m map[string]string
}{m: map[string]string{}}

// Turtle serializes an N-Triples text block as a canonical, prefixed Turtle
// document. Results are memoized by exact input; the same input always
// returns the identical cached string.
func Turtle(prefixes map[string]string, nTriples string) (string, error) {
	key := cacheKey(prefixes, nTriples)

	turtleCache.RLock()
	cached, ok := turtleCache.m[key]
	turtleCache.RUnlock()
	if ok {
		return cached, nil
	}

	out, err := serialize(prefixes, nTriples)
	if err != nil {
		return "", err
	}

	turtleCache.Lock()
	turtleCache.m[key] = out
	turtleCache.Unlock()
	return out, nil
}

func cacheKey(prefixes map[string]string, nTriples string) string {
	names := make([]string, 0, len(prefixes))
	for name := range prefixes {
		names = append(names, name)
	}
	sort.Strings(names)
	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(prefixes[name])
		sb.WriteByte('\n')
	}
	sb.WriteByte(0)
	sb.WriteString(nTriples)
	return sb.String()
}

// pair is one (predicate, object) belonging to a subject group.
type pair struct {
	pred URINode
	obj  Node
}

// subjectGroup is a subject plus its ordered predicate/object pairs.
type subjectGroup struct {
	subject Node
	pairs   []pair
}

type turtleDoc struct {
	groups    map[string]*subjectGroup
	order     []string // group keys in sorted order
	listNodes map[string]bool
	shorten   *shortener
}

func serialize(prefixes map[string]string, nTriples string) (string, error) {
	triples, err := ParseNTriples(prefixes, nTriples)
	if err != nil {
		return "", fmt.Errorf("serialize turtle: %w", err)
	}

	doc := &turtleDoc{
		groups:    map[string]*subjectGroup{},
		listNodes: map[string]bool{},
		shorten:   newShortener(prefixes),
	}

	seen := map[string]bool{}
	for _, t := range triples {
		if seen[t.key()] {
			continue
		}
		seen[t.key()] = true

		key := t.Subject.Key()
		grp, ok := doc.groups[key]
		if !ok {
			grp = &subjectGroup{subject: t.Subject}
			doc.groups[key] = grp
		}
		grp.pairs = append(grp.pairs, pair{pred: t.Predicate, obj: t.Object})
	}

	for key, grp := range doc.groups {
		sortPairs(grp.pairs)
		if grp.subject.Kind() == NodeBlank && isListGroup(grp) {
			doc.listNodes[key] = true
		}
		doc.order = append(doc.order, key)
	}
	sort.Strings(doc.order)

	return doc.render(prefixes), nil
}

func localName(uri string) string {
	if idx := strings.LastIndexAny(uri, "#/"); idx >= 0 {
		return uri[idx+1:]
	}
	return uri
}

func isRDFTerm(n URINode, local string) bool {
	return n.Curie == "rdf:"+local || n.Value == w3c.RDFNamespace+local
}

func isListGroup(grp *subjectGroup) bool {
	hasFirst, hasRest := false, false
	for _, p := range grp.pairs {
		if isRDFTerm(p.pred, "first") {
			hasFirst = true
		}
		if isRDFTerm(p.pred, "rest") {
			hasRest = true
		}
	}
	return hasFirst && hasRest
}

// sortPairs orders predicates by the known-order list, then alphabetically;
// ties between identical predicates break on the object's shortened form.
func sortPairs(pairs []pair) {
	sort.SliceStable(pairs, func(i, j int) bool {
		pi, pj := pairs[i].pred, pairs[j].pred
		ki, iKnown := knownPredicateIndex[localName(pi.Value)]
		kj, jKnown := knownPredicateIndex[localName(pj.Value)]
		switch {
		case iKnown && jKnown && ki != kj:
			return ki < kj
		case iKnown != jKnown:
			return iKnown
		case !iKnown && !jKnown && predToken(pi) != predToken(pj):
			return predToken(pi) < predToken(pj)
		case iKnown && jKnown && ki == kj && pi.Value != pj.Value:
			return predToken(pi) < predToken(pj)
		}
		return objSortKey(pairs[i].obj) < objSortKey(pairs[j].obj)
	})
}

func predToken(p URINode) string {
	if isRDFTerm(p, "type") {
		return "a"
	}
	if p.Curie != "" {
		return p.Curie
	}
	return "<" + p.Value + ">"
}

func objSortKey(n Node) string {
	switch o := n.(type) {
	case URINode:
		if o.Curie != "" {
			return o.Curie
		}
		return "<" + o.Value + ">"
	}
	return n.Key()
}

func (d *turtleDoc) render(prefixes map[string]string) string {
	var sb strings.Builder

	names := make([]string, 0, len(prefixes))
	width := 0
	for name := range prefixes {
		names = append(names, name)
		if len(name) > width {
			width = len(name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("@prefix %-*s <%s> .\n", width+1, name+":", prefixes[name]))
	}

	for _, key := range d.order {
		if d.listNodes[key] {
			continue
		}
		grp := d.groups[key]

		sb.WriteString("\n")
		sb.WriteString(d.subjectToken(grp.subject))
		sb.WriteString("\n")

		predWidth := 0
		for _, p := range grp.pairs {
			if w := len(predToken(p.pred)); w > predWidth {
				predWidth = w
			}
		}
		for _, p := range grp.pairs {
			sb.WriteString(fmt.Sprintf("    %-*s %s ;\n", predWidth, predToken(p.pred), d.objectToken(p.obj, map[string]bool{})))
		}
		sb.WriteString(".\n")
	}

	return sb.String()
}

func (d *turtleDoc) subjectToken(n Node) string {
	switch s := n.(type) {
	case URINode:
		if s.Curie != "" {
			return s.Curie
		}
		return "<" + s.Value + ">"
	case BlankNode:
		return "_:" + s.ID
	}
	return n.Key()
}

// objectToken renders an object node, folding list-node blank nodes inline.
// visited guards against cyclic rest-chains.
func (d *turtleDoc) objectToken(n Node, visited map[string]bool) string {
	switch o := n.(type) {
	case URINode:
		if o.Curie != "" {
			return o.Curie
		}
		return "<" + o.Value + ">"
	case BlankNode:
		if d.listNodes[o.Key()] {
			return d.renderList(o, visited)
		}
		return "_:" + o.ID
	case LiteralNode:
		return formatLiteral(o, d.shortenDatatype)
	}
	return n.Key()
}

func (d *turtleDoc) shortenDatatype(uri string) string {
	return d.shorten.curie(uri)
}

// renderList follows the first/rest chain from head, rendering "( a b c )".
// A broken or missing link truncates the list silently at the break.
func (d *turtleDoc) renderList(head BlankNode, visited map[string]bool) string {
	var items []string
	node := head
	for {
		key := node.Key()
		if visited[key] {
			break
		}
		visited[key] = true

		grp, ok := d.groups[key]
		if !ok || !d.listNodes[key] {
			break
		}

		var firstObj, restObj Node
		for _, p := range grp.pairs {
			if firstObj == nil && isRDFTerm(p.pred, "first") {
				firstObj = p.obj
			}
			if restObj == nil && isRDFTerm(p.pred, "rest") {
				restObj = p.obj
			}
		}
		if firstObj == nil {
			break
		}
		items = append(items, d.objectToken(firstObj, visited))

		rest, ok := restObj.(BlankNode)
		if !ok {
			// A URI rest is either the list terminator or a broken link;
			// both end the walk.
			break
		}
		node = rest
	}

	return "( " + strings.Join(items, " ") + " )"
}

var (
	integerForm = regexp.MustCompile(`^[+-]?\d+$`)
	decimalForm = regexp.MustCompile(`^[+-]?\d+\.\d+$`)
	doubleForm  = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)[eE][+-]?\d+$`)
	booleanForm = regexp.MustCompile(`^(true|false)$`)
)

// bareLiteral reports whether the literal's datatype and lexical form allow
// unquoted rendering.
func bareLiteral(l LiteralNode) bool {
	switch localName(l.Datatype) {
	case "integer":
		return integerForm.MatchString(l.Value)
	case "decimal":
		return decimalForm.MatchString(l.Value)
	case "double":
		return doubleForm.MatchString(l.Value)
	case "boolean":
		return booleanForm.MatchString(l.Value)
	}
	return false
}

func formatLiteral(l LiteralNode, shorten func(string) string) string {
	if bareLiteral(l) {
		return l.Value
	}

	var token string
	if strings.Contains(l.Value, "\n") || len(l.Value) > 80 {
		token = blockLiteral(l.Value)
	} else {
		token = `"` + escapeInline(l.Value) + `"`
	}

	if l.Datatype != "" {
		if curie := shorten(l.Datatype); curie != "" {
			token += "^^" + curie
		} else {
			token += "^^<" + l.Datatype + ">"
		}
	} else if l.Lang != "" {
		token += "@" + l.Lang
	}
	return token
}

func escapeInline(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	s = strings.ReplaceAll(s, "\r", `\r`)
	return s
}

// blockLiteral renders a multi-line or long value as a triple-quoted block at
// an 8-space indent. Long single-line text is word-wrapped near 80 columns.
func blockLiteral(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)

	var lines []string
	if strings.Contains(value, "\n") {
		lines = strings.Split(value, "\n")
	} else {
		lines = wordWrap(value, 80)
	}

	var sb strings.Builder
	sb.WriteString(`"""`)
	for _, line := range lines {
		sb.WriteString("\n        ")
		sb.WriteString(line)
	}
	sb.WriteString("\n        ")
	sb.WriteString(`"""`)
	return sb.String()
}

func wordWrap(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{s}
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	return append(lines, line)
}
