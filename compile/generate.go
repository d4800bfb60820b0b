// Package compile turns a diagram element graph into canonical N-Triples.
//
// Generate walks the graph in a fixed pass order (bootstrap, classes and
// hierarchies, arrows, primary keys) and classifies every element along the
// way. Malformed element text never raises an error; it degrades to
// membership in the Invalid/Ignored sets so callers can render diagnostics
// inline. The only panics are caller contract violations, never user content.
package compile

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/theengineear/upper-doodle-sub000/diagram"
	"github.com/theengineear/upper-doodle-sub000/export"
	"github.com/theengineear/upper-doodle-sub000/grammar"
	"github.com/theengineear/upper-doodle-sub000/vocabulary/upper"
	"github.com/theengineear/upper-doodle-sub000/vocabulary/w3c"
)

// Result is the output of one generation pass.
type Result struct {
	// UsedPrefixes is the subset of the prefix table actually referenced.
	UsedPrefixes map[string]string

	// NTriples is the canonical output: deduplicated, lexicographically
	// sorted, newline-separated statements with a trailing newline. Empty
	// when no triples were produced.
	NTriples string

	// Used holds every element that contributed at least one triple.
	Used map[string]bool

	// Ignored is the complement of Used over all element identifiers.
	Ignored map[string]bool

	// Raw holds elements that took part in a literal text→arrow→text triple.
	Raw map[string]bool

	// Invalid holds elements whose own text failed its grammar or CURIE
	// resolution. Invalidity never cascades from a partner's failure.
	Invalid map[string]bool

	// Keyed holds diamonds participating in a primary-key attribute chain,
	// including diamonds sharing the same resolved class URI.
	Keyed map[string]bool
}

// pkEntry is one harvested primary-key declaration on an attribute arrow.
type pkEntry struct {
	order   int
	attrURI string
	arrowID string
}

type generator struct {
	domain   string
	prefixes map[string]string
	elements map[string]diagram.Element

	used    map[string]string // prefix name → namespace
	triples map[string]bool

	usedEls map[string]bool
	raw     map[string]bool
	invalid map[string]bool

	classURI  map[string]string    // diamond id → resolved class URI
	pkEntries map[string][]pkEntry // diamond id → key entries

	nextBlank int
}

// Generate compiles the element graph into canonical N-Triples plus the five
// classification sets. Supplemental N-Triples text, when non-empty, is merged
// into the same dedup/sort pass before finalizing. The element graph is
// treated read-only.
func Generate(domain string, prefixes map[string]string, elements map[string]diagram.Element, supplemental string) Result {
	g := &generator{
		domain:    domain,
		prefixes:  prefixes,
		elements:  elements,
		used:      map[string]string{},
		triples:   map[string]bool{},
		usedEls:   map[string]bool{},
		raw:       map[string]bool{},
		invalid:   map[string]bool{},
		classURI:  map[string]string{},
		pkEntries: map[string][]pkEntry{},
	}

	g.bootstrap()
	g.classes()
	g.trees()
	g.arrows()
	g.primaryKeys()

	keyed := g.keyed()

	for _, line := range strings.Split(supplemental, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			g.triples[line] = true
		}
	}

	ignored := map[string]bool{}
	for id := range elements {
		if !g.usedEls[id] {
			ignored[id] = true
		}
	}

	return Result{
		UsedPrefixes: g.used,
		NTriples:     g.finalize(),
		Used:         g.usedEls,
		Ignored:      ignored,
		Raw:          g.raw,
		Invalid:      g.invalid,
		Keyed:        keyed,
	}
}

// External reports whether an element names a resource outside the domain.
// It is computed from the element's text alone and is never folded into the
// classification sets.
func External(domain string, el diagram.Element) bool {
	text, ok := elementText(el)
	if !ok {
		return false
	}
	return grammar.IsExternal(domain, text)
}

func elementText(el diagram.Element) (string, bool) {
	switch e := el.(type) {
	case *diagram.Rectangle:
		return e.Text, true
	case *diagram.Diamond:
		return e.Text, true
	case *diagram.Arrow:
		return e.Text, true
	case *diagram.Text:
		return e.Value, true
	}
	return "", false
}

// sortedIDs returns the element identifiers in a deterministic order.
func (g *generator) sortedIDs() []string {
	ids := make([]string, 0, len(g.elements))
	for id := range g.elements {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// termURI resolves a meta-ontology term, preferring the caller's prefix table
// so the Turtle pass can shorten it, falling back to the canonical namespace.
func (g *generator) termURI(prefix, local, fallback string) string {
	if ns, ok := g.prefixes[prefix]; ok && ns != "" {
		g.used[prefix] = ns
		return ns + local
	}
	return fallback + local
}

func (g *generator) rdfTerm(local string) string {
	return "<" + g.termURI("rdf", local, w3c.RDFNamespace) + ">"
}

func (g *generator) upperTerm(local string) string {
	return "<" + g.termURI(upper.Prefix, local, upper.Namespace) + ">"
}

func (g *generator) intLiteral(n int) string {
	return `"` + strconv.Itoa(n) + `"^^<` + g.termURI("xsd", "integer", w3c.XSDNamespace) + ">"
}

func (g *generator) blank() string {
	b := fmt.Sprintf("_:b%d", g.nextBlank)
	g.nextBlank++
	return b
}

func (g *generator) emit(s, p, o string) {
	g.triples[s+" "+p+" "+o+" ."] = true
}

// emitList links subject to an RDF list of items via predicate. Empty lists
// emit nothing.
func (g *generator) emitList(subject, predicate string, items []string) {
	if len(items) == 0 {
		return
	}
	cell := g.blank()
	g.emit(subject, predicate, cell)
	for i, item := range items {
		g.emit(cell, g.rdfTerm("first"), item)
		if i == len(items)-1 {
			g.emit(cell, g.rdfTerm("rest"), g.rdfTerm("nil"))
		} else {
			next := g.blank()
			g.emit(cell, g.rdfTerm("rest"), next)
			cell = next
		}
	}
}

// bootstrap declares the domain model itself. It requires the meta, RDF, and
// domain namespaces to all be declared; any one missing skips the step.
func (g *generator) bootstrap() {
	upperNS, okUpper := g.prefixes[upper.Prefix]
	rdfNS, okRDF := g.prefixes["rdf"]
	domainNS, okDomain := g.prefixes[g.domain]
	if !okUpper || !okRDF || !okDomain {
		return
	}

	g.used[upper.Prefix] = upperNS
	g.used["rdf"] = rdfNS
	g.used[g.domain] = domainNS

	subject := "<" + domainNS + ">"
	g.emit(subject, "<"+rdfNS+"type>", "<"+upperNS+"DomainModel>")
	g.emit(subject, "<"+upperNS+"name>", `"`+export.EscapeLiteral(g.domain)+`"`)
}

// classLocal maps a diamond abbreviation to its meta-ontology class name.
// An unknown abbreviation here is a programmer error: the grammar only ever
// produces the four known values.
func classLocal(abbv grammar.Abbreviation) string {
	switch abbv {
	case grammar.DirectClass:
		return "DirectClass"
	case grammar.SealedClass:
		return "SealedClass"
	case grammar.Enumeration:
		return "Enumeration"
	case grammar.EnumValue:
		return "EnumValue"
	}
	panic(fmt.Sprintf("compile: unknown diamond abbreviation %q", abbv))
}

// classes emits one class-declaration triple per internal diamond. External
// diamonds are suppressed silently; internal diamonds that fail resolution
// become invalid.
func (g *generator) classes() {
	for _, id := range g.sortedIDs() {
		d, ok := g.elements[id].(*diagram.Diamond)
		if !ok {
			continue
		}
		if grammar.IsExternal(g.domain, d.Text) {
			continue
		}
		res, ok := grammar.ResolveDiamond(g.domain, g.prefixes, g.used, d.Text)
		if !ok {
			g.invalid[id] = true
			continue
		}
		g.classURI[id] = res.Curie.URI
		g.emit("<"+res.Curie.URI+">", g.rdfTerm("type"), g.upperTerm(classLocal(res.Abbv)))
		g.usedEls[id] = true
	}
}

// trees emits enumeration value lists. An enumeration tree must be flat
// (every item a direct child of the root) with every item an enum-value
// diamond; any structural violation marks the tree invalid and emits
// nothing. Sealed-class trees are accepted but currently emit no triples.
func (g *generator) trees() {
	for _, id := range g.sortedIDs() {
		tree, ok := g.elements[id].(*diagram.Tree)
		if !ok {
			continue
		}

		root, ok := g.elements[tree.Root].(*diagram.Diamond)
		if !ok {
			g.invalid[id] = true
			continue
		}
		if grammar.IsExternal(g.domain, root.Text) {
			continue
		}
		res, ok := grammar.ResolveDiamond(g.domain, g.prefixes, g.used, root.Text)
		if !ok {
			// The root carries its own invalidity; the tree does not
			// inherit it.
			continue
		}

		switch res.Abbv {
		case grammar.Enumeration:
			g.enumeration(id, tree, res.Curie.URI)
		case grammar.SealedClass:
			// Reserved for class-hierarchy encoding.
		default:
			g.invalid[id] = true
		}
	}
}

func (g *generator) enumeration(treeID string, tree *diagram.Tree, classURI string) {
	items := make([]string, 0, len(tree.Items))
	for _, item := range tree.Items {
		if item.Parent != tree.Root {
			g.invalid[treeID] = true
			return
		}
		d, ok := g.elements[item.Element].(*diagram.Diamond)
		if !ok {
			g.invalid[treeID] = true
			return
		}
		res, ok := grammar.ResolveDiamond(g.domain, g.prefixes, g.used, d.Text)
		if !ok || res.Abbv != grammar.EnumValue {
			g.invalid[treeID] = true
			return
		}
		items = append(items, "<"+res.Curie.URI+">")
	}
	if len(items) == 0 {
		return
	}
	g.emitList("<"+classURI+">", g.upperTerm("oneOf"), items)
	g.usedEls[treeID] = true
}

// arrows dispatches every arrow with both endpoints present on its endpoint
// kinds. Unbindable combinations produce nothing and are never flagged.
func (g *generator) arrows() {
	for _, id := range g.sortedIDs() {
		arrow, ok := g.elements[id].(*diagram.Arrow)
		if !ok || arrow.Source == "" || arrow.Target == "" {
			continue
		}
		src, ok := g.elements[arrow.Source]
		if !ok {
			continue
		}
		tgt, ok := g.elements[arrow.Target]
		if !ok {
			continue
		}

		switch s := src.(type) {
		case *diagram.Text:
			if t, ok := tgt.(*diagram.Text); ok {
				g.rawTriple(arrow, s, t)
			}
		case *diagram.Diamond:
			switch t := tgt.(type) {
			case *diagram.Rectangle:
				g.attribute(arrow, s, t)
			case *diagram.Diamond:
				g.relationship(arrow, s, t)
			case *diagram.Text:
				g.literalProperty(arrow, s, t)
			}
		}
	}
}

// rawTriple handles the text→arrow→text path: turtle-style free RDF. All
// three participants are marked raw unconditionally; each one that fails its
// own resolution becomes invalid. A triple is emitted only when all three
// resolve.
func (g *generator) rawTriple(arrow *diagram.Arrow, src, tgt *diagram.Text) {
	g.raw[arrow.Ident] = true
	g.raw[src.Ident] = true
	g.raw[tgt.Ident] = true

	if grammar.IsExternal(g.domain, src.Value) {
		return
	}

	subject := ""
	if cu, ok := grammar.ResolveCurie(g.domain, g.prefixes, g.used, src.Value); ok {
		subject = "<" + cu.URI + ">"
	} else {
		g.invalid[src.Ident] = true
	}

	predicate := ""
	if cu, ok := grammar.ResolveCurie(g.domain, g.prefixes, g.used, arrow.Text); ok {
		predicate = "<" + cu.URI + ">"
	} else {
		g.invalid[arrow.Ident] = true
	}

	object := ""
	if lit, ok := grammar.ParseLiteral(tgt.Value); ok {
		object = `"` + export.EscapeLiteral(lit.Value) + `"`
		if lit.Datatype != "" {
			object += "^^<" + lit.Datatype + ">"
		} else if lit.Lang != "" {
			object += "@" + lit.Lang
		}
	} else if cu, ok := grammar.ResolveCurie(g.domain, g.prefixes, g.used, tgt.Value); ok {
		object = "<" + cu.URI + ">"
	} else if !grammar.IsExternal(g.domain, tgt.Value) {
		g.invalid[tgt.Ident] = true
	}

	if subject == "" || predicate == "" || object == "" {
		return
	}

	g.emit(subject, predicate, object)
	g.usedEls[arrow.Ident] = true
	g.usedEls[src.Ident] = true
	g.usedEls[tgt.Ident] = true
}

// markBinding flags an element whose own text failed, but only when the
// arrow's source is internal and not itself invalid, and the failed element
// is not external. Invalidity never cascades backward from a bad source, and
// externality is never punished.
func (g *generator) markBinding(srcID, failedID, failedText string) {
	if g.invalid[srcID] {
		return
	}
	if grammar.IsExternal(g.domain, failedText) {
		return
	}
	g.invalid[failedID] = true
}

// attribute handles diamond→rectangle arrows: a datatype property bundle plus
// an optional primary-key entry.
func (g *generator) attribute(arrow *diagram.Arrow, src *diagram.Diamond, tgt *diagram.Rectangle) {
	if grammar.IsExternal(g.domain, src.Text) {
		return
	}

	attr, attrOK := grammar.ResolveDiamondToRectangleArrow(g.domain, g.prefixes, g.used, arrow.Text)
	if !attrOK {
		g.markBinding(src.Ident, arrow.Ident, arrow.Text)
	}
	rect, rectOK := grammar.ResolveRectangle(g.domain, g.prefixes, g.used, tgt.Text)
	if !rectOK {
		g.markBinding(src.Ident, tgt.Ident, tgt.Text)
	}
	classURI, classOK := g.classURI[src.Ident]
	if !attrOK || !rectOK || !classOK {
		return
	}

	prop := "<" + attr.Curie.URI + ">"
	g.emit(prop, g.rdfTerm("type"), g.upperTerm("Attribute"))
	g.emit(prop, g.upperTerm("minCount"), g.intLiteral(attr.Cardinality.Min))
	if !attr.Cardinality.Unbounded {
		g.emit(prop, g.upperTerm("maxCount"), g.intLiteral(attr.Cardinality.Max))
	}
	g.emit(prop, g.upperTerm("datatype"), "<"+rect.URI+">")
	g.emit("<"+classURI+">", g.upperTerm("property"), prop)

	g.usedEls[arrow.Ident] = true
	g.usedEls[src.Ident] = true
	g.usedEls[tgt.Ident] = true

	if attr.PK > 0 {
		g.pkEntries[src.Ident] = append(g.pkEntries[src.Ident], pkEntry{
			order:   attr.PK,
			attrURI: attr.Curie.URI,
			arrowID: arrow.Ident,
		})
	}
}

// relationship handles diamond→diamond arrows: an object property bundle.
func (g *generator) relationship(arrow *diagram.Arrow, src, tgt *diagram.Diamond) {
	if grammar.IsExternal(g.domain, src.Text) {
		return
	}

	rel, relOK := grammar.ResolveDiamondToDiamondArrow(g.domain, g.prefixes, g.used, arrow.Text)
	if !relOK {
		g.markBinding(src.Ident, arrow.Ident, arrow.Text)
	}
	// The target may be external; externality only suppresses subject
	// position, so it still binds as an object.
	target, targetOK := grammar.ResolveDiamond(g.domain, g.prefixes, g.used, tgt.Text)
	if !targetOK {
		g.markBinding(src.Ident, tgt.Ident, tgt.Text)
	}
	classURI, classOK := g.classURI[src.Ident]
	if !relOK || !targetOK || !classOK {
		return
	}

	prop := "<" + rel.Curie.URI + ">"
	g.emit(prop, g.rdfTerm("type"), g.upperTerm("Relationship"))
	g.emit(prop, g.upperTerm("minCount"), g.intLiteral(rel.Cardinality.Min))
	if !rel.Cardinality.Unbounded {
		g.emit(prop, g.upperTerm("maxCount"), g.intLiteral(rel.Cardinality.Max))
	}
	g.emit(prop, g.upperTerm("class"), "<"+target.Curie.URI+">")
	g.emit("<"+classURI+">", g.upperTerm("property"), prop)

	g.usedEls[arrow.Ident] = true
	g.usedEls[src.Ident] = true
	g.usedEls[tgt.Ident] = true
}

// literalProperty handles diamond→text arrows carrying an allow-listed
// predicate. Unknown predicates are never bindable: nothing is produced and
// nothing is flagged.
func (g *generator) literalProperty(arrow *diagram.Arrow, src *diagram.Diamond, tgt *diagram.Text) {
	if grammar.IsExternal(g.domain, src.Text) {
		return
	}

	prop, ok := grammar.ResolveDiamondToTextArrow(arrow.Text)
	if !ok {
		return
	}
	classURI, ok := g.classURI[src.Ident]
	if !ok {
		return
	}

	object := `"` + export.EscapeLiteral(tgt.Value) + `"@` + prop.Lang
	g.emit("<"+classURI+">", g.upperTerm(prop.Predicate), object)

	g.usedEls[arrow.Ident] = true
	g.usedEls[src.Ident] = true
	g.usedEls[tgt.Ident] = true
}

// primaryKeys validates each diamond's key chain for contiguity from 1. The
// first gap invalidates that arrow and every later one; the un-gapped prefix
// is emitted as an RDF list in key order.
func (g *generator) primaryKeys() {
	ids := make([]string, 0, len(g.pkEntries))
	for id := range g.pkEntries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		entries := g.pkEntries[id]
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].order != entries[j].order {
				return entries[i].order < entries[j].order
			}
			return entries[i].arrowID < entries[j].arrowID
		})

		firstBreak := len(entries)
		for i, e := range entries {
			if e.order != i+1 {
				firstBreak = i
				break
			}
		}
		for _, e := range entries[firstBreak:] {
			g.invalid[e.arrowID] = true
		}

		valid := entries[:firstBreak]
		if len(valid) == 0 {
			continue
		}
		items := make([]string, len(valid))
		for i, e := range valid {
			items[i] = "<" + e.attrURI + ">"
		}
		g.emitList("<"+g.classURI[id]+">", g.upperTerm("primaryKey"), items)
	}
}

// keyed propagates primary-key participation to every diamond sharing a
// resolved class URI with a keyed diamond.
func (g *generator) keyed() map[string]bool {
	keyedURIs := map[string]bool{}
	for id := range g.pkEntries {
		if uri, ok := g.classURI[id]; ok {
			keyedURIs[uri] = true
		}
	}

	keyed := map[string]bool{}
	for id, uri := range g.classURI {
		if keyedURIs[uri] {
			keyed[id] = true
		}
	}
	return keyed
}

// finalize deduplicates, sorts, and joins the emitted statements.
func (g *generator) finalize() string {
	if len(g.triples) == 0 {
		return ""
	}
	lines := make([]string, 0, len(g.triples))
	for t := range g.triples {
		lines = append(lines, t)
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n") + "\n"
}
