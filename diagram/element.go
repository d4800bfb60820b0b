// Package diagram defines the element graph the compiler consumes.
//
// A diagram is a flat mapping from identifier to element. Five element kinds
// exist: rectangles (datatype boxes), diamonds (class boxes), arrows, free
// text, and trees (hierarchies over diamonds). The compiler reads the graph
// and never mutates it; structural well-formedness (unique IDs, tree
// acyclicity, required fields) is the producer's responsibility.
package diagram

// Kind identifies diagram element types.
type Kind uint8

const (
	// KindRectangle is a datatype/class-like box whose text is a single CURIE.
	KindRectangle Kind = iota
	// KindDiamond is a class-like box whose text is "CURIE (ABBV)".
	KindDiamond
	// KindArrow connects two elements with a role-specific label.
	KindArrow
	// KindText is a free-form string element.
	KindText
	// KindTree is a hierarchy over diamonds.
	KindTree
)

// String returns the JSON discriminator for the kind.
func (k Kind) String() string {
	switch k {
	case KindRectangle:
		return "rectangle"
	case KindDiamond:
		return "diamond"
	case KindArrow:
		return "arrow"
	case KindText:
		return "text"
	case KindTree:
		return "tree"
	}
	return "unknown"
}

// Element is a value in the diagram's element graph.
type Element interface {
	Kind() Kind
	ID() string
}

// Rectangle is a datatype box. Its text is a single CURIE.
type Rectangle struct {
	Ident string  `json:"id"`
	Text  string  `json:"text"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
}

// Kind returns KindRectangle.
func (r *Rectangle) Kind() Kind { return KindRectangle }

// ID returns the element identifier.
func (r *Rectangle) ID() string { return r.Ident }

// Diamond is a class box. Its text is "CURIE (ABBV)" where ABBV is one of
// DC, SC, E, V.
type Diamond struct {
	Ident string  `json:"id"`
	Text  string  `json:"text"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
}

// Kind returns KindDiamond.
func (d *Diamond) Kind() Kind { return KindDiamond }

// ID returns the element identifier.
func (d *Diamond) ID() string { return d.Ident }

// Arrow connects a source element to a target element. Its text is a
// role-specific label interpreted by the grammar resolver.
type Arrow struct {
	Ident  string `json:"id"`
	Text   string `json:"text"`
	Source string `json:"source,omitempty"`
	Target string `json:"target,omitempty"`
}

// Kind returns KindArrow.
func (a *Arrow) Kind() Kind { return KindArrow }

// ID returns the element identifier.
func (a *Arrow) ID() string { return a.Ident }

// Text is a free-form string element. It serves as a caption, or, when
// chained text→arrow→text, as raw triple syntax.
type Text struct {
	Ident string  `json:"id"`
	Value string  `json:"text"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Kind returns KindText.
func (t *Text) Kind() Kind { return KindText }

// ID returns the element identifier.
func (t *Text) ID() string { return t.Ident }

// TreeItem places an element under a parent within a tree.
type TreeItem struct {
	Parent  string `json:"parent"`
	Element string `json:"element"`
}

// Tree is an ordered hierarchy over diamonds, rooted at a diamond. It
// represents an enumeration or sealed-class hierarchy.
type Tree struct {
	Ident string     `json:"id"`
	Root  string     `json:"root"`
	Items []TreeItem `json:"items"`
}

// Kind returns KindTree.
func (t *Tree) Kind() Kind { return KindTree }

// ID returns the element identifier.
func (t *Tree) ID() string { return t.Ident }
