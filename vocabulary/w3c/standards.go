// Package w3c provides commonly used W3C standard namespace IRIs.
//
// The compiler emits rdf:type assertions and rdf:first/rdf:rest list chains;
// the Turtle serializer recognizes xsd numeric and boolean datatypes for bare
// literal rendering.
package w3c

// RDF namespace IRIs.
const (
	// RDFNamespace is the RDF syntax namespace.
	RDFNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

	// RDFType asserts the type of a resource.
	RDFType = RDFNamespace + "type"

	// RDFFirst is the head of an RDF list cell.
	RDFFirst = RDFNamespace + "first"

	// RDFRest is the tail link of an RDF list cell.
	RDFRest = RDFNamespace + "rest"

	// RDFNil terminates an RDF list.
	RDFNil = RDFNamespace + "nil"
)

// RDFS namespace IRIs.
const (
	// RDFSNamespace is the RDF Schema namespace.
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"

	// RDFSLabel provides a human-readable name for a resource.
	RDFSLabel = RDFSNamespace + "label"

	// RDFSComment provides a description of a resource.
	RDFSComment = RDFSNamespace + "comment"
)

// XSD datatype IRIs.
const (
	// XSDNamespace is the XML Schema datatypes namespace.
	XSDNamespace = "http://www.w3.org/2001/XMLSchema#"

	// XSDString is the string datatype.
	XSDString = XSDNamespace + "string"

	// XSDInteger is the arbitrary-precision integer datatype.
	XSDInteger = XSDNamespace + "integer"

	// XSDDecimal is the arbitrary-precision decimal datatype.
	XSDDecimal = XSDNamespace + "decimal"

	// XSDDouble is the IEEE 754 double datatype.
	XSDDouble = XSDNamespace + "double"

	// XSDBoolean is the boolean datatype.
	XSDBoolean = XSDNamespace + "boolean"
)
