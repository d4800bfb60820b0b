// Package upper defines the meta-ontology vocabulary emitted by the diagram
// compiler.
//
// Diagrams declare classes, attributes, relationships, and enumerations; the
// compiler grounds those declarations in this namespace. The terms mirror the
// four diamond abbreviations (DC, SC, E, V) plus the structural predicates
// that link classes to their properties, value lists, and primary keys.
package upper
