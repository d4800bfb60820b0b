package upper

// Namespace is the base IRI prefix for the upper meta-ontology terms.
const Namespace = "https://upper.dev/ontology#"

// Prefix is the prefix-table name the compiler looks up for this namespace.
const Prefix = "upper"

// Class IRIs define the kinds of resources a diagram can declare.
const (
	// ClassDomainModel marks a namespace as a compiled domain model.
	ClassDomainModel = Namespace + "DomainModel"

	// ClassDirectClass is a concrete, instantiable class (diamond "DC").
	ClassDirectClass = Namespace + "DirectClass"

	// ClassSealedClass is a closed class hierarchy root (diamond "SC").
	ClassSealedClass = Namespace + "SealedClass"

	// ClassEnumeration is a class whose extent is a fixed value list (diamond "E").
	ClassEnumeration = Namespace + "Enumeration"

	// ClassEnumValue is a member of an enumeration (diamond "V").
	ClassEnumValue = Namespace + "EnumValue"

	// ClassAttribute is a datatype-valued property declaration.
	ClassAttribute = Namespace + "Attribute"

	// ClassRelationship is an object-valued property declaration.
	ClassRelationship = Namespace + "Relationship"
)

// Predicate IRIs link declarations together.
const (
	// PredicateName records the domain model's short name.
	PredicateName = Namespace + "name"

	// PredicateLabel is the human-readable label of a class.
	PredicateLabel = Namespace + "label"

	// PredicateDescription is the prose description of a class.
	PredicateDescription = Namespace + "description"

	// PredicateMinCount is the lower cardinality bound of a property.
	PredicateMinCount = Namespace + "minCount"

	// PredicateMaxCount is the upper cardinality bound of a property.
	// Absent for open-ended ("n") cardinalities.
	PredicateMaxCount = Namespace + "maxCount"

	// PredicateDatatype links an attribute to its datatype.
	PredicateDatatype = Namespace + "datatype"

	// PredicateClass links a relationship to its target class.
	PredicateClass = Namespace + "class"

	// PredicateProperty links a class to one of its property declarations.
	PredicateProperty = Namespace + "property"

	// PredicateOneOf links an enumeration to the ordered list of its values.
	PredicateOneOf = Namespace + "oneOf"

	// PredicatePrimaryKey links a class to the ordered list of attributes
	// forming its primary key.
	PredicatePrimaryKey = Namespace + "primaryKey"
)
