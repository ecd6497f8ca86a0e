package validation

// Rule kinds as they appear in the schema file.
const (
	KindString  = "string"
	KindEnum    = "enum"
	KindInteger = "integer"
	KindFloat   = "float"
	KindBoolean = "boolean"
	KindArray   = "array"
	KindCustom  = "custom"
)

// Built-in predicate ids.
const (
	PredicateISODate      = "iso_date"
	PredicateRelativeDate = "relative_date"
	PredicateNonBlank     = "non_blank"
)

const (
	ReasonUnknownRule = "unknown rule"
	ReasonNilRule     = "no rule"
)
