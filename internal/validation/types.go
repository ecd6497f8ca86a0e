package validation

import (
	"fmt"
	"time"
)

// Rule is a typed constraint on a field value. The set of rules is closed;
// every implementation lives in this package.
type Rule interface {
	Kind() string
	isRule()
}

// StringRule accepts strings whose trimmed length is within bounds.
// A zero MaxLen means no upper bound.
type StringRule struct {
	MinLen int
	MaxLen int
}

// EnumRule accepts one of Allowed, compared case-insensitively.
type EnumRule struct {
	Allowed []string
}

// IntegerRule accepts integral numbers, including numeric strings.
type IntegerRule struct {
	Min *int64
	Max *int64
}

// FloatRule accepts any number, including numeric strings.
type FloatRule struct {
	Min *float64
	Max *float64
}

// BooleanRule accepts booleans and the strings true/false/yes/no.
type BooleanRule struct{}

// ArrayRule accepts a list whose items each satisfy Item. A nil Item
// accepts any element.
type ArrayRule struct {
	Item Rule
}

// CustomRule delegates to a predicate registered on the Engine.
type CustomRule struct {
	PredicateID string
}

func (StringRule) Kind() string  { return KindString }
func (EnumRule) Kind() string    { return KindEnum }
func (IntegerRule) Kind() string { return KindInteger }
func (FloatRule) Kind() string   { return KindFloat }
func (BooleanRule) Kind() string { return KindBoolean }
func (ArrayRule) Kind() string   { return KindArray }
func (CustomRule) Kind() string  { return KindCustom }

func (StringRule) isRule()  {}
func (EnumRule) isRule()    {}
func (IntegerRule) isRule() {}
func (FloatRule) isRule()   {}
func (BooleanRule) isRule() {}
func (ArrayRule) isRule()   {}
func (CustomRule) isRule()  {}

// Predicate checks a value and returns its normalized form.
type Predicate func(value any) (any, error)

// AnchoredPredicate is a Predicate that also needs the caller's date.
type AnchoredPredicate func(value any, today time.Time) (any, error)

// Result is the outcome of validating one value.
type Result struct {
	OK     bool
	Reason string
	Value  any // normalized value, set when OK
}

// ValidationError reports a field whose value was present but rejected.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}
