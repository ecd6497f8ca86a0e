package validation

import (
	"fmt"
	"strings"
)

// Describe renders rule as a short hint suitable for a model prompt.
func Describe(rule Rule) string {
	switch r := rule.(type) {
	case StringRule:
		if r.MaxLen > 0 {
			return fmt.Sprintf("text, %d-%d characters", r.MinLen, r.MaxLen)
		}
		return "text"
	case EnumRule:
		return "one of: " + strings.Join(r.Allowed, ", ")
	case IntegerRule:
		return "integer" + bounds(r.Min, r.Max)
	case FloatRule:
		switch {
		case r.Min != nil && r.Max != nil:
			return fmt.Sprintf("number between %g and %g", *r.Min, *r.Max)
		case r.Min != nil:
			return fmt.Sprintf("number >= %g", *r.Min)
		case r.Max != nil:
			return fmt.Sprintf("number <= %g", *r.Max)
		}
		return "number"
	case BooleanRule:
		return "true or false"
	case ArrayRule:
		if r.Item == nil {
			return "list"
		}
		return "list of " + Describe(r.Item)
	case CustomRule:
		switch r.PredicateID {
		case PredicateISODate:
			return "date YYYY-MM-DD"
		case PredicateRelativeDate:
			return "date YYYY-MM-DD (relative phrases allowed)"
		}
		return r.PredicateID
	}
	return ""
}

func bounds(min, max *int64) string {
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf(" between %d and %d", *min, *max)
	case min != nil:
		return fmt.Sprintf(" >= %d", *min)
	case max != nil:
		return fmt.Sprintf(" <= %d", *max)
	}
	return ""
}
