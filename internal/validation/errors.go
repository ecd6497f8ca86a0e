package validation

import "errors"

var (
	ErrEmptyPredicateID = errors.New("validation: predicate id is required")
	ErrNilPredicate     = errors.New("validation: predicate is nil")
	ErrBlank            = errors.New("value is blank")
	ErrNotADate         = errors.New("not a YYYY-MM-DD date")
)
