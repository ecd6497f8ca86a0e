package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"intent-assistant/pkg/datemath"
)

// Engine validates values against rules. Custom predicates can be added
// at any time; Validate is safe for concurrent use.
type Engine struct {
	mu         sync.RWMutex
	predicates map[string]Predicate
	anchored   map[string]AnchoredPredicate
	dates      *datemath.Parser
	now        func() time.Time
}

// New returns an Engine with the built-in predicates registered. Relative
// dates are resolved with dates; a nil parser falls back to UTC.
func New(dates *datemath.Parser) *Engine {
	if dates == nil {
		dates, _ = datemath.NewParser("UTC")
	}
	e := &Engine{
		predicates: map[string]Predicate{},
		anchored:   map[string]AnchoredPredicate{},
		dates:      dates,
		now:        time.Now,
	}
	e.predicates[PredicateNonBlank] = nonBlank
	e.predicates[PredicateISODate] = isoDate
	e.anchored[PredicateRelativeDate] = e.relativeDate
	return e
}

// RegisterPredicate adds or replaces a custom predicate.
func (e *Engine) RegisterPredicate(id string, p Predicate) error {
	if id == "" {
		return ErrEmptyPredicateID
	}
	if p == nil {
		return ErrNilPredicate
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.anchored, id)
	e.predicates[id] = p
	return nil
}

// HasPredicate reports whether id is registered.
func (e *Engine) HasPredicate(id string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.predicates[id]
	if !ok {
		_, ok = e.anchored[id]
	}
	return ok
}

// Validate checks value against rule, resolving relative dates against
// the current time.
func (e *Engine) Validate(value any, rule Rule) Result {
	return e.ValidateAt(value, rule, time.Time{})
}

// ValidateAt is Validate with relative dates resolved against today. A
// zero today means now.
func (e *Engine) ValidateAt(value any, rule Rule, today time.Time) Result {
	if today.IsZero() {
		today = e.now()
	}
	return e.validate(value, rule, today)
}

func (e *Engine) validate(value any, rule Rule, today time.Time) Result {
	if rule == nil {
		return fail(ReasonNilRule)
	}

	switch r := rule.(type) {
	case StringRule:
		return validateString(value, r)
	case EnumRule:
		return validateEnum(value, r)
	case IntegerRule:
		return validateInteger(value, r)
	case FloatRule:
		return validateFloat(value, r)
	case BooleanRule:
		return validateBoolean(value)
	case ArrayRule:
		return e.validateArray(value, r, today)
	case CustomRule:
		return e.validateCustom(value, r, today)
	default:
		return fail(ReasonUnknownRule)
	}
}

func validateString(value any, r StringRule) Result {
	s, ok := value.(string)
	if !ok {
		return fail(fmt.Sprintf("expected string, got %T", value))
	}
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	if n < r.MinLen {
		return fail(fmt.Sprintf("must be at least %d characters", r.MinLen))
	}
	if r.MaxLen > 0 && n > r.MaxLen {
		return fail(fmt.Sprintf("must be at most %d characters", r.MaxLen))
	}
	return pass(s)
}

func validateEnum(value any, r EnumRule) Result {
	s, ok := value.(string)
	if !ok {
		return fail(fmt.Sprintf("expected string, got %T", value))
	}
	s = strings.TrimSpace(s)
	for _, allowed := range r.Allowed {
		if strings.EqualFold(s, allowed) {
			return pass(allowed)
		}
	}
	return fail(fmt.Sprintf("must be one of %s", strings.Join(r.Allowed, ", ")))
}

func validateInteger(value any, r IntegerRule) Result {
	n, err := toInt64(value)
	if err != nil {
		return fail(err.Error())
	}
	if r.Min != nil && n < *r.Min {
		return fail(fmt.Sprintf("must be >= %d", *r.Min))
	}
	if r.Max != nil && n > *r.Max {
		return fail(fmt.Sprintf("must be <= %d", *r.Max))
	}
	return pass(n)
}

func validateFloat(value any, r FloatRule) Result {
	f, err := toFloat64(value)
	if err != nil {
		return fail(err.Error())
	}
	if r.Min != nil && f < *r.Min {
		return fail(fmt.Sprintf("must be >= %g", *r.Min))
	}
	if r.Max != nil && f > *r.Max {
		return fail(fmt.Sprintf("must be <= %g", *r.Max))
	}
	return pass(f)
}

func validateBoolean(value any) Result {
	switch v := value.(type) {
	case bool:
		return pass(v)
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes":
			return pass(true)
		case "false", "no":
			return pass(false)
		}
	}
	return fail(fmt.Sprintf("expected boolean, got %v", value))
}

func (e *Engine) validateArray(value any, r ArrayRule, today time.Time) Result {
	var items []any
	switch v := value.(type) {
	case []any:
		items = v
	case []string:
		items = make([]any, len(v))
		for i := range v {
			items[i] = v[i]
		}
	default:
		return fail(fmt.Sprintf("expected array, got %T", value))
	}

	out := make([]any, len(items))
	for i, item := range items {
		if r.Item == nil {
			out[i] = item
			continue
		}
		res := e.validate(item, r.Item, today)
		if !res.OK {
			return fail(fmt.Sprintf("item %d: %s", i, res.Reason))
		}
		out[i] = res.Value
	}
	return pass(out)
}

func (e *Engine) validateCustom(value any, r CustomRule, today time.Time) Result {
	e.mu.RLock()
	p, ok := e.predicates[r.PredicateID]
	ap, anchored := e.anchored[r.PredicateID]
	e.mu.RUnlock()

	var (
		normalized any
		err        error
	)
	switch {
	case anchored:
		normalized, err = ap(value, today)
	case ok:
		normalized, err = p(value)
	default:
		return fail(ReasonUnknownRule)
	}
	if err != nil {
		return fail(err.Error())
	}
	return pass(normalized)
}

func toInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, fmt.Errorf("expected integer, got %v", v)
		}
		if v >= math.MaxInt64 || v < math.MinInt64 {
			return 0, fmt.Errorf("integer out of range: %v", v)
		}
		return int64(v), nil
	case json.Number:
		return v.Int64()
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("expected integer, got %q", v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", value)
	}
}

func toFloat64(value any) (float64, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case json.Number:
		return v.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("expected number, got %q", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("expected number, got %T", value)
	}
}

func pass(v any) Result         { return Result{OK: true, Value: v} }
func fail(reason string) Result { return Result{Reason: reason} }
