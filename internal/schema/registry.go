package schema

import (
	"strings"
	"time"

	"intent-assistant/internal/validation"
)

// Registry holds the loaded intent schemas. It is read-only after Load and
// safe for concurrent use.
type Registry struct {
	engine  *validation.Engine
	intents map[string]IntentSchema
	order   []string
}

// Intents lists intent names in file order.
func (r *Registry) Intents() []string {
	return append([]string(nil), r.order...)
}

// Intent returns the schema for name.
func (r *Registry) Intent(name string) (IntentSchema, bool) {
	s, ok := r.intents[name]
	if !ok {
		return IntentSchema{}, false
	}
	s.Fields = r.FieldsForIntent(name)
	return s, true
}

// FieldsForIntent returns a copy of the intent's fields, or an empty list
// for an unknown intent.
func (r *Registry) FieldsForIntent(name string) []FieldSpec {
	s, ok := r.intents[name]
	if !ok {
		return []FieldSpec{}
	}
	out := make([]FieldSpec, len(s.Fields))
	copy(out, s.Fields)
	return out
}

// Engine returns the validation engine the registry was loaded with.
func (r *Registry) Engine() *validation.Engine {
	return r.engine
}

// ValidateIntent checks data against the intent's fields. Absent and
// invalid fields are reported separately and both end up in Missing.
// Keys the intent does not declare are dropped.
func (r *Registry) ValidateIntent(intentName string, data map[string]any) IntentValidation {
	return r.ValidateIntentAt(intentName, data, time.Time{})
}

// ValidateIntentAt is ValidateIntent with relative dates resolved against
// today.
func (r *Registry) ValidateIntentAt(intentName string, data map[string]any, today time.Time) IntentValidation {
	out := IntentValidation{Collected: map[string]any{}}

	for _, field := range r.FieldsForIntent(intentName) {
		value, present := data[field.Name]
		if !present || IsAbsent(value) {
			out.Missing = append(out.Missing, field)
			if field.Required {
				out.MissingRequired = append(out.MissingRequired, field.Name)
			}
			continue
		}

		res := r.engine.ValidateAt(value, field.Rule, today)
		if !res.OK {
			out.InvalidFields = append(out.InvalidFields, validation.ValidationError{
				Field:  field.Name,
				Value:  value,
				Reason: res.Reason,
			})
			out.Missing = append(out.Missing, field)
			continue
		}
		out.Collected[field.Name] = res.Value
	}

	out.Valid = len(out.MissingRequired) == 0 && len(out.InvalidFields) == 0
	return out
}

// IsAbsent reports whether v counts as not provided: nil, a blank string,
// or an empty list.
func IsAbsent(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	default:
		return false
	}
}
