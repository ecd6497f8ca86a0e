package schema

import "intent-assistant/internal/validation"

// IntentSchema declares the fields one intent needs.
type IntentSchema struct {
	Name        string
	Description string
	Fields      []FieldSpec
}

// FieldSpec describes one field of an intent.
type FieldSpec struct {
	Name        string
	Required    bool
	Rule        validation.Rule
	Strategy    FieldStrategy
	Default     any
	HasDefault  bool
	Description string
	AIHint      string
}

// FieldStrategy is the policy applied when a field is missing or invalid.
// The set is closed: AskUser, TryHarder, UseDefaults, IgnoreArgument.
type FieldStrategy interface {
	Name() string
	isStrategy()
}

// AskUser stops and asks the user for the field.
type AskUser struct{}

// TryHarder gathers context from SourceIDs and retries the model once.
// Fallback applies when none of the sources can serve the intent.
type TryHarder struct {
	SourceIDs []string
	Fallback  FieldStrategy
}

// UseDefaults fills the field with Value.
type UseDefaults struct {
	Value any
}

// IgnoreArgument drops the field.
type IgnoreArgument struct{}

func (AskUser) Name() string        { return StrategyAskUser }
func (TryHarder) Name() string      { return StrategyTryHarder }
func (UseDefaults) Name() string    { return StrategyUseDefaults }
func (IgnoreArgument) Name() string { return StrategyIgnoreArgument }

func (AskUser) isStrategy()        {}
func (TryHarder) isStrategy()      {}
func (UseDefaults) isStrategy()    {}
func (IgnoreArgument) isStrategy() {}

// IntentValidation is the result of checking extracted data against an intent.
type IntentValidation struct {
	Valid           bool
	MissingRequired []string
	InvalidFields   []validation.ValidationError
	Collected       map[string]any
	Missing         []FieldSpec
}
