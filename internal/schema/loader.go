package schema

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"intent-assistant/internal/validation"
)

type fileDoc struct {
	Intents []intentDoc `yaml:"intents"`
}

type intentDoc struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Fields      []fieldDoc `yaml:"fields"`
}

type fieldDoc struct {
	Name        string       `yaml:"name"`
	Required    bool         `yaml:"required"`
	Description string       `yaml:"description"`
	AIHint      string       `yaml:"ai_hint"`
	Rule        *ruleDoc     `yaml:"rule"`
	Default     yaml.Node    `yaml:"default"`
	Strategy    *strategyDoc `yaml:"strategy"`
}

type ruleDoc struct {
	Type      string   `yaml:"type"`
	MinLen    int      `yaml:"min_len"`
	MaxLen    int      `yaml:"max_len"`
	Values    []string `yaml:"values"`
	Min       *float64 `yaml:"min"`
	Max       *float64 `yaml:"max"`
	Items     *ruleDoc `yaml:"items"`
	Predicate string   `yaml:"predicate"`
}

type strategyDoc struct {
	Type     string       `yaml:"type"`
	Sources  []string     `yaml:"sources"`
	Fallback *strategyDoc `yaml:"fallback"`
	Value    yaml.Node    `yaml:"value"`
}

// LoadFile reads the schema file at path.
func LoadFile(path string, engine *validation.Engine) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", LogPrefixLoadFile, err)
	}
	defer f.Close()
	return Load(f, engine)
}

// Load parses and validates a schema document. Every rule, strategy and
// default is checked; the first problem is returned as a *SchemaError.
func Load(r io.Reader, engine *validation.Engine) (*Registry, error) {
	if engine == nil {
		engine = validation.New(nil)
	}

	var doc fileDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &SchemaError{Reason: reasonNoIntents}
		}
		return nil, &SchemaError{Reason: fmt.Sprintf("invalid yaml: %v", err)}
	}
	if len(doc.Intents) == 0 {
		return nil, &SchemaError{Reason: reasonNoIntents}
	}

	reg := &Registry{
		engine:  engine,
		intents: make(map[string]IntentSchema, len(doc.Intents)),
	}
	for _, id := range doc.Intents {
		intent, err := buildIntent(id, engine)
		if err != nil {
			return nil, err
		}
		if _, dup := reg.intents[intent.Name]; dup {
			return nil, &SchemaError{Intent: intent.Name, Reason: "duplicate intent"}
		}
		reg.intents[intent.Name] = intent
		reg.order = append(reg.order, intent.Name)
	}
	return reg, nil
}

func buildIntent(doc intentDoc, engine *validation.Engine) (IntentSchema, error) {
	if doc.Name == "" {
		return IntentSchema{}, &SchemaError{Reason: "intent without a name"}
	}

	intent := IntentSchema{Name: doc.Name, Description: doc.Description}
	seen := map[string]bool{}
	for _, fd := range doc.Fields {
		if fd.Name == "" {
			return IntentSchema{}, &SchemaError{Intent: doc.Name, Reason: "field without a name"}
		}
		if seen[fd.Name] {
			return IntentSchema{}, &SchemaError{Intent: doc.Name, Field: fd.Name, Reason: "duplicate field"}
		}
		seen[fd.Name] = true

		field, reason := buildField(fd, engine)
		if reason != "" {
			return IntentSchema{}, &SchemaError{Intent: doc.Name, Field: fd.Name, Reason: reason}
		}
		intent.Fields = append(intent.Fields, field)
	}
	return intent, nil
}

func buildField(fd fieldDoc, engine *validation.Engine) (FieldSpec, string) {
	field := FieldSpec{
		Name:        fd.Name,
		Required:    fd.Required,
		Description: fd.Description,
		AIHint:      fd.AIHint,
	}

	if fd.Rule == nil {
		return field, "missing rule"
	}
	rule, reason := buildRule(*fd.Rule, engine)
	if reason != "" {
		return field, reason
	}
	field.Rule = rule

	if !fd.Default.IsZero() {
		var raw any
		if err := fd.Default.Decode(&raw); err != nil {
			return field, fmt.Sprintf("invalid default: %v", err)
		}
		res := engine.Validate(raw, rule)
		if !res.OK {
			return field, fmt.Sprintf("default does not satisfy rule: %s", res.Reason)
		}
		field.Default = res.Value
		field.HasDefault = true
	}

	if fd.Strategy == nil {
		return field, "missing strategy"
	}
	strategy, reason := buildStrategy(*fd.Strategy, field, engine)
	if reason != "" {
		return field, reason
	}
	if fd.Required && containsIgnore(strategy) {
		return field, "required field cannot use ignore_argument"
	}
	field.Strategy = strategy
	return field, ""
}

func buildRule(rd ruleDoc, engine *validation.Engine) (validation.Rule, string) {
	switch rd.Type {
	case validation.KindString:
		if rd.MinLen < 0 || (rd.MaxLen > 0 && rd.MaxLen < rd.MinLen) {
			return nil, "invalid string length bounds"
		}
		return validation.StringRule{MinLen: rd.MinLen, MaxLen: rd.MaxLen}, ""
	case validation.KindEnum:
		if len(rd.Values) == 0 {
			return nil, "enum rule without values"
		}
		return validation.EnumRule{Allowed: append([]string(nil), rd.Values...)}, ""
	case validation.KindInteger:
		r := validation.IntegerRule{}
		if rd.Min != nil {
			v := int64(*rd.Min)
			r.Min = &v
		}
		if rd.Max != nil {
			v := int64(*rd.Max)
			r.Max = &v
		}
		if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
			return nil, "integer rule min exceeds max"
		}
		return r, ""
	case validation.KindFloat:
		if rd.Min != nil && rd.Max != nil && *rd.Min > *rd.Max {
			return nil, "float rule min exceeds max"
		}
		return validation.FloatRule{Min: rd.Min, Max: rd.Max}, ""
	case validation.KindBoolean:
		return validation.BooleanRule{}, ""
	case validation.KindArray:
		r := validation.ArrayRule{}
		if rd.Items != nil {
			item, reason := buildRule(*rd.Items, engine)
			if reason != "" {
				return nil, "array items: " + reason
			}
			r.Item = item
		}
		return r, ""
	case validation.KindCustom:
		if rd.Predicate == "" {
			return nil, "custom rule without predicate"
		}
		if !engine.HasPredicate(rd.Predicate) {
			return nil, fmt.Sprintf("unknown predicate %q", rd.Predicate)
		}
		return validation.CustomRule{PredicateID: rd.Predicate}, ""
	case "":
		return nil, "rule without type"
	default:
		return nil, fmt.Sprintf("unknown rule type %q", rd.Type)
	}
}

func buildStrategy(sd strategyDoc, field FieldSpec, engine *validation.Engine) (FieldStrategy, string) {
	switch sd.Type {
	case StrategyAskUser:
		return AskUser{}, ""
	case StrategyIgnoreArgument:
		return IgnoreArgument{}, ""
	case StrategyUseDefaults:
		if sd.Value.IsZero() {
			if !field.HasDefault {
				return nil, "use_defaults without a default"
			}
			return UseDefaults{Value: field.Default}, ""
		}
		var raw any
		if err := sd.Value.Decode(&raw); err != nil {
			return nil, fmt.Sprintf("invalid strategy value: %v", err)
		}
		res := engine.Validate(raw, field.Rule)
		if !res.OK {
			return nil, fmt.Sprintf("strategy value does not satisfy rule: %s", res.Reason)
		}
		return UseDefaults{Value: res.Value}, ""
	case StrategyTryHarder:
		if len(sd.Sources) == 0 {
			return nil, "try_harder without sources"
		}
		th := TryHarder{SourceIDs: append([]string(nil), sd.Sources...)}
		if sd.Fallback == nil {
			th.Fallback = AskUser{}
			return th, ""
		}
		fb, reason := buildStrategy(*sd.Fallback, field, engine)
		if reason != "" {
			return nil, "fallback: " + reason
		}
		th.Fallback = fb
		return th, ""
	case "":
		return nil, "strategy without type"
	default:
		return nil, fmt.Sprintf("unknown strategy %q", sd.Type)
	}
}

func containsIgnore(s FieldStrategy) bool {
	switch v := s.(type) {
	case IgnoreArgument:
		return true
	case TryHarder:
		return containsIgnore(v.Fallback)
	default:
		return false
	}
}
