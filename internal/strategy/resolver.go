package strategy

import (
	"intent-assistant/internal/schema"
)

// Resolver picks one action for a turn from the per-field strategies.
type Resolver struct {
	sources SourceChecker
}

// New returns a Resolver. A nil checker treats every source as unusable,
// so try-harder fields always take their fallback.
func New(sources SourceChecker) *Resolver {
	return &Resolver{sources: sources}
}

// Resolve applies the precedence AskUser > TryHarder > UseDefaults > Ignore.
// Only required fields can trigger asking or a retry; optional fields fall
// to their default when they have one and are dropped otherwise.
func (r *Resolver) Resolve(intent string, missing []schema.FieldSpec) Decision {
	d := Decision{
		Kind:     DecisionComplete,
		Defaults: map[string]any{},
		Plan:     Plan{Sources: map[string][]string{}},
	}
	if len(missing) == 0 {
		return d
	}

	var (
		ask        bool
		tryHarder  bool
		optionalTH []string
	)
	for _, f := range missing {
		d.Missing = append(d.Missing, f.Name)
		eff := r.effective(intent, f.Strategy)

		if th, ok := eff.(schema.TryHarder); ok {
			if f.Required {
				tryHarder = true
				d.Plan.Fields = append(d.Plan.Fields, f.Name)
			} else {
				optionalTH = append(optionalTH, f.Name)
			}
			d.Plan.Sources[f.Name] = r.usable(intent, th.SourceIDs)
		}

		if f.Required {
			switch s := eff.(type) {
			case schema.AskUser:
				ask = true
			case schema.UseDefaults:
				d.Defaults[f.Name] = s.Value
			case schema.TryHarder:
			case schema.IgnoreArgument:
				d.Ignored = append(d.Ignored, f.Name)
			}
			continue
		}

		if v, ok := disposition(f, eff); ok {
			d.Defaults[f.Name] = v
		} else {
			d.Ignored = append(d.Ignored, f.Name)
		}
	}

	// Optional try-harder fields only ride along with a required one.
	if tryHarder {
		d.Plan.Fields = append(d.Plan.Fields, optionalTH...)
	} else {
		for _, name := range optionalTH {
			delete(d.Plan.Sources, name)
		}
	}

	switch {
	case ask:
		d.Kind = DecisionAskUser
		d.Plan = Plan{Sources: map[string][]string{}}
	case tryHarder:
		d.Kind = DecisionTryHarder
	case len(d.Defaults) > 0:
		d.Kind = DecisionUseDefaults
	default:
		d.Kind = DecisionIgnore
	}
	return d
}

// effective follows try-harder fallbacks until it reaches a strategy that
// can run: a non-try-harder one, or a try-harder with a usable source.
func (r *Resolver) effective(intent string, s schema.FieldStrategy) schema.FieldStrategy {
	for {
		th, ok := s.(schema.TryHarder)
		if !ok {
			if s == nil {
				return schema.AskUser{}
			}
			return s
		}
		if len(r.usable(intent, th.SourceIDs)) > 0 {
			return th
		}
		s = th.Fallback
	}
}

func (r *Resolver) usable(intent string, ids []string) []string {
	if r.sources == nil {
		return nil
	}
	var out []string
	for _, id := range ids {
		if r.sources.HasSource(intent, id) {
			out = append(out, id)
		}
	}
	return out
}

// disposition is what a field settles to when nobody asks for it.
func disposition(f schema.FieldSpec, eff schema.FieldStrategy) (any, bool) {
	for {
		th, ok := eff.(schema.TryHarder)
		if !ok {
			break
		}
		eff = th.Fallback
	}
	if ud, ok := eff.(schema.UseDefaults); ok {
		return ud.Value, true
	}
	if f.HasDefault {
		return f.Default, true
	}
	return nil, false
}
