package strategy

// Kind is the overall action chosen for a turn.
type Kind int

const (
	DecisionComplete Kind = iota
	DecisionAskUser
	DecisionTryHarder
	DecisionUseDefaults
	DecisionIgnore
)

func (k Kind) String() string {
	switch k {
	case DecisionComplete:
		return "complete"
	case DecisionAskUser:
		return "ask_user"
	case DecisionTryHarder:
		return "try_harder"
	case DecisionUseDefaults:
		return "use_defaults"
	case DecisionIgnore:
		return "ignore"
	default:
		return "unknown"
	}
}

// SourceChecker reports whether a context source can serve an intent.
type SourceChecker interface {
	HasSource(intent, sourceID string) bool
}

// Plan lists the fields to gather context for and the usable sources of each.
type Plan struct {
	Fields  []string
	Sources map[string][]string
}

// SourceIDs returns each source in the plan once, in first-seen order.
func (p Plan) SourceIDs() []string {
	seen := map[string]bool{}
	var out []string
	for _, f := range p.Fields {
		for _, id := range p.Sources[f] {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

// Decision is the resolver's verdict for one set of missing fields.
//
// Defaults and Ignored describe what happens to fields that are not asked
// for: under DecisionTryHarder they apply to whatever is still missing
// after the retry.
type Decision struct {
	Kind     Kind
	Missing  []string
	Plan     Plan
	Defaults map[string]any
	Ignored  []string
}
