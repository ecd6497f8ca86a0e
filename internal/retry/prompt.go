package retry

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"intent-assistant/internal/gatherer"
	"intent-assistant/internal/schema"
	"intent-assistant/internal/validation"
)

func buildPrompt(is schema.IntentSchema, original map[string]any, enriched gatherer.EnrichedContext) string {
	var b strings.Builder

	if enriched.Message != "" {
		fmt.Fprintf(&b, "%s %s\n\n", sectionMessage, enriched.Message)
	}

	b.WriteString(sectionFields + "\n")
	for _, f := range is.Fields {
		req := "optional"
		if f.Required {
			req = "required"
		}
		fmt.Fprintf(&b, "- %s (%s, %s): %s", f.Name, req, validation.Describe(f.Rule), f.Description)
		if f.AIHint != "" {
			fmt.Fprintf(&b, " Hint: %s", f.AIHint)
		}
		b.WriteString("\n")
	}

	if len(enriched.MissingFields) > 0 {
		fmt.Fprintf(&b, "\n%s %s\n", sectionMissing, strings.Join(enriched.MissingFields, ", "))
	}

	fmt.Fprintf(&b, "\n%s\n%s\n", sectionOriginal, toJSON(original))

	if len(enriched.Collected) > 0 {
		fmt.Fprintf(&b, "\n%s\n%s\n", sectionCollected, toJSON(enriched.Collected))
	}

	if len(enriched.Fields) > 0 {
		fmt.Fprintf(&b, "\n%s\n", sectionGathered)
		names := make([]string, 0, len(enriched.Fields))
		for name := range enriched.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			values := enriched.Fields[name].Values
			if len(values) > maxValuesPerField {
				values = values[:maxValuesPerField]
			}
			fmt.Fprintf(&b, "[%s]\n", name)
			for _, v := range values {
				fmt.Fprintf(&b, "- from %s (confidence %.2f): %s\n", v.SourceID, v.Confidence, toJSON(v.Data))
			}
		}
	}

	if len(enriched.History) > 0 {
		fmt.Fprintf(&b, "\n%s\n", sectionHistory)
		for _, m := range enriched.History {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Text)
		}
	}

	return b.String()
}

func toJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(raw)
}
