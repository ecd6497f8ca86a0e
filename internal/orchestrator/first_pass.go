package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"intent-assistant/internal/model"
	"intent-assistant/internal/validation"
	"intent-assistant/pkg/llmjson"
	"intent-assistant/pkg/llmprovider"
)

// firstPass asks the model to classify the message and extract fields.
func (o *Orchestrator) firstPass(ctx context.Context, snap model.ConversationContext, in Inbound) (FirstPassOutput, error) {
	messages := []llmprovider.Message{
		{Role: llmprovider.RoleSystem, Content: fmt.Sprintf(PromptFirstPassSystem, o.intentCatalog())},
		{Role: llmprovider.RoleUser, Content: o.firstPassPrompt(snap, in)},
	}

	text, err := o.llm.Complete(ctx, messages)
	if err != nil {
		return FirstPassOutput{}, fmt.Errorf("%s: complete: %w", LogPrefixFirstPass, err)
	}
	if strings.TrimSpace(text) == "" {
		return FirstPassOutput{}, ErrEmptyResponse
	}

	var out FirstPassOutput
	if err := llmjson.Unmarshal(text, &out); err != nil {
		return FirstPassOutput{}, fmt.Errorf("%s: parse: %w", LogPrefixFirstPass, err)
	}
	out.Intent = strings.TrimSpace(out.Intent)
	if out.Fields == nil {
		out.Fields = map[string]any{}
	}
	return out, nil
}

func (o *Orchestrator) intentCatalog() string {
	var b strings.Builder
	for _, name := range o.reg.Intents() {
		is, _ := o.reg.Intent(name)
		fmt.Fprintf(&b, "- %s: %s\n", is.Name, is.Description)
		for _, f := range is.Fields {
			req := "optional"
			if f.Required {
				req = "required"
			}
			fmt.Fprintf(&b, "  - %s (%s, %s): %s", f.Name, req, validation.Describe(f.Rule), f.Description)
			if f.AIHint != "" {
				fmt.Fprintf(&b, " Hint: %s", f.AIHint)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (o *Orchestrator) firstPassPrompt(snap model.ConversationContext, in Inbound) string {
	var b strings.Builder

	b.WriteString(buildTimeContext(o.today(in.TodaysDate)))
	b.WriteString("\n\n")

	if history := snap.RecentMessages(o.maxHistory); len(history) > 0 {
		b.WriteString(PromptSectionHistory + "\n")
		for _, m := range history {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Text)
		}
		b.WriteString("\n")
	}

	if snap.CurrentIntent != "" {
		fmt.Fprintf(&b, PromptSectionIntent+"\n", snap.CurrentIntent)
		if len(snap.CollectedVariables) > 0 {
			raw, _ := json.Marshal(snap.CollectedVariables)
			fmt.Fprintf(&b, PromptSectionCollected+"\n", raw)
		}
	}

	if len(in.UserTasks) > 0 {
		fmt.Fprintf(&b, PromptSectionUserTasks+"\n", strings.Join(in.UserTasks, "; "))
	}

	fmt.Fprintf(&b, PromptSectionMessage, in.Message)
	return b.String()
}
