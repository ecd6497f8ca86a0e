package http

import (
	"time"

	"intent-assistant/internal/conversation"
	"intent-assistant/internal/schema"
	"intent-assistant/internal/validation"
)

type summaryResp struct {
	ConnectionID       string   `json:"connection_id"`
	SessionID          string   `json:"session_id"`
	Intent             string   `json:"intent"`
	MessageCount       int      `json:"message_count"`
	CollectedCount     int      `json:"collected_count"`
	MissingCount       int      `json:"missing_count"`
	RequiredMissing    []string `json:"required_missing"`
	AllRequiredPresent bool     `json:"all_required_present"`
	LastUpdated        string   `json:"last_updated"`
}

func newSummaryResp(s conversation.Summary) summaryResp {
	required := s.RequiredMissing
	if required == nil {
		required = []string{}
	}
	return summaryResp{
		ConnectionID:       s.ConnectionID,
		SessionID:          s.SessionID,
		Intent:             s.Intent,
		MessageCount:       s.MessageCount,
		CollectedCount:     s.CollectedCount,
		MissingCount:       s.MissingCount,
		RequiredMissing:    required,
		AllRequiredPresent: s.AllRequiredPresent,
		LastUpdated:        s.LastUpdated.UTC().Format(time.RFC3339),
	}
}

type fieldResp struct {
	Name        string `json:"name"`
	Required    bool   `json:"required"`
	Rule        string `json:"rule"`
	Strategy    string `json:"strategy"`
	Default     any    `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

type intentResp struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Fields      []fieldResp `json:"fields"`
}

type intentsResp struct {
	Intents []intentResp `json:"intents"`
}

func newIntentResp(is schema.IntentSchema) intentResp {
	fields := make([]fieldResp, 0, len(is.Fields))
	for _, f := range is.Fields {
		fr := fieldResp{
			Name:        f.Name,
			Required:    f.Required,
			Rule:        validation.Describe(f.Rule),
			Description: f.Description,
		}
		if f.Strategy != nil {
			fr.Strategy = f.Strategy.Name()
		}
		if f.HasDefault {
			fr.Default = f.Default
		}
		fields = append(fields, fr)
	}
	return intentResp{Name: is.Name, Description: is.Description, Fields: fields}
}
