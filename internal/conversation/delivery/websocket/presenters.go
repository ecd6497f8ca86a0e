package websocket

import (
	"strings"
	"time"

	"intent-assistant/internal/model"
	"intent-assistant/internal/orchestrator"
)

func toOutcomeResp(res orchestrator.TurnResult) outcomeResp {
	out := outcomeResp{Intent: res.Intent, Fields: res.Fields}
	switch o := res.Outcome.(type) {
	case orchestrator.AskUserOutcome:
		out.Kind = o.Kind()
		out.MissingFields = o.MissingFields
	case orchestrator.ProceedWithDefaults:
		out.Kind = o.Kind()
		out.AppliedFields = o.AppliedFields
		out.IgnoredFields = o.IgnoredFields
	case orchestrator.ProceedIgnoring:
		out.Kind = o.Kind()
		out.IgnoredFields = o.IgnoredFields
	case orchestrator.ProceedEnhanced:
		out.Kind = o.Kind()
		out.Fields = o.EnhancedOutput
		out.Sources = o.Sources
	}
	return out
}

func (m inboundMessage) toInbound() orchestrator.Inbound {
	return orchestrator.Inbound{
		Message:    strings.TrimSpace(m.Message),
		UserTasks:  m.UserTasks,
		TodaysDate: m.TodaysDate,
	}
}

func (m inboundMessage) validate() string {
	if strings.TrimSpace(m.Message) == "" {
		return ErrMsgEmptyMessage
	}
	if m.TodaysDate != "" {
		if _, err := time.Parse(time.DateOnly, m.TodaysDate); err != nil {
			return ErrMsgInvalidDate
		}
	}
	for _, h := range m.ConversationHistory {
		if h.Role != model.RoleUser && h.Role != model.RoleAssistant {
			return ErrMsgInvalidHistory
		}
	}
	return ""
}

func (m inboundMessage) history() []model.ChatMessage {
	out := make([]model.ChatMessage, 0, len(m.ConversationHistory))
	for _, h := range m.ConversationHistory {
		out = append(out, model.ChatMessage{Role: h.Role, Text: h.Text})
	}
	return out
}
