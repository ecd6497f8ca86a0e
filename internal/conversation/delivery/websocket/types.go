package websocket

type historyItem struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type inboundMessage struct {
	Message             string        `json:"message"`
	UserTasks           []string      `json:"userTasks,omitempty"`
	TodaysDate          string        `json:"todaysDate,omitempty"`
	ConversationHistory []historyItem `json:"conversationHistory,omitempty"`
}

type connectionFrame struct {
	Type         string `json:"type"`
	ConnectionID string `json:"connectionId"`
}

type thinkingFrame struct {
	Type    string `json:"type"`
	Step    string `json:"step"`
	Details string `json:"details"`
}

type responseFrame struct {
	Type    string      `json:"type"`
	Content string      `json:"content"`
	Outcome outcomeResp `json:"outcome"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

type outcomeResp struct {
	Kind          string         `json:"kind"`
	Intent        string         `json:"intent,omitempty"`
	Fields        map[string]any `json:"fields,omitempty"`
	MissingFields []string       `json:"missingFields,omitempty"`
	AppliedFields []string       `json:"appliedFields,omitempty"`
	IgnoredFields []string       `json:"ignoredFields,omitempty"`
	Sources       []string       `json:"sources,omitempty"`
}
