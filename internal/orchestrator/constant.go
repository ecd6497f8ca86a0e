package orchestrator

// Log prefixes
const (
	LogPrefixHandleTurn = "internal.orchestrator.HandleTurn"
	LogPrefixFirstPass  = "internal.orchestrator.firstPass"
	LogPrefixTryHarder  = "internal.orchestrator.tryHarder"
)

// Turn stages reported in TurnError.
const (
	StageInput     = "input"
	StageFirstPass = "first_pass"
)

// Configuration
const (
	DefaultMaxHistory = 10
	DateFormatISO     = "2006-01-02"
)

// Time context template
const (
	TimeContextTemplate = `Date context:
- Today: %s (%s)
- This week: %s to %s
- Tomorrow: %s
Resolve relative dates against today and always write them as YYYY-MM-DD.`
)

// System prompt
const (
	PromptFirstPassSystem = `You turn a user's chat message into a structured request for a task assistant.

Known intents and their fields:
%s
Reply with one JSON object and nothing else:
{
  "intent": "<one of the intent names above, or empty for small talk>",
  "fields": {"<field>": <value>},
  "clarification": "<a short question if something required is unclear, else empty>",
  "reply": "<a short friendly reply to show the user>"
}

Rules:
- Only fill fields the user actually stated or that follow directly from the conversation.
- Leave a field out rather than guessing.
- Keep values already collected unless the user changes them.`

	PromptSectionHistory   = "Conversation so far:"
	PromptSectionIntent    = "Current intent: %s"
	PromptSectionCollected = "Already collected: %s"
	PromptSectionUserTasks = "The user's open tasks: %s"
	PromptSectionMessage   = "New message: %s"
)

// User-facing messages
const (
	MsgAskPrefix      = "I need a bit more information: %s."
	MsgProceed        = "Got it. %s with %s."
	MsgProceedNoField = "Got it. %s."
	MsgTurnFailed     = "Sorry, I could not process that message. Please try again."
	MsgSmallTalk      = "I'm here to help with your tasks."
)

// Thinking step details
const (
	DetailIngested    = "reading your message"
	DetailFirstPass   = "understood intent %q"
	DetailValidated   = "%d collected, %d missing"
	DetailAsking      = "need %s"
	DetailTrying      = "looking up %s"
	DetailGathered    = "%d of %d sources answered"
	DetailDefaults    = "using defaults for %s"
	DetailIgnored     = "nothing else required"
	DetailEnhanced    = "filled the gaps from %d sources"
	DetailResponded   = "done"
	DetailRetryFailed = "could not fill the gaps automatically"
)
