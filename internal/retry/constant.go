package retry

import "time"

const (
	LogPrefixRetryOnce = "internal.retry.RetryOnce"
)

// Failure stages reported in RetryError.
const (
	StageTransport = "transport"
	StageTimeout   = "timeout"
	StageParse     = "parse"
)

const DefaultTimeout = 20 * time.Second

// maxValuesPerField caps how many gathered candidates are shown per field.
const maxValuesPerField = 5

const promptRetrySystem = `You are completing a structured request for the intent %q.
A previous attempt could not fill every required field. Additional context has been gathered for you.

Rules:
- Reply with a single JSON object of the form {"fields": {"<field>": <value>}} and nothing else.
- Only use field names listed under "Fields".
- Prefer context with higher confidence when sources disagree.
- If you are not confident about a value, leave the field out. Never guess.
- Dates must be YYYY-MM-DD.`

const (
	sectionFields    = "Fields:"
	sectionOriginal  = "Previous attempt:"
	sectionCollected = "Already collected:"
	sectionGathered  = "Gathered context (highest confidence first):"
	sectionHistory   = "Recent conversation:"
	sectionMissing   = "Still missing:"
	sectionMessage   = "New message:"
)
