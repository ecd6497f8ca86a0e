package gatherer

import "time"

const (
	LogPrefixGather = "internal.gatherer.Gather"
)

// SourceKind classifies where gathered data comes from.
type SourceKind string

const (
	KindExistingRecord      SourceKind = "existing_record"
	KindUserSupplied        SourceKind = "user_supplied"
	KindCalendar            SourceKind = "calendar"
	KindCategoryCatalog     SourceKind = "category_catalog"
	KindActivityHistory     SourceKind = "activity_history"
	KindConversationHistory SourceKind = "conversation_history"
	KindInferredText        SourceKind = "inferred_text"
)

// confidenceByKind ranks sources against each other. The numbers only
// order results; they are not probabilities.
var confidenceByKind = map[SourceKind]float64{
	KindExistingRecord:      0.9,
	KindUserSupplied:        0.85,
	KindCalendar:            0.75,
	KindCategoryCatalog:     0.7,
	KindActivityHistory:     0.6,
	KindConversationHistory: 0.5,
	KindInferredText:        0.3,
}

const unknownKindConfidence = 0.1

const (
	DefaultHandlerTimeout = 5 * time.Second
	DefaultConcurrency    = 4
)
