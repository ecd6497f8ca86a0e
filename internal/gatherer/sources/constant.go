package sources

import "time"

// Source ids as referenced by the intent schema.
const (
	SourceExistingTasks       = "existing_tasks"
	SourceCategoryList        = "category_list"
	SourceActivityHistory     = "activity_history"
	SourceUserTasks           = "user_tasks"
	SourceConversationHistory = "conversation_history"
	SourceCalendarEvents      = "calendar_events"
)

const (
	LogPrefixRegister = "internal.gatherer.sources.Register"

	categoryCacheKey  = "categories"
	categoryCacheSize = 8
	categoryCacheTTL  = time.Minute

	existingTasksLimit   = 10
	activityLimit        = 20
	defaultHistoryWindow = 6
	defaultLookaheadDays = 7
	calendarMaxResults   = 25
	minKeywordLen        = 3
)

// titleFields are the output fields that name a task, most specific first.
var titleFields = []string{"task_title", "target", "title"}

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "that": true, "this": true,
	"add": true, "create": true, "new": true, "task": true, "tasks": true, "please": true,
	"can": true, "you": true, "my": true, "make": true, "set": true, "edit": true,
	"change": true, "update": true, "delete": true, "remove": true, "show": true,
	"about": true, "from": true, "into": true, "have": true, "how": true, "what": true,
}
