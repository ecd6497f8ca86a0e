// Package sources provides the built-in context sources used to fill
// missing fields before the single retry.
package sources

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"intent-assistant/internal/gatherer"
	"intent-assistant/internal/model"
	"intent-assistant/internal/task"
	"intent-assistant/pkg/gcalendar"
)

// TaskSummary is the compact task shape handed to the model.
type TaskSummary struct {
	Title    string `json:"title"`
	Category string `json:"category,omitempty"`
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
	DueDate  string `json:"due_date,omitempty"`
}

// ActivityEntry is one activity line handed to the model.
type ActivityEntry struct {
	Task   string    `json:"task"`
	Action string    `json:"action"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

// EventSummary is one calendar event handed to the model.
type EventSummary struct {
	Summary string `json:"summary"`
	Date    string `json:"date"`
	Time    string `json:"time,omitempty"`
}

// ExistingTasks finds stored tasks mentioned by the latest message or the
// model's first attempt.
func ExistingTasks(uc task.UseCase) gatherer.Handler {
	return func(ctx context.Context, in gatherer.HandlerInput) (gatherer.HandlerResult, error) {
		keywords := Keywords(latestUserText(in.Conversation) + " " + outputText(in.OriginalOutput))
		if len(keywords) == 0 {
			return gatherer.HandlerResult{Data: []TaskSummary{}}, nil
		}

		tasks, err := uc.Search(ctx, task.SearchInput{Keywords: keywords, Limit: existingTasksLimit})
		if err != nil {
			return gatherer.HandlerResult{}, fmt.Errorf("search tasks: %w", err)
		}

		out := make([]TaskSummary, 0, len(tasks))
		provenance := make([]string, 0, len(tasks))
		for _, t := range tasks {
			out = append(out, summarize(t))
			provenance = append(provenance, "task:"+t.ID)
		}
		return gatherer.HandlerResult{Data: out, Sources: provenance}, nil
	}
}

// CategoryList returns the categories already in use. Results are cached
// for a short time since every create-task turn asks for them.
func CategoryList(uc task.UseCase, cache *expirable.LRU[string, []string]) gatherer.Handler {
	if cache == nil {
		cache = NewCategoryCache()
	}
	return func(ctx context.Context, in gatherer.HandlerInput) (gatherer.HandlerResult, error) {
		if cats, ok := cache.Get(categoryCacheKey); ok {
			return gatherer.HandlerResult{Data: cats, Sources: []string{"categories:cached"}}, nil
		}

		cats, err := uc.Categories(ctx)
		if err != nil {
			return gatherer.HandlerResult{}, fmt.Errorf("list categories: %w", err)
		}
		cache.Add(categoryCacheKey, cats)
		return gatherer.HandlerResult{Data: cats, Sources: []string{"categories"}}, nil
	}
}

// NewCategoryCache returns the cache CategoryList expects.
func NewCategoryCache() *expirable.LRU[string, []string] {
	return expirable.NewLRU[string, []string](categoryCacheSize, nil, categoryCacheTTL)
}

// ActivityHistory returns recent activity for the task the turn is about,
// or across all tasks when no task is named yet.
func ActivityHistory(uc task.UseCase) gatherer.Handler {
	return func(ctx context.Context, in gatherer.HandlerInput) (gatherer.HandlerResult, error) {
		title := namedTask(in)
		acts, err := uc.RecentActivity(ctx, task.ActivityInput{TaskTitle: title, Limit: activityLimit})
		if err != nil {
			return gatherer.HandlerResult{}, fmt.Errorf("recent activity: %w", err)
		}

		out := make([]ActivityEntry, 0, len(acts))
		provenance := make([]string, 0, len(acts))
		for _, a := range acts {
			out = append(out, ActivityEntry{Task: a.TaskTitle, Action: a.Action, Detail: a.Detail, At: a.CreatedAt})
			provenance = append(provenance, fmt.Sprintf("activity:%d", a.ID))
		}
		return gatherer.HandlerResult{Data: out, Sources: provenance}, nil
	}
}

// UserTasks echoes the task list the client sent with the message.
func UserTasks() gatherer.Handler {
	return func(ctx context.Context, in gatherer.HandlerInput) (gatherer.HandlerResult, error) {
		tasks := make([]string, 0, len(in.UserTasks))
		for _, t := range in.UserTasks {
			if t = strings.TrimSpace(t); t != "" {
				tasks = append(tasks, t)
			}
		}
		return gatherer.HandlerResult{Data: tasks, Sources: []string{"client:userTasks"}}, nil
	}
}

// ConversationHistory returns the last window user messages.
func ConversationHistory(window int) gatherer.Handler {
	if window <= 0 {
		window = defaultHistoryWindow
	}
	return func(ctx context.Context, in gatherer.HandlerInput) (gatherer.HandlerResult, error) {
		var (
			texts      []string
			provenance []string
		)
		msgs := in.Conversation.Messages
		for i := len(msgs) - 1; i >= 0 && len(texts) < window; i-- {
			if msgs[i].Role != model.RoleUser {
				continue
			}
			texts = append(texts, msgs[i].Text)
			provenance = append(provenance, fmt.Sprintf("message:%d", i))
		}
		return gatherer.HandlerResult{Data: texts, Sources: provenance}, nil
	}
}

// CalendarEvents lists upcoming events so the model can anchor dates.
func CalendarEvents(cal gcalendar.Calendar, calendarID string, lookaheadDays int, now func() time.Time) gatherer.Handler {
	if lookaheadDays <= 0 {
		lookaheadDays = defaultLookaheadDays
	}
	if now == nil {
		now = time.Now
	}
	return func(ctx context.Context, in gatherer.HandlerInput) (gatherer.HandlerResult, error) {
		start := now()
		events, err := cal.ListEvents(ctx, gcalendar.ListEventsRequest{
			CalendarID: calendarID,
			TimeMin:    start,
			TimeMax:    start.AddDate(0, 0, lookaheadDays),
			MaxResults: calendarMaxResults,
		})
		if err != nil {
			return gatherer.HandlerResult{}, fmt.Errorf("list events: %w", err)
		}

		out := make([]EventSummary, 0, len(events))
		provenance := make([]string, 0, len(events))
		for _, e := range events {
			summary := EventSummary{Summary: e.Summary, Date: e.StartTime.Format("2006-01-02")}
			if !e.AllDay() {
				summary.Time = e.StartTime.Format("15:04")
			}
			out = append(out, summary)
			provenance = append(provenance, "event:"+e.ID)
		}
		return gatherer.HandlerResult{Data: out, Sources: provenance}, nil
	}
}

// Keywords extracts lowercase search terms from free text.
func Keywords(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := map[string]bool{}
	var out []string
	for _, w := range words {
		if len([]rune(w)) < minKeywordLen || stopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

func summarize(t model.Task) TaskSummary {
	return TaskSummary{
		Title:    t.Title,
		Category: t.Category,
		Status:   t.Status,
		Priority: t.Priority,
		DueDate:  t.DueDate,
	}
}

func latestUserText(c model.ConversationContext) string {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == model.RoleUser {
			return c.Messages[i].Text
		}
	}
	return ""
}

func outputText(output map[string]any) string {
	var parts []string
	for _, v := range output {
		if s, ok := v.(string); ok {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func namedTask(in gatherer.HandlerInput) string {
	for _, f := range titleFields {
		if s, ok := in.OriginalOutput[f].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
		if s, ok := in.Conversation.CollectedVariables[f].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
