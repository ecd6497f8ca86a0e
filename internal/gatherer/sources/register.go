package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"intent-assistant/internal/gatherer"
	"intent-assistant/internal/schema"
	"intent-assistant/internal/task"
	"intent-assistant/pkg/gcalendar"
	"intent-assistant/pkg/log"
)

// Deps are the collaborators the built-in sources read from. Calendar may
// be nil, in which case calendar_events is not registered and fields that
// reference it fall back.
type Deps struct {
	Tasks         task.UseCase
	Calendar      gcalendar.Calendar
	CalendarID    string
	LookaheadDays int
	HistoryWindow int
	CategoryCache *expirable.LRU[string, []string]
	Now           func() time.Time
}

type source struct {
	kind    gatherer.SourceKind
	handler gatherer.Handler
}

// Register binds every built-in source to each intent whose fields
// reference it, including references inside fallback chains. It returns
// the number of bindings made.
func Register(ctx context.Context, l log.Logger, g *gatherer.Gatherer, reg *schema.Registry, deps Deps) (int, error) {
	available := catalog(deps)

	count := 0
	for _, intent := range reg.Intents() {
		for _, id := range referencedSources(reg.FieldsForIntent(intent)) {
			src, ok := available[id]
			if !ok {
				l.Warnf(ctx, "%s: intent %q references unavailable source %q", LogPrefixRegister, intent, id)
				continue
			}
			if err := g.Register(intent, id, src.kind, src.handler); err != nil {
				return count, fmt.Errorf("%s: %s/%s: %w", LogPrefixRegister, intent, id, err)
			}
			count++
		}
	}
	return count, nil
}

func catalog(deps Deps) map[string]source {
	out := map[string]source{
		SourceUserTasks:           {gatherer.KindUserSupplied, UserTasks()},
		SourceConversationHistory: {gatherer.KindConversationHistory, ConversationHistory(deps.HistoryWindow)},
	}
	if deps.Tasks != nil {
		cache := deps.CategoryCache
		if cache == nil {
			cache = NewCategoryCache()
		}
		out[SourceExistingTasks] = source{gatherer.KindExistingRecord, ExistingTasks(deps.Tasks)}
		out[SourceCategoryList] = source{gatherer.KindCategoryCatalog, CategoryList(deps.Tasks, cache)}
		out[SourceActivityHistory] = source{gatherer.KindActivityHistory, ActivityHistory(deps.Tasks)}
	}
	if deps.Calendar != nil {
		out[SourceCalendarEvents] = source{gatherer.KindCalendar, CalendarEvents(deps.Calendar, deps.CalendarID, deps.LookaheadDays, deps.Now)}
	}
	return out
}

func referencedSources(fields []schema.FieldSpec) []string {
	seen := map[string]bool{}
	var out []string
	for _, f := range fields {
		for s := f.Strategy; s != nil; {
			th, ok := s.(schema.TryHarder)
			if !ok {
				break
			}
			for _, id := range th.SourceIDs {
				if !seen[id] {
					seen[id] = true
					out = append(out, id)
				}
			}
			s = th.Fallback
		}
	}
	return out
}
