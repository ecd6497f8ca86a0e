package gcalendar

import "time"

// Event is a single expanded calendar occurrence.
type Event struct {
	ID          string
	Summary     string
	Description string
	HtmlLink    string
	Location    string
	StartTime   time.Time
	EndTime     time.Time
}

// AllDay reports whether the event carries no time of day.
func (e Event) AllDay() bool {
	return !e.StartTime.IsZero() && e.StartTime.Equal(e.StartTime.Truncate(24*time.Hour)) &&
		e.EndTime.Sub(e.StartTime)%(24*time.Hour) == 0
}

// ListEventsRequest bounds a listing. An empty CalendarID means "primary".
type ListEventsRequest struct {
	CalendarID string
	TimeMin    time.Time
	TimeMax    time.Time
	MaxResults int64
}
