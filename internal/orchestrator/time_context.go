package orchestrator

import (
	"fmt"
	"time"
)

// buildTimeContext describes today, this week and tomorrow for the model.
func buildTimeContext(now time.Time) string {
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	weekStart := now.AddDate(0, 0, -(weekday - 1))
	weekEnd := weekStart.AddDate(0, 0, 6)
	tomorrow := now.AddDate(0, 0, 1)

	return fmt.Sprintf(
		TimeContextTemplate,
		now.Format(DateFormatISO),
		now.Weekday().String(),
		weekStart.Format(DateFormatISO),
		weekEnd.Format(DateFormatISO),
		tomorrow.Format(DateFormatISO),
	)
}

// today resolves the client's date, falling back to the server clock.
func (o *Orchestrator) today(clientDate string) time.Time {
	now := o.now().In(o.loc)
	if clientDate == "" {
		return now
	}
	d, err := time.ParseInLocation(DateFormatISO, clientDate, o.loc)
	if err != nil {
		return now
	}
	return d
}
