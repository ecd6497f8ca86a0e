package gcalendar

import "context"

// Calendar is the read side of the Calendar API used for context lookups.
type Calendar interface {
	ListEvents(ctx context.Context, req ListEventsRequest) ([]Event, error)
}

var _ Calendar = (*Client)(nil)
