package validation

import (
	"fmt"
	"strings"
	"time"

	"intent-assistant/pkg/datemath"
)

func nonBlank(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("expected string, got %T", value)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrBlank
	}
	return s, nil
}

func isoDate(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("expected string, got %T", value)
	}
	s = strings.TrimSpace(s)
	if _, err := time.Parse(datemath.ISODate, s); err != nil {
		return nil, ErrNotADate
	}
	return s, nil
}

// relativeDate accepts ISO dates and phrases like "tomorrow" or
// "next friday", normalizing both to YYYY-MM-DD.
func (e *Engine) relativeDate(value any, today time.Time) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("expected string, got %T", value)
	}
	normalized, err := e.dates.Normalize(s, today)
	if err != nil {
		return nil, fmt.Errorf("not a recognizable date: %q", s)
	}
	return normalized, nil
}
