package retry

import "time"

// Config tunes the invoker.
type Config struct {
	Timeout time.Duration
}

// EnhancedOutput is the original output with the retry's values merged in.
type EnhancedOutput struct {
	Fields  map[string]any
	Sources []string
}
