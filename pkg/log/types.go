package log

// ZapConfig configures the zap-backed Logger.
type ZapConfig struct {
	Level        string // debug, info, warn, error
	Mode         string // debug | production
	Encoding     string // console | json
	ColorEnabled bool
}

type ctxKey string

// Context keys whose values are attached to every log line.
const (
	ConnectionIDKey ctxKey = "connection_id"
	TraceIDKey      ctxKey = "trace_id"
)
