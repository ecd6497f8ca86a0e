package schema

import (
	"fmt"
)

const reasonNoIntents = "no intents declared"

// SchemaError reports an invalid schema file. It is fatal at startup.
type SchemaError struct {
	Intent string
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	switch {
	case e.Intent == "":
		return fmt.Sprintf("schema: %s", e.Reason)
	case e.Field == "":
		return fmt.Sprintf("schema: intent %q: %s", e.Intent, e.Reason)
	default:
		return fmt.Sprintf("schema: intent %q field %q: %s", e.Intent, e.Field, e.Reason)
	}
}
