package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPError(t *testing.T) {
	err := NewHTTPError(http.StatusConflict, "duplicate")
	if err.Error() != "duplicate" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.String() != "409 duplicate" {
		t.Errorf("String() = %q", err.String())
	}

	wrapped := fmt.Errorf("handler: %w", err)
	var he *HTTPError
	if !errors.As(wrapped, &he) || he.StatusCode != http.StatusConflict {
		t.Fatalf("errors.As failed on %v", wrapped)
	}
}
