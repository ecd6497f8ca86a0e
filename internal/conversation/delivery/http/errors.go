package http

import (
	"errors"
	"net/http"

	"intent-assistant/internal/conversation"
	pkgErrors "intent-assistant/pkg/errors"
)

var errConnectionIDRequired = pkgErrors.NewHTTPError(http.StatusBadRequest, "connectionId is required")

func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, conversation.ErrUnknownConnection):
		return pkgErrors.NewHTTPError(http.StatusNotFound, "connection not found")
	default:
		return pkgErrors.ErrInternalServerError
	}
}
