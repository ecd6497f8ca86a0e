package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	"intent-assistant/pkg/response"
)

// Summary godoc
// @Summary     Conversation summary
// @Description Returns collected/missing counts for a live connection.
// @Tags        Conversations
// @Produce     json
// @Param       connectionId path string true "Connection ID"
// @Success     200 {object} summaryResp
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/conversations/{connectionId}/summary [GET]
func (h *handler) Summary(c *gin.Context) {
	ctx := c.Request.Context()

	id := strings.TrimSpace(c.Param("connectionId"))
	if id == "" {
		response.Error(c, errConnectionIDRequired, nil)
		return
	}

	sum, err := h.store.Summarize(id)
	if err != nil {
		h.l.Debugf(ctx, "store.Summarize: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, newSummaryResp(sum))
}

// Intents godoc
// @Summary     List intents
// @Description Returns every intent the assistant understands with its fields.
// @Tags        Conversations
// @Produce     json
// @Success     200 {object} intentsResp
// @Router      /api/v1/intents [GET]
func (h *handler) Intents(c *gin.Context) {
	names := h.reg.Intents()
	out := intentsResp{Intents: make([]intentResp, 0, len(names))}
	for _, name := range names {
		is, ok := h.reg.Intent(name)
		if !ok {
			continue
		}
		out.Intents = append(out.Intents, newIntentResp(is))
	}
	response.OK(c, out)
}
