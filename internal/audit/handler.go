package audit

import (
	"net/http"

	"github.com/edutec/alunos-api/pkg/response"
	"github.com/gin-gonic/gin"
)

// Handler serves the activity log listing
type Handler struct {
	recorder *Recorder
}

// NewHandler creates a new activity log handler
func NewHandler(recorder *Recorder) *Handler {
	return &Handler{recorder: recorder}
}

// List returns the most recent activity entries. Route is admin-only.
// GET /api/logs
func (h *Handler) List(c *gin.Context) {
	logs, err := h.recorder.ListRecent(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, logs)
}
