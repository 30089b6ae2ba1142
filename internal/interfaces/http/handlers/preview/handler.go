// Package preview serves the session-scoped preview blobs referenced by
// attachment and voice-clip views.
package preview

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SlnkoEnergy/Client-O-M/internal/interfaces/http/middleware"
	"github.com/SlnkoEnergy/Client-O-M/internal/shared/errors"
	"github.com/SlnkoEnergy/Client-O-M/internal/shared/utils"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Serve handles GET /preview/:token. Handles are scoped to the caller's
// session: a token from another session is indistinguishable from an
// unknown one.
func (h *Handler) Serve(c *gin.Context) {
	session := middleware.SessionFrom(c)
	if session == nil {
		utils.ErrorResponseWithError(c, errors.NewInternalError("no session on request"))
		return
	}

	token := c.Param("token")
	name, mimeType, data, ok := session.Intake.Previews().Open(token)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewNotFoundError("preview not found"))
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+name+`"`)
	c.Header("Content-Length", strconv.Itoa(len(data)))
	c.Header("Cache-Control", "private, no-store")
	c.Data(http.StatusOK, mimeType, data)
}
