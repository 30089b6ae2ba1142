// Package tracking exposes the ticket-status lookup flow over HTTP.
package tracking

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apptracking "github.com/SlnkoEnergy/Client-O-M/internal/application/tracking"
	"github.com/SlnkoEnergy/Client-O-M/internal/interfaces/http/middleware"
	"github.com/SlnkoEnergy/Client-O-M/internal/shared/errors"
	"github.com/SlnkoEnergy/Client-O-M/internal/shared/logger"
	"github.com/SlnkoEnergy/Client-O-M/internal/shared/utils"
)

// SearchRequest asks for tickets by ticket number or phone number.
type SearchRequest struct {
	Query string `json:"query" validate:"required"`
}

// SelectRequest opens one result from the disambiguation list.
type SelectRequest struct {
	Index *int `json:"index" validate:"required"`
}

type Handler struct {
	logger logger.Interface
}

func NewHandler(log logger.Interface) *Handler {
	return &Handler{logger: log}
}

func (h *Handler) controller(c *gin.Context) *apptracking.Controller {
	session := middleware.SessionFrom(c)
	if session == nil {
		utils.ErrorResponseWithError(c, errors.NewInternalError("no session on request"))
		return nil
	}
	return session.Tracking
}

// Search handles POST /api/tracking/search
func (h *Handler) Search(c *gin.Context) {
	ctrl := h.controller(c)
	if ctrl == nil {
		return
	}

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for ticket search", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body"))
		return
	}

	if err := ctrl.Search(c.Request.Context(), req.Query); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", ctrl.Snapshot())
}

// Select handles POST /api/tracking/select
func (h *Handler) Select(c *gin.Context) {
	ctrl := h.controller(c)
	if ctrl == nil {
		return
	}

	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if *req.Index < 0 {
		ctrl.Deselect()
	} else if err := ctrl.SelectResult(*req.Index); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", ctrl.Snapshot())
}

// ToggleAttachments handles POST /api/tracking/attachments/toggle
func (h *Handler) ToggleAttachments(c *gin.Context) {
	ctrl := h.controller(c)
	if ctrl == nil {
		return
	}

	if _, err := ctrl.ToggleAttachments(); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", ctrl.Snapshot())
}

// Clear handles POST /api/tracking/clear
func (h *Handler) Clear(c *gin.Context) {
	ctrl := h.controller(c)
	if ctrl == nil {
		return
	}
	ctrl.Clear()
	utils.SuccessResponse(c, http.StatusOK, "", ctrl.Snapshot())
}

// State handles GET /api/tracking/state
func (h *Handler) State(c *gin.Context) {
	ctrl := h.controller(c)
	if ctrl == nil {
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", ctrl.Snapshot())
}
