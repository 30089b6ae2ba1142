// Package intake exposes the complaint-intake flow over HTTP. Every
// mutation answers with the refreshed flow snapshot so the client never
// has to derive state transitions itself.
package intake

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appintake "github.com/SlnkoEnergy/Client-O-M/internal/application/intake"
	"github.com/SlnkoEnergy/Client-O-M/internal/infrastructure/capture"
	"github.com/SlnkoEnergy/Client-O-M/internal/interfaces/http/middleware"
	"github.com/SlnkoEnergy/Client-O-M/internal/shared/errors"
	"github.com/SlnkoEnergy/Client-O-M/internal/shared/logger"
	"github.com/SlnkoEnergy/Client-O-M/internal/shared/utils"
)

// maxChunkBytes caps one uploaded audio chunk.
const maxChunkBytes = 1 << 20

type Handler struct {
	logger logger.Interface
}

func NewHandler(log logger.Interface) *Handler {
	return &Handler{logger: log}
}

func (h *Handler) controller(c *gin.Context) *appintake.Controller {
	session := middleware.SessionFrom(c)
	if session == nil {
		utils.ErrorResponseWithError(c, errors.NewInternalError("no session on request"))
		return nil
	}
	return session.Intake
}

// Lookup handles POST /api/complaint/lookup
func (h *Handler) Lookup(c *gin.Context) {
	ctrl := h.controller(c)
	if ctrl == nil {
		return
	}

	var req LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for lookup", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if _, err := ctrl.LookupByPhone(c.Request.Context(), req.Number); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", ctrl.Snapshot())
}

// SelectProject handles POST /api/complaint/project
func (h *Handler) SelectProject(c *gin.Context) {
	ctrl := h.controller(c)
	if ctrl == nil {
		return
	}

	var req SelectProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := ctrl.SelectProject(c.Request.Context(), req.ProjectID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", ctrl.Snapshot())
}

// SelectEquipment handles POST /api/complaint/equipment
func (h *Handler) SelectEquipment(c *gin.Context) {
	ctrl := h.controller(c)
	if ctrl == nil {
		return
	}

	var req SelectEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := ctrl.SelectEquipment(req.EquipmentID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", ctrl.Snapshot())
}

// SetFault handles POST /api/complaint/fault
func (h *Handler) SetFault(c *gin.Context) {
	ctrl := h.controller(c)
	if ctrl == nil {
		return
	}

	var req FaultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body"))
		return
	}

	if err := ctrl.SetFaultDescription(req.Fault, req.Details); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", ctrl.Snapshot())
}

// AddAttachments handles POST /api/complaint/attachments. Files arrive as
// repeated "file" parts; an optional parallel "last_modified" field carries
// each file's client-side modification time in unix milliseconds, which
// feeds duplicate detection.
func (h *Handler) AddAttachments(c *gin.Context) {
	ctrl := h.controller(c)
	if ctrl == nil {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid multipart payload"))
		return
	}
	files := form.File["file"]
	if len(files) == 0 {
		utils.ErrorResponseWithError(c, errors.NewValidationError("no files provided"))
		return
	}
	lastModified := form.Value["last_modified"]

	inputs := make([]appintake.FileInput, 0, len(files))
	for i, fh := range files {
		f, err := fh.Open()
		if err != nil {
			utils.ErrorResponseWithError(c, errors.NewValidationError("unreadable file part", fh.Filename))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			utils.ErrorResponseWithError(c, errors.NewValidationError("unreadable file part", fh.Filename))
			return
		}

		var lm int64
		if i < len(lastModified) {
			lm, _ = strconv.ParseInt(lastModified[i], 10, 64)
		}
		inputs = append(inputs, appintake.FileInput{
			Name:         fh.Filename,
			Size:         fh.Size,
			LastModified: lm,
			MIMEType:     fh.Header.Get("Content-Type"),
			Data:         data,
		})
	}

	if _, err := ctrl.AddAttachments(inputs); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", ctrl.Snapshot())
}

// RemoveAttachment handles DELETE /api/complaint/attachments/:index
func (h *Handler) RemoveAttachment(c *gin.Context) {
	ctrl := h.controller(c)
	if ctrl == nil {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid attachment index"))
		return
	}
	if err := ctrl.RemoveAttachment(index); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", ctrl.Snapshot())
}

// StartRecording handles POST /api/complaint/recording/start
func (h *Handler) StartRecording(c *gin.Context) {
	ctrl := h.controller(c)
	if ctrl == nil {
		return
	}

	var req StartRecordingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body"))
		return
	}

	ctx := capture.WithReport(c.Request.Context(), capture.ClientReport{
		Supported:  req.Supported,
		Permission: req.Permission,
		MIMEType:   req.MIMEType,
	})
	if err := ctrl.StartRecording(ctx); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", ctrl.Snapshot())
}

// AppendChunk handles POST /api/complaint/recording/chunk. The body is the
// raw audio chunk.
func (h *Handler) AppendChunk(c *gin.Context) {
	ctrl := h.controller(c)
	if ctrl == nil {
		return
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxChunkBytes+1))
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("unreadable chunk body"))
		return
	}
	if len(data) > maxChunkBytes {
		utils.ErrorResponseWithError(c, errors.NewCapacityError("audio chunk too large"))
		return
	}

	if err := ctrl.AppendRecordingChunk(data); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", ctrl.Snapshot())
}

// StopRecording handles POST /api/complaint/recording/stop
func (h *Handler) StopRecording(c *gin.Context) {
	ctrl := h.controller(c)
	if ctrl == nil {
		return
	}
	ctrl.StopRecording()
	utils.SuccessResponse(c, http.StatusOK, "", ctrl.Snapshot())
}

// RemoveVoiceClip handles DELETE /api/complaint/voice/:index
func (h *Handler) RemoveVoiceClip(c *gin.Context) {
	ctrl := h.controller(c)
	if ctrl == nil {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid voice clip index"))
		return
	}
	if err := ctrl.RemoveVoiceClip(index); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", ctrl.Snapshot())
}

// Submit handles POST /api/complaint/submit
func (h *Handler) Submit(c *gin.Context) {
	ctrl := h.controller(c)
	if ctrl == nil {
		return
	}

	receipt, err := ctrl.Submit(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, gin.H{
		"ticket_id": receipt.TicketID,
		"snapshot":  ctrl.Snapshot(),
	}, receipt.Message)
}

// Reset handles POST /api/complaint/reset
func (h *Handler) Reset(c *gin.Context) {
	ctrl := h.controller(c)
	if ctrl == nil {
		return
	}
	ctrl.Reset()
	utils.SuccessResponse(c, http.StatusOK, "", ctrl.Snapshot())
}

// State handles GET /api/complaint/state
func (h *Handler) State(c *gin.Context) {
	ctrl := h.controller(c)
	if ctrl == nil {
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", ctrl.Snapshot())
}
