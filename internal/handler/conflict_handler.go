package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-adp-api/internal/conflict"
	internalmiddleware "github.com/noah-isme/sma-adp-api/internal/middleware"
	"github.com/noah-isme/sma-adp-api/internal/models"
	"github.com/noah-isme/sma-adp-api/internal/service"
	appErrors "github.com/noah-isme/sma-adp-api/pkg/errors"
	"github.com/noah-isme/sma-adp-api/pkg/response"
)

// ConflictHandler exposes detection and guided repair of schedule conflicts.
type ConflictHandler struct {
	service *service.ConflictService
}

// NewConflictHandler constructs handler.
func NewConflictHandler(svc *service.ConflictService) *ConflictHandler {
	return &ConflictHandler{service: svc}
}

// List godoc
// @Summary List detected conflicts for a schedule
// @Tags Conflicts
// @Produce json
// @Param id path int true "Schedule ID"
// @Param status query string false "Filter by status"
// @Param dimension query string false "Filter by dimension"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/conflicts [get]
func (h *ConflictHandler) List(c *gin.Context) {
	scheduleID, err := idParam(c, "id")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid schedule id"))
		return
	}
	var filter models.ScheduleConflictFilter
	filter.ScheduleID = scheduleID
	filter.Status = models.ConflictStatus(c.Query("status"))
	filter.Dimension = models.ConflictDimension(c.Query("dimension"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.PageSize = limit
	}

	rows, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, pagination, internalmiddleware.ExtractMeta(c))
}

// Detect godoc
// @Summary Re-run conflict detection over a schedule's current assignments
// @Tags Conflicts
// @Produce json
// @Param id path int true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/conflicts/detect [post]
func (h *ConflictHandler) Detect(c *gin.Context) {
	scheduleID, err := idParam(c, "id")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid schedule id"))
		return
	}
	found, cacheHit, err := h.service.Detect(c.Request.Context(), scheduleID)
	if err != nil {
		response.Error(c, err)
		return
	}
	internalmiddleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, found, nil, internalmiddleware.ExtractMeta(c))
}

// Propose godoc
// @Summary List candidate repair moves for one conflict
// @Tags Conflicts
// @Produce json
// @Param id path int true "Schedule ID"
// @Param conflictId path int true "Conflict ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/conflicts/{conflictId}/resolutions [get]
func (h *ConflictHandler) Propose(c *gin.Context) {
	scheduleID, err := idParam(c, "id")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid schedule id"))
		return
	}
	conflictID, err := idParam(c, "conflictId")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid conflict id"))
		return
	}
	proposals, err := h.service.Propose(c.Request.Context(), scheduleID, conflictID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, proposals, nil)
}

// applyResolutionRequest selects one previously-proposed resolution to apply.
type applyResolutionRequest struct {
	Action    conflict.ActionKind `json:"action" validate:"required"`
	DetailID  int64               `json:"detail_id" validate:"required"`
	RoomID    int64               `json:"room_id"`
	TimeSlot  int64               `json:"time_slot"`
	TeacherID int64               `json:"teacher_id"`
}

// Apply godoc
// @Summary Apply a chosen repair move for one conflict
// @Tags Conflicts
// @Accept json
// @Produce json
// @Param id path int true "Schedule ID"
// @Param conflictId path int true "Conflict ID"
// @Param payload body applyResolutionRequest true "Chosen resolution"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/conflicts/{conflictId}/resolutions [post]
func (h *ConflictHandler) Apply(c *gin.Context) {
	scheduleID, err := idParam(c, "id")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid schedule id"))
		return
	}
	conflictID, err := idParam(c, "conflictId")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid conflict id"))
		return
	}
	var req applyResolutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	res := conflict.Resolution{
		DetailID:  req.DetailID,
		Action:    req.Action,
		RoomID:    req.RoomID,
		TimeSlot:  req.TimeSlot,
		TeacherID: req.TeacherID,
	}
	if err := h.service.Apply(c.Request.Context(), scheduleID, conflictID, res); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"status": "applied"}, nil)
}
