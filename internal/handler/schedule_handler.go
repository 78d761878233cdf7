package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-adp-api/internal/models"
	"github.com/noah-isme/sma-adp-api/internal/service"
	appErrors "github.com/noah-isme/sma-adp-api/pkg/errors"
	"github.com/noah-isme/sma-adp-api/pkg/response"
)

// ScheduleHandler manages the schedule container, its generation run, and
// its manual-edit surface over schedule details.
type ScheduleHandler struct {
	service *service.ScheduleService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// List godoc
// @Summary List schedules
// @Tags Schedules
// @Produce json
// @Param academic_year query string false "Filter by academic year"
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	var filter models.ScheduleFilter
	filter.AcademicYear = c.Query("academic_year")
	filter.Status = models.ScheduleStatus(c.Query("status"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	schedules, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules, pagination)
}

// Get godoc
// @Summary Get schedule detail
// @Tags Schedules
// @Produce json
// @Param id path int true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid schedule id"))
		return
	}
	schedule, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Create godoc
// @Summary Create an empty schedule container
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body service.CreateScheduleRequest true "Schedule payload"
// @Success 201 {object} response.Envelope
// @Router /schedules [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req service.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	schedule, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, schedule)
}

// Delete godoc
// @Summary Delete schedule
// @Tags Schedules
// @Param id path int true "Schedule ID"
// @Success 204
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid schedule id"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Generate godoc
// @Summary Start a genetic-scheduler run for this schedule
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path int true "Schedule ID"
// @Param payload body service.GenerateRequest false "GA parameter overrides"
// @Success 202 {object} response.Envelope
// @Router /schedules/{id}/generate [post]
func (h *ScheduleHandler) Generate(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid schedule id"))
		return
	}
	var req service.GenerateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
	}
	if err := h.service.Generate(c.Request.Context(), id, req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, gin.H{"schedule_id": id, "status": "accepted"}, nil)
}

// CancelGeneration godoc
// @Summary Request cancellation of an active generation run
// @Tags Schedules
// @Param id path int true "Schedule ID"
// @Success 202 {object} response.Envelope
// @Router /schedules/{id}/generate [delete]
func (h *ScheduleHandler) CancelGeneration(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid schedule id"))
		return
	}
	h.service.CancelGeneration(c.Request.Context(), id)
	response.JSON(c, http.StatusAccepted, gin.H{"schedule_id": id, "status": "cancel_requested"}, nil)
}

// ListDetails godoc
// @Summary List a schedule's lesson assignments
// @Tags Schedules
// @Produce json
// @Param id path int true "Schedule ID"
// @Param class_id query int false "Filter by class"
// @Param teacher_id query int false "Filter by teacher"
// @Param room_id query int false "Filter by room"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/details [get]
func (h *ScheduleHandler) ListDetails(c *gin.Context) {
	scheduleID, err := idParam(c, "id")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid schedule id"))
		return
	}
	var filter models.ScheduleDetailFilter
	filter.ScheduleID = scheduleID
	if classID, err := strconv.ParseInt(c.Query("class_id"), 10, 64); err == nil {
		filter.ClassID = classID
	}
	if teacherID, err := strconv.ParseInt(c.Query("teacher_id"), 10, 64); err == nil {
		filter.TeacherID = teacherID
	}
	if roomID, err := strconv.ParseInt(c.Query("room_id"), 10, 64); err == nil {
		filter.RoomID = roomID
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "100")); err == nil {
		filter.PageSize = limit
	}

	rows, pagination, err := h.service.ListDetails(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, pagination)
}

// UpdateDetail godoc
// @Summary Manually edit a single lesson assignment
// @Tags Schedules
// @Accept json
// @Produce json
// @Param detailId path int true "Schedule Detail ID"
// @Param payload body models.ScheduleDetailUpdate true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /schedule-details/{detailId} [put]
func (h *ScheduleHandler) UpdateDetail(c *gin.Context) {
	detailID, err := idParam(c, "detailId")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid schedule detail id"))
		return
	}
	var patch models.ScheduleDetailUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	detail, err := h.service.UpdateDetail(c.Request.Context(), detailID, patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// DeleteDetail godoc
// @Summary Remove a single lesson assignment
// @Tags Schedules
// @Param detailId path int true "Schedule Detail ID"
// @Success 204
// @Router /schedule-details/{detailId} [delete]
func (h *ScheduleHandler) DeleteDetail(c *gin.Context) {
	detailID, err := idParam(c, "detailId")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid schedule detail id"))
		return
	}
	if err := h.service.DeleteDetail(c.Request.Context(), detailID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
