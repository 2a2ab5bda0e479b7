package handlers

import (
	"errors"
	"net/http"

	"github.com/kranthikiran885366/time-table-app/models"
	timetableService "github.com/kranthikiran885366/time-table-app/services/timetable"
	"github.com/kranthikiran885366/time-table-app/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TimetableHandler serves single-entry creation and schedule reads.
type TimetableHandler struct {
	Service timetableService.TimetableService
}

// NewTimetableHandler wires the timetable service into HTTP handlers.
func NewTimetableHandler(svc timetableService.TimetableService) *TimetableHandler {
	return &TimetableHandler{Service: svc}
}

// CreateTimetable creates one schedule entry, rejecting it on any blocking
// conflict including the daily faculty workload ceiling.
func (h *TimetableHandler) CreateTimetable(c *gin.Context) {
	logger := getLogger(c)

	var entry models.TimetableEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	conflicts, err := h.Service.Create(c.Request.Context(), &entry)
	switch {
	case errors.Is(err, timetableService.ErrScheduleConflict):
		c.JSON(http.StatusConflict, gin.H{
			"success":   false,
			"message":   "entry conflicts with the existing schedule",
			"conflicts": conflicts,
		})
	case errors.Is(err, timetableService.ErrInvalidEntry):
		utils.JSONError(c, http.StatusBadRequest, "Invalid timetable entry", err.Error())
	case err != nil:
		logger.Error("Failed to create timetable entry", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to create entry", "try again later")
	default:
		c.JSON(http.StatusCreated, gin.H{
			"success":   true,
			"entry":     entry,
			"conflicts": conflicts,
		})
	}
}

// GetSectionSchedule returns the persisted schedule for one section.
func (h *TimetableHandler) GetSectionSchedule(c *gin.Context) {
	logger := getLogger(c)

	sectionCode := c.Param("code")
	entries, err := h.Service.GetSectionSchedule(c.Request.Context(), sectionCode)
	if err != nil {
		logger.Error("Failed to fetch section schedule",
			zap.String("section", sectionCode), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch schedule", "try again later")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sectionCode": sectionCode,
		"count":       len(entries),
		"entries":     entries,
	})
}
