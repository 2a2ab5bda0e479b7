package handlers

import (
	"io"
	"net/http"

	"github.com/kranthikiran885366/time-table-app/config"
	"github.com/kranthikiran885366/time-table-app/services/ingest"
	"github.com/kranthikiran885366/time-table-app/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UploadHandler serves the spreadsheet ingestion endpoints.
type UploadHandler struct {
	Service ingest.IngestService
}

// NewUploadHandler wires the ingest service into HTTP handlers.
func NewUploadHandler(svc ingest.IngestService) *UploadHandler {
	return &UploadHandler{Service: svc}
}

// UploadSectionTimetable handles the lenient-profile upload. Form fields:
// file (workbook), dryRun, mode (replace|merge), skipConflictCheck.
func (h *UploadHandler) UploadSectionTimetable(c *gin.Context) {
	logger := getLogger(c)

	data, ok := h.readWorkbook(c)
	if !ok {
		return
	}

	opts := ingest.UploadOptions{
		DryRun:            c.PostForm("dryRun") == "true",
		Mode:              ingest.ParseCommitMode(c.PostForm("mode")),
		SkipConflictCheck: c.PostForm("skipConflictCheck") == "true",
	}

	report, err := h.Service.UploadLenient(c.Request.Context(), data, opts)
	if err != nil {
		h.writeError(c, logger, err)
		return
	}
	if !report.Success {
		c.JSON(http.StatusConflict, report)
		return
	}
	c.JSON(http.StatusOK, report)
}

// UploadStrictTimetable handles the zero-tolerance upload. Form fields:
// file (workbook), dryRun.
func (h *UploadHandler) UploadStrictTimetable(c *gin.Context) {
	logger := getLogger(c)

	data, ok := h.readWorkbook(c)
	if !ok {
		return
	}

	report, err := h.Service.UploadStrict(c.Request.Context(), data, c.PostForm("dryRun") == "true")
	if err != nil {
		h.writeError(c, logger, err)
		return
	}
	if !report.Success {
		c.JSON(http.StatusConflict, report)
		return
	}
	c.JSON(http.StatusOK, report)
}

// DownloadTemplate streams a sample workbook in the expected grid layout.
func (h *UploadHandler) DownloadTemplate(c *gin.Context) {
	logger := getLogger(c)

	data, err := h.Service.Template()
	if err != nil {
		logger.Error("Failed to build timetable template", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to build template", "")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="timetable-template.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *UploadHandler) readWorkbook(c *gin.Context) ([]byte, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Missing workbook file", "attach the spreadsheet as form field \"file\"")
		return nil, false
	}
	if max := config.AppConfig.MaxUploadBytes; max > 0 && fileHeader.Size > max {
		utils.JSONError(c, http.StatusRequestEntityTooLarge, "Workbook too large", "")
		return nil, false
	}

	f, err := fileHeader.Open()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Unreadable workbook file", "")
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Unreadable workbook file", "")
		return nil, false
	}
	return data, true
}

// writeError maps pipeline errors to HTTP responses: validation failures
// carry their full detail back to the author, storage faults are surfaced
// minimally and logged server-side.
func (h *UploadHandler) writeError(c *gin.Context, logger *zap.Logger, err error) {
	if ve, ok := err.(*ingest.ValidationError); ok {
		logger.Warn("Timetable upload rejected", zap.String("reason", ve.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"success":         false,
			"message":         ve.Message,
			"missingSections": ve.MissingSections,
			"missingFaculty":  ve.MissingFaculty,
			"missingRooms":    ve.MissingRooms,
		})
		return
	}
	logger.Error("Timetable upload failed", zap.Error(err))
	utils.JSONError(c, http.StatusInternalServerError, "Upload failed", "try again later")
}
