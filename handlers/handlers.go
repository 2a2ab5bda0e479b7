package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups every HTTP handler the router needs.
type HandlerBundle struct {
	// Admin ingestion endpoints.
	UploadSectionTimetable gin.HandlerFunc
	UploadStrictTimetable  gin.HandlerFunc
	DownloadTemplate       gin.HandlerFunc

	// Timetable endpoints.
	CreateTimetable    gin.HandlerFunc
	GetSectionSchedule gin.HandlerFunc
}
