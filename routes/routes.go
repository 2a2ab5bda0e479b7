package routes

import (
	"net/http"
	"time"

	"github.com/kranthikiran885366/time-table-app/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAdminRoutes sets up the spreadsheet ingestion endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.POST("/upload-section-timetable", hb.UploadSectionTimetable)
		adminGroup.POST("/upload-strict-timetable", hb.UploadStrictTimetable)
		adminGroup.GET("/timetable-template", hb.DownloadTemplate)
	}
}

// RegisterTimetableRoutes sets up single-entry and schedule read endpoints.
func RegisterTimetableRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	timetableGroup := r.Group("/api/timetable")
	{
		timetableGroup.POST("", hb.CreateTimetable)
		timetableGroup.GET("/section/:code", hb.GetSectionSchedule)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAdminRoutes(r, hb)
	RegisterTimetableRoutes(r, hb)
	RegisterHealthRoute(r)
}
