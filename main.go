package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kranthikiran885366/time-table-app/config"
	"github.com/kranthikiran885366/time-table-app/cron"
	"github.com/kranthikiran885366/time-table-app/database"
	facultyRepoPkg "github.com/kranthikiran885366/time-table-app/database/repository/faculty"
	roomRepoPkg "github.com/kranthikiran885366/time-table-app/database/repository/room"
	sectionRepoPkg "github.com/kranthikiran885366/time-table-app/database/repository/section"
	subjectRepoPkg "github.com/kranthikiran885366/time-table-app/database/repository/subject"
	timetableRepoPkg "github.com/kranthikiran885366/time-table-app/database/repository/timetable"
	"github.com/kranthikiran885366/time-table-app/handlers"
	"github.com/kranthikiran885366/time-table-app/middleware"
	"github.com/kranthikiran885366/time-table-app/routes"
	"github.com/kranthikiran885366/time-table-app/services/ingest"
	timetableService "github.com/kranthikiran885366/time-table-app/services/timetable"
	"github.com/kranthikiran885366/time-table-app/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	sectionRepo := sectionRepoPkg.NewMongoSectionRepo()
	subjectRepo := subjectRepoPkg.NewMongoSubjectRepo()
	roomRepo := roomRepoPkg.NewMongoRoomRepo()
	facultyRepo := facultyRepoPkg.NewMongoFacultyRepo()
	timetableRepo := timetableRepoPkg.NewMongoTimetableRepo()

	// services.
	detector := timetableService.NewDetector()

	scheduleService := &timetableService.DefaultTimetableService{
		Repo:     timetableRepo,
		Sections: sectionRepo,
		Rooms:    roomRepo,
		Detector: detector,
	}

	queueClient := cron.NewQueueClient()
	cron.InitScheduleWorker(scheduleService)

	ingestService := &ingest.DefaultIngestService{
		Resolver: &ingest.Resolver{
			Sections: sectionRepo,
			Subjects: subjectRepo,
			Rooms:    roomRepo,
			Faculty:  facultyRepo,
		},
		Committer: &ingest.Committer{
			Timetable: timetableRepo,
			Sections:  sectionRepo,
			Queue:     queueClient,
		},
		Timetable: timetableRepo,
		Detector:  detector,
	}

	uploadHandler := handlers.NewUploadHandler(ingestService)
	scheduleHandler := handlers.NewTimetableHandler(scheduleService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		UploadSectionTimetable: uploadHandler.UploadSectionTimetable,
		UploadStrictTimetable:  uploadHandler.UploadStrictTimetable,
		DownloadTemplate:       uploadHandler.DownloadTemplate,

		CreateTimetable:    scheduleHandler.CreateTimetable,
		GetSectionSchedule: scheduleHandler.GetSectionSchedule,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
