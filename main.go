package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/certforge/CertPrepApi/achievements"
	"github.com/certforge/CertPrepApi/analytics"
	"github.com/certforge/CertPrepApi/auth"
	"github.com/certforge/CertPrepApi/dashboard"
	"github.com/certforge/CertPrepApi/db"
	"github.com/certforge/CertPrepApi/handlers"
	"github.com/certforge/CertPrepApi/jobs"
	"github.com/certforge/CertPrepApi/quiz"
	"github.com/certforge/CertPrepApi/readiness"
	"github.com/certforge/CertPrepApi/utils"
	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	utils.LogStartup("CertPrep API starting...")

	if err := godotenv.Load(); err != nil {
		utils.LogStartup("No .env file found, using environment as-is")
	}

	port := utils.GetEnvOrDefault("PORT", "8050")
	dbPath := utils.GetEnvOrDefault("DB_PATH", "./certprep.db")
	redisURL := utils.GetEnvOrDefault("REDIS_URL", "")

	utils.LogStartup("Initializing database connection...")
	database, err := db.InitDB(dbPath)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize database: %v", err)
	}

	sessionStore := auth.NewSessionStore()
	emailService := auth.NewEmailService(auth.LoadEmailConfig())

	aggregator := analytics.NewAggregator(database)
	assessor := readiness.NewAssessor()
	engine := achievements.NewEngine()
	selector := quiz.NewSelector()
	composer := dashboard.NewComposer(database, aggregator, assessor)

	// The job queue is optional: without redis, achievement notifications
	// and the weekly digest are simply skipped and everything else works.
	var jobManager *jobs.JobManager
	if redisURL != "" {
		jobManager = jobs.NewJobManager(redisURL)
		jobManager.RegisterHandlers(emailService, database, aggregator)
		if err := jobManager.ScheduleWeeklyDigest(); err != nil {
			utils.LogError("Failed to schedule weekly digest: %v", err)
		}
		go func() {
			if err := jobManager.Start(); err != nil {
				utils.LogError("Job queue stopped: %v", err)
			}
		}()
	} else {
		utils.LogStartup("REDIS_URL not set, notification jobs disabled")
	}

	utils.LogStartup("Setting up API routes...")
	router := handlers.NewRouter(database, sessionStore, &handlers.Deps{
		Aggregator: aggregator,
		Assessor:   assessor,
		Engine:     engine,
		Selector:   selector,
		Composer:   composer,
		Jobs:       jobManager,
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		utils.LogShutdown("Received shutdown signal, closing...")
		if jobManager != nil {
			jobManager.Stop()
		}
		if err := database.Close(); err != nil {
			utils.LogError("Error closing database: %v", err)
		} else {
			utils.LogShutdown("Database connection closed successfully")
		}
		os.Exit(0)
	}()

	utils.LogStartup("Starting HTTP server on port %s...", port)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("[FATAL] Server failed to start: %v", err)
	}
}
