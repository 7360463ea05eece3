package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/interview-ace/internal/bootstrap"
	"alfredoptarigan/interview-ace/internal/config"
	"alfredoptarigan/interview-ace/internal/handlers"
	"alfredoptarigan/interview-ace/internal/repositories"
	"alfredoptarigan/interview-ace/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	log.Println("✅ Config loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	interviewRepo := repositories.NewInterviewRepository(db)
	userRepo := repositories.NewUserRepository(db)
	reportRepo := repositories.NewVideoReportRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	documentParser := services.NewPDFParserService()
	authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	reportService := services.NewReportService(reportRepo, storageService)
	log.Println("✅ Services initialized successfully")

	gateway, embedder, err := bootstrap.ModelProvider(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	index, err := bootstrap.InterviewIndex(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	// Indexing worker only runs when search is configured
	var (
		indexQueue services.IndexQueue
		worker     services.Worker
	)
	if index != nil {
		indexer := services.NewIndexerService(interviewRepo, embedder, index)
		worker = services.NewWorker(interviewRepo, indexer, cfg.Worker.Concurrency, cfg.Worker.PollInterval)
		worker.Start(ctx)
		indexQueue = worker
		log.Println("✅ Worker started successfully")
	} else {
		embedder = nil
	}
	historyService := services.NewHistoryService(interviewRepo, embedder, index)

	// Interview sessions
	sessions := services.NewSessionManager()
	sessions.StartJanitor(ctx, cfg.Interview.SessionTTL, cfg.Interview.SweepInterval)

	orchestrator := services.NewTurnOrchestrator(gateway, cfg.LLM.Timeout)
	interviewService := services.NewInterviewService(
		sessions,
		orchestrator,
		interviewRepo,
		indexQueue,
		services.InterviewOptions{MaxTurns: cfg.Interview.MaxTurns},
	)
	log.Println("✅ Interview service initialized")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	routes := handlers.Handlers{
		Interview: handlers.NewInterviewHandler(interviewService, documentParser, authService, cfg.Storage.MaxFileSize),
		Auth:      authHandler,
		History:   handlers.NewHistoryHandler(historyService),
		Report:    handlers.NewReportHandler(reportService, cfg.Storage.MaxFileSize),
	}
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "InterviewAce API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.LLM.Timeout + 30*time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, " + handlers.SessionHeader,
		ExposeHeaders: handlers.SessionHeader + ", X-Interview-Id",
	}))

	// Health check
	app.Get("/api/v1/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":          "healthy",
			"active_sessions": sessions.Count(),
			"time":            time.Now(),
		})
	})

	handlers.Register(app, routes)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "InterviewAce API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/auth/signup",
				"POST /api/v1/auth/login",
				"POST /api/v1/interview/start",
				"POST /api/v1/interview/turn",
				"POST /api/v1/interview/end",
				"DELETE /api/v1/interview",
				"GET /api/v1/interviews",
				"GET /api/v1/interviews/:id",
				"GET /api/v1/interviews/search?q=",
				"POST /api/v1/interview-video/report",
				"GET /api/v1/videos/:id",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		cancel()
		if worker != nil {
			worker.Stop()
		}
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)
	log.Printf("📖 API Documentation: http://localhost%s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
