package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/meetingflow-team/meetingflow/pkg/validator"

	"github.com/meetingflow-team/meetingflow/internal/adapter/handler"
	"github.com/meetingflow-team/meetingflow/internal/adapter/repository"
	"github.com/meetingflow-team/meetingflow/internal/infrastructure/cache"
	"github.com/meetingflow-team/meetingflow/internal/infrastructure/database"
	"github.com/meetingflow-team/meetingflow/internal/infrastructure/external/assemblyai"
	"github.com/meetingflow-team/meetingflow/internal/infrastructure/queue"
	"github.com/meetingflow-team/meetingflow/internal/infrastructure/storage"
	aiuse "github.com/meetingflow-team/meetingflow/internal/usecase/ai"
	meetinguse "github.com/meetingflow-team/meetingflow/internal/usecase/meeting"
	"github.com/meetingflow-team/meetingflow/internal/usecase/transcription"
	"github.com/meetingflow-team/meetingflow/pkg/config"
	"github.com/meetingflow-team/meetingflow/pkg/llm"
)

// @title           MeetingFlow API
// @version         1.0
// @description     Meeting intelligence API: transcript summarization, action item extraction, and custom insights

// @host      localhost:8080
// @BasePath  /api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "X-Request-ID"},
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; run the migrate script to manage schema")
	}

	// Initialize Redis
	log.Println("📦 Connecting to Redis...")
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize object storage
	log.Println("📦 Connecting to object storage...")
	minioClient, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	meetingRepo := repository.NewMeetingRepository(db)
	participantRepo := repository.NewParticipantRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)
	actionItemRepo := repository.NewActionItemRepository(db)
	jobRepo := repository.NewSummaryJobRepository(db)
	templateRepo := repository.NewInsightTemplateRepository(db)
	resultRepo := repository.NewInsightResultRepository(db)
	recordingRepo := repository.NewRecordingRepository(db)

	// Initialize LLM providers
	log.Println("🤖 Initializing LLM providers...")
	registry := llm.NewRegistry()
	if cfg.LLM.HasAnthropic() {
		registry.Register(llm.NewAnthropicClient(cfg.LLM.AnthropicAPIKey, cfg.LLM.AnthropicModel))
		log.Printf("✅ Anthropic provider registered (%s)", cfg.LLM.AnthropicModel)
	}
	if cfg.LLM.HasOpenAI() {
		registry.Register(llm.NewOpenAIClient(cfg.LLM.OpenAIAPIKey, cfg.LLM.OpenAIModel, cfg.LLM.OpenAIBaseURL, cfg.LLM.RequestTimeout))
		log.Printf("✅ OpenAI provider registered (%s)", cfg.LLM.OpenAIModel)
	}

	models := map[llm.Provider]string{
		llm.ProviderAnthropic: cfg.LLM.AnthropicModel,
		llm.ProviderOpenAI:    cfg.LLM.OpenAIModel,
	}
	selector := aiuse.NewSelector(registry, cfg.LLM.SelectionThreshold, models)
	generator := aiuse.NewGenerator(selector, registry, cfg.LLM.MaxRetries, cfg.LLM.RetryDelay, logger)
	chunker := aiuse.NewChunker(cfg.LLM.MaxWordsPerChunk)

	tuning := aiuse.Tuning{
		MaxTokens:     cfg.LLM.MaxTokens,
		Temperature:   cfg.LLM.Temperature,
		PromptVersion: cfg.LLM.PromptVersion,
	}
	engine := aiuse.NewService(generator, chunker, meetingRepo, transcriptRepo, participantRepo, summaryRepo, actionItemRepo, tuning, logger)
	insightsService := aiuse.NewInsightsService(generator, templateRepo, resultRepo, transcriptRepo, cache.NewMemoryStore(), logger)

	// Initialize job queue and workers
	log.Println("📬 Initializing summary queue...")
	jobQueue := queue.NewQueue(redisClient, jobRepo, cfg.Queue.Key, cfg.Queue.MaxAttempts, logger)
	workers := queue.NewWorkerPool(jobQueue, jobRepo, engine, cfg.Queue.Workers, cfg.Queue.PollTimeout, cfg.Queue.JobTimeout, logger)
	workers.Start()

	// Initialize transcription pipeline
	log.Println("🎙  Initializing transcription pipeline...")
	aaiClient := assemblyai.NewClient(&cfg.AssemblyAI)
	transcriptionService := transcription.NewService(
		recordingRepo,
		transcriptRepo,
		meetingRepo,
		minioClient,
		aaiClient,
		jobQueue,
		cfg.Storage.URLExpiry,
		cfg.AssemblyAI.AutoSummarize,
		logger,
	)

	// Initialize meeting service
	meetingService := meetinguse.NewService(
		meetingRepo,
		participantRepo,
		transcriptRepo,
		summaryRepo,
		actionItemRepo,
		jobRepo,
		jobQueue,
		logger,
	)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	meetingHandler := handler.NewMeeting(meetingService, logger)
	insightHandler := handler.NewInsight(insightsService, logger)
	recordingHandler := handler.NewRecording(transcriptionService, logger)
	webhookHandler := handler.NewWebhook(transcriptionService, cfg.AssemblyAI.WebhookSecret, logger)

	router := handler.NewRouter(cfg, meetingHandler, insightHandler, recordingHandler, webhookHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	// Let in-flight summarization jobs finish before exiting.
	workers.Stop()

	log.Println("✅ Server stopped gracefully")
}
