package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"appointly/config"
	"appointly/database"
	recordsRepo "appointly/database/repository/records"
	"appointly/handlers"
	"appointly/middleware"
	"appointly/routes"
	"appointly/services/booking"
	"appointly/services/calendar"
	ai "appointly/services/intelligence"
	"appointly/services/sheets"
	"appointly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

const conversationTTL = 30 * time.Minute

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	cfg := config.AppConfig
	loc := config.Location()
	ctx := context.Background()

	// Language model.
	if cfg.GeminiAPIKey == "" {
		logger.Fatal("main: GEMINI_API_KEY is required")
	}
	gemini, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Fatal("main: failed to initialize Gemini client", zap.Error(err))
	}
	defer gemini.Close()
	extractor := ai.NewExtractor(gemini.WithJSONOutput(), logger)
	followUp := ai.NewFollowUp(gemini, logger)

	// Google Workspace.
	googleOpts := func(scope string) []option.ClientOption {
		opts := []option.ClientOption{option.WithScopes(scope)}
		if cfg.GoogleCredentialsPath != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.GoogleCredentialsPath))
		}
		return opts
	}
	calendarClient, err := calendar.NewGoogleCalendar(ctx, cfg.CalendarID, loc, googleOpts(gcal.CalendarScope)...)
	if err != nil {
		logger.Fatal("main: failed to initialize Google Calendar client", zap.Error(err))
	}
	sheetsClient, err := sheets.NewGoogleSheets(ctx, cfg.SpreadsheetID, cfg.SheetRange, googleOpts(gsheets.SpreadsheetsScope)...)
	if err != nil {
		logger.Fatal("main: failed to initialize Google Sheets client", zap.Error(err))
	}
	if cfg.SpreadsheetID == "" {
		logger.Warn("main: SPREADSHEET_ID is empty, every approval will fail its record write")
	}

	// Stores.
	var (
		confirmations booking.ConfirmationStore
		contexts      ai.ContextStore
	)
	switch cfg.StoreBackend {
	case "redis":
		client := utils.GetStoreClient()
		confirmations = booking.NewRedisConfirmationStore(client, booking.ResolutionLockTTL(cfg.ExternalTimeout))
		contexts = ai.NewRedisContextStore(client, conversationTTL)
	case "memory", "":
		confirmations = booking.NewMemoryConfirmationStore()
		contexts = ai.NewMemoryContextStore()
	default:
		logger.Fatal("main: unknown STORE_BACKEND", zap.String("backend", cfg.StoreBackend))
	}
	logger.Info("main: stores ready", zap.String("backend", cfg.StoreBackend))

	// Decision log.
	if err := database.InitDB(logger); err != nil {
		logger.Fatal("main: failed to initialize decision log", zap.Error(err))
	}
	var decisions booking.DecisionLog
	if database.MongoClient != nil {
		repo := recordsRepo.NewMongoDecisionRepo(database.Database())
		if err := recordsRepo.EnsureIndexes(repo); err != nil {
			logger.Warn("main: failed to ensure decision indexes", zap.Error(err))
		}
		decisions = repo
	}

	assistant := &booking.DefaultAssistantService{
		Extractor:        extractor,
		FollowUp:         followUp,
		Checker:          calendar.NewAvailabilityChecker(calendarClient, loc, cfg.ExternalTimeout, logger),
		Writer:           booking.NewWriter(calendarClient, sheetsClient, loc, cfg.ExternalTimeout, logger),
		Store:            confirmations,
		Contexts:         contexts,
		Decisions:        decisions,
		Logger:           logger,
		RecheckOnConfirm: cfg.RecheckOnConfirm,
		Timeout:          cfg.ExternalTimeout,
	}

	if cfg.ReviewerJWTSecret == "" {
		logger.Warn("main: REVIEWER_JWT_SECRET is empty, reviewer endpoints are unauthenticated")
	}
	handlerBundle := handlers.NewHandlerBundle(handlers.NewAssistantHandler(assistant), []byte(cfg.ReviewerJWTSecret))

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	routes.RegisterRoutes(router, handlerBundle)

	port := cfg.AppPort
	if port == "" {
		port = "5000"
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if err := database.CloseDB(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: failed to close MongoDB: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
