package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"wardrobe-matcher/config"
	"wardrobe-matcher/gemini"
	"wardrobe-matcher/handlers"
	"wardrobe-matcher/llm"
	"wardrobe-matcher/metrics"
	"wardrobe-matcher/payload"
	"wardrobe-matcher/service"
	"wardrobe-matcher/stubllm"
	"wardrobe-matcher/upload"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Info(".env file not found, using system environment variables")
	}

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set log level
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warnf("Unknown LOG_LEVEL %q, keeping info", cfg.LogLevel)
	}
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("Starting the wardrobe matcher service...")

	client, err := newLLMClient(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize provider: %v", err)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o750); err != nil {
		log.Fatalf("Failed to create upload dir: %v", err)
	}

	metrics.Register()

	policy, _ := payload.ParsePolicy(string(cfg.IDPolicy))
	analyzer := service.NewAnalyzer(client, payload.NewAssembler(policy), cfg.ProviderTimeout)
	h := handlers.NewHandlers(analyzer, upload.NewStore(cfg.UploadDir, cfg.MaxUploadFiles, cfg.MaxUploadSize))

	router := handlers.NewRouter(h, handlers.RouterOptions{
		AllowedOrigins:     cfg.AllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		RateLimitBurst:     cfg.RateLimitBurst,
		MaxMultipartMemory: cfg.MaxUploadSize,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Server listening on port %s", cfg.Port)
		log.Infof("Provider: %s, id policy: %s", client.SourceName(), policy)
		log.Infof("Rate limit: %d requests per minute", cfg.RateLimitPerMinute)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ProviderTimeout+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}

func newLLMClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	if cfg.LLMProvider == config.ProviderStub {
		log.Warn("Using the stub provider; recommendations are synthetic")
		return stubllm.NewClient(), nil
	}
	client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, err
	}
	log.Infof("Using Gemini model %s", client.Model())
	return client, nil
}
