package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"prpilot/internal/config"
	"prpilot/internal/copilot"
	"prpilot/internal/gemini"
	"prpilot/internal/github"
	"prpilot/internal/handlers"
	"prpilot/internal/llm"
	"prpilot/internal/review"
	"prpilot/internal/server"
	"prpilot/internal/webhook"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := newLogger(cfg.GinMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Initialize LLM service based on configuration
	llmSvc, err := newLLMService(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize LLM service", zap.Error(err))
	}
	if err := llmSvc.Start(); err != nil {
		logger.Fatal("failed to start LLM service", zap.Error(err))
	}
	defer llmSvc.Stop()

	// Initialize GitHub client
	githubClient := github.NewClient(cfg.GitHubToken, cfg.GitHubTimeout)

	// Initialize services
	reviewSvc := review.NewService(githubClient, llmSvc, logger)
	webhookProc := webhook.NewProcessor(reviewSvc, logger)
	webhookAsync := webhook.NewAsyncProcessor(webhookProc, webhook.AsyncConfig{
		QueueSize:  cfg.WebhookQueueSize,
		Workers:    cfg.WebhookWorkers,
		JobTimeout: cfg.WebhookJobTimeout,
	}, logger)

	// Setup HTTP server
	srv := server.NewServer(cfg, logger)
	handler := handlers.NewHandler(reviewSvc, webhookAsync, cfg.WebhookSecret, logger)

	// Register routes
	srv.Router().GET("/health", handler.Health)
	srv.Router().POST("/api/review", handler.Review)
	srv.Router().POST("/webhook", handler.GitHubWebhook)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", zap.Error(err))
		}
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	if err := webhookAsync.Stop(shutdownCtx); err != nil {
		logger.Error("webhook processor shutdown error", zap.Error(err))
	}

	logger.Info("server exited")
}

func newLogger(ginMode string) (*zap.Logger, error) {
	if ginMode == "release" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func newLLMService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (llm.Service, error) {
	switch cfg.LLMProvider {
	case "openai":
		logger.Info("using OpenAI LLM provider", zap.String("model", cfg.OpenAIModel))
		return llm.NewOpenAIProvider(llm.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.LLMTimeout,
		}), nil
	case "copilot":
		logger.Info("using Copilot LLM provider", zap.String("model", cfg.CopilotModel))
		return copilot.NewService(cfg.CopilotModel, cfg.LLMTimeout), nil
	default:
		logger.Info("using Gemini LLM provider", zap.String("model", cfg.GeminiModel))
		return gemini.NewService(ctx, gemini.Config{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			Timeout: cfg.LLMTimeout,
		})
	}
}
