package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prpilot/internal/review"
)

// ReviewRunner runs the review pipeline for one pull request.
type ReviewRunner interface {
	ReviewPR(ctx context.Context, req review.Request) (*review.Result, error)
}

// WebhookEnqueuer accepts a webhook delivery for background processing.
type WebhookEnqueuer interface {
	Enqueue(ctx context.Context, eventType string, payload []byte, deliveryID string) error
}

// Handler manages HTTP request handlers
type Handler struct {
	reviewService ReviewRunner
	webhookQueue  WebhookEnqueuer
	webhookSecret string
	logger        *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(reviewSvc ReviewRunner, webhookQueue WebhookEnqueuer, webhookSecret string, logger *zap.Logger) *Handler {
	return &Handler{
		reviewService: reviewSvc,
		webhookQueue:  webhookQueue,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// Health reports service liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "prpilot"})
}
