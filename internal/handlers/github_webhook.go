package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v82/github"
	"go.uber.org/zap"

	"prpilot/internal/webhook"
)

// GitHubWebhook validates a webhook delivery and hands it to the background
// queue. GitHub expects an acknowledgement within seconds, well under the
// time a review takes, so processing never happens on this request.
func (h *Handler) GitHubWebhook(c *gin.Context) {
	req := c.Request
	// GitHub provides the event name in the X-GitHub-Event header.
	eventType := c.GetHeader("X-GitHub-Event")
	deliveryID := c.GetHeader("X-GitHub-Delivery")
	if eventType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing X-GitHub-Event header"})
		return
	}

	secret := []byte(h.webhookSecret)
	if len(secret) == 0 {
		secret = nil
	}

	payload, err := github.ValidatePayload(req, secret)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook payload or signature", "details": err.Error()})
		return
	}

	if err := h.webhookQueue.Enqueue(c.Request.Context(), eventType, payload, deliveryID); err != nil {
		if errors.Is(err, webhook.ErrQueueFull) {
			h.logger.Warn("webhook queue full, delivery dropped", zap.String("delivery_id", deliveryID))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "webhook queue full, retry later"})
			return
		}
		h.logger.Error("webhook enqueue failed", zap.String("delivery_id", deliveryID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue webhook"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":      "queued",
		"event_type":  eventType,
		"delivery_id": deliveryID,
	})
}
