package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prpilot/internal/review"
)

type ReviewRequest struct {
	Owner       string `json:"owner" binding:"required"`
	Repo        string `json:"repo" binding:"required"`
	PRNumber    int    `json:"pr_number" binding:"required"`
	PostComment *bool  `json:"post_comment"`
}

type ReviewResponse struct {
	Report        *review.Report `json:"report"`
	CommentPosted bool           `json:"comment_posted"`
}

// Review runs a synchronous review of one pull request. post_comment
// defaults to true when omitted.
func (h *Handler) Review(c *gin.Context) {
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner, repo and pr_number are required", "details": err.Error()})
		return
	}

	postComment := true
	if req.PostComment != nil {
		postComment = *req.PostComment
	}

	result, err := h.reviewService.ReviewPR(c.Request.Context(), review.Request{
		Owner:       req.Owner,
		Repo:        req.Repo,
		PRNumber:    req.PRNumber,
		PostComment: postComment,
	})
	if err != nil {
		h.logger.Error("review failed",
			zap.String("repo", req.Owner+"/"+req.Repo),
			zap.Int("pr", req.PRNumber),
			zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to review pull request", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ReviewResponse{
		Report:        result.Report,
		CommentPosted: result.CommentPosted,
	})
}
