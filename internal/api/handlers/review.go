package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wavechat/wavechat-backend/internal/services"
	"github.com/wavechat/wavechat-backend/internal/utils"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// sendReviewError maps service sentinels to the HTTP status contract.
func sendReviewError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidReview):
		utils.SendError(c, http.StatusBadRequest, message, err)
	case errors.Is(err, services.ErrNotReviewAuthor):
		utils.SendError(c, http.StatusForbidden, message, err)
	case errors.Is(err, services.ErrReviewNotFound):
		utils.SendError(c, http.StatusNotFound, message, err)
	default:
		utils.SendInternalError(c, message, errors.New("unexpected error"))
	}
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req services.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), userID, req)
	if err != nil {
		sendReviewError(c, "Failed to create review", err)
		return
	}

	utils.SendSuccess(c, "Review created successfully", review)
}

func (h *ReviewHandler) GetReviews(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	result, err := h.reviewService.GetReviews(c.Request.Context(), page, limit)
	if err != nil {
		sendReviewError(c, "Failed to fetch reviews", err)
		return
	}

	utils.SendPaginated(c, "Reviews retrieved successfully", result.Reviews, result.Pagination)
}

func (h *ReviewHandler) GetStats(c *gin.Context) {
	stats, err := h.reviewService.GetStats(c.Request.Context())
	if err != nil {
		sendReviewError(c, "Failed to fetch review stats", err)
		return
	}

	utils.SendSuccess(c, "Review stats retrieved successfully", stats)
}

func (h *ReviewHandler) GetUserReviews(c *gin.Context) {
	userID := c.GetUint("user_id")

	reviews, err := h.reviewService.GetUserReviews(c.Request.Context(), userID)
	if err != nil {
		sendReviewError(c, "Failed to fetch user reviews", err)
		return
	}

	utils.SendSuccess(c, "User reviews retrieved successfully", reviews)
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	review, err := h.reviewService.GetReview(c.Request.Context(), c.Param("id"))
	if err != nil {
		sendReviewError(c, "Failed to fetch review", err)
		return
	}

	utils.SendSuccess(c, "Review retrieved successfully", review)
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req services.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	review, err := h.reviewService.UpdateReview(c.Request.Context(), c.Param("id"), userID, req)
	if err != nil {
		sendReviewError(c, "Failed to update review", err)
		return
	}

	utils.SendSuccess(c, "Review updated successfully", review)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID := c.GetUint("user_id")

	if err := h.reviewService.DeleteReview(c.Request.Context(), c.Param("id"), userID); err != nil {
		sendReviewError(c, "Failed to delete review", err)
		return
	}

	utils.SendSuccess(c, "Review deleted successfully", nil)
}

func (h *ReviewHandler) ToggleLike(c *gin.Context) {
	userID := c.GetUint("user_id")

	result, err := h.reviewService.ToggleLike(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		sendReviewError(c, "Failed to toggle like", err)
		return
	}

	message := "Like added"
	if !result.Added {
		message = "Like removed"
	}
	utils.SendSuccess(c, message, result)
}

func (h *ReviewHandler) ToggleHelpful(c *gin.Context) {
	userID := c.GetUint("user_id")

	result, err := h.reviewService.ToggleHelpful(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		sendReviewError(c, "Failed to toggle helpful", err)
		return
	}

	message := "Helpful mark added"
	if !result.Added {
		message = "Helpful mark removed"
	}
	utils.SendSuccess(c, message, result)
}
