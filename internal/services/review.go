package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/wavechat/wavechat-backend/internal/engagement"
	"github.com/wavechat/wavechat-backend/internal/models"
	"github.com/wavechat/wavechat-backend/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultPageSize = 5
	MaxPageSize     = 100
	QueryTimeout    = 30 * time.Second
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrNotReviewAuthor = errors.New("only the author may modify this review")
	ErrInvalidReview   = errors.New("invalid review data")
	ErrDatabaseQuery   = errors.New("database query failed")
)

type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	if db == nil {
		panic("database connection cannot be nil")
	}
	return &ReviewService{db: db}
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating"`
	Content string `json:"content"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Content *string `json:"content"`
}

type ReviewListResponse struct {
	Reviews    []models.Review  `json:"reviews"`
	Pagination utils.Pagination `json:"pagination"`
}

// ToggleResponse carries the denormalized review after a like/helpful
// toggle plus whether the caller's mark was added or removed.
type ToggleResponse struct {
	Review *models.Review `json:"review"`
	Added  bool           `json:"added"`
}

type ReviewStats struct {
	TotalReviews  int64         `json:"total_reviews"`
	AverageRating float64       `json:"average_rating"`
	RatingCounts  map[int]int64 `json:"rating_counts"`
}

func validateRating(rating int) error {
	if !utils.IsValidRating(rating) {
		return fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidReview, models.RatingMin, models.RatingMax)
	}
	return nil
}

func validateContent(content string) (string, error) {
	trimmed := utils.SanitizeString(content)
	if trimmed == "" {
		return "", fmt.Errorf("%w: content is required", ErrInvalidReview)
	}
	// Character count, not bytes: multibyte content up to the limit is valid.
	if utf8.RuneCountInString(trimmed) > models.ContentMaxLength {
		return "", fmt.Errorf("%w: content must be at most %d characters", ErrInvalidReview, models.ContentMaxLength)
	}
	return trimmed, nil
}

// CreateReview validates and persists a new review. Validation happens
// before any write; a failed request leaves no partial state.
func (s *ReviewService) CreateReview(ctx context.Context, authorID uint, req CreateReviewRequest) (*models.Review, error) {
	if err := validateRating(req.Rating); err != nil {
		return nil, err
	}
	content, err := validateContent(req.Content)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	review := models.Review{
		AuthorID:   authorID,
		Rating:     req.Rating,
		Content:    content,
		IsApproved: true,
	}

	if err := s.db.WithContext(ctx).Create(&review).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to create review: %v", ErrDatabaseQuery, err)
	}

	return s.loadReview(ctx, review.ID)
}

// GetReview fetches one review by id. Approval does not gate direct
// look-up, only listing.
func (s *ReviewService) GetReview(ctx context.Context, reviewID string) (*models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	return s.loadReview(ctx, reviewID)
}

// GetReviews returns the public page of approved reviews, newest first.
// Pages beyond the end yield an empty page with correct metadata.
func (s *ReviewService) GetReviews(ctx context.Context, page, limit int) (*ReviewListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	query := s.db.WithContext(ctx).Model(&models.Review{}).Where("is_approved = ?", true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to count reviews: %v", ErrDatabaseQuery, err)
	}

	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}

	var reviews []models.Review
	offset := (page - 1) * limit
	err := query.Preload("Author").Preload("Engagements").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch reviews: %v", ErrDatabaseQuery, err)
	}

	for i := range reviews {
		reviews[i].FillMembership()
	}

	return &ReviewListResponse{
		Reviews: reviews,
		Pagination: utils.Pagination{
			Total:      total,
			TotalPages: totalPages,
			Page:       page,
			Limit:      limit,
			HasNext:    page < totalPages,
			HasPrev:    page > 1 && total > 0,
		},
	}, nil
}

// GetUserReviews returns every review authored by authorID, approved or
// not, newest first.
func (s *ReviewService) GetUserReviews(ctx context.Context, authorID uint) ([]models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	var reviews []models.Review
	err := s.db.WithContext(ctx).Preload("Author").Preload("Engagements").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch user reviews: %v", ErrDatabaseQuery, err)
	}

	for i := range reviews {
		reviews[i].FillMembership()
	}
	return reviews, nil
}

// UpdateReview applies a partial rating/content edit. Author only; each
// supplied field is validated with the create rules. Refreshes updated_at.
func (s *ReviewService) UpdateReview(ctx context.Context, reviewID string, callerID uint, req UpdateReviewRequest) (*models.Review, error) {
	updates := map[string]interface{}{}

	if req.Rating != nil {
		if err := validateRating(*req.Rating); err != nil {
			return nil, err
		}
		updates["rating"] = *req.Rating
	}
	if req.Content != nil {
		content, err := validateContent(*req.Content)
		if err != nil {
			return nil, err
		}
		updates["content"] = content
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidReview)
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	var review models.Review
	if err := s.db.WithContext(ctx).First(&review, "id = ?", reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("%w: failed to find review: %v", ErrDatabaseQuery, err)
	}

	if review.AuthorID != callerID {
		return nil, ErrNotReviewAuthor
	}

	if err := s.db.WithContext(ctx).Model(&review).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to update review: %v", ErrDatabaseQuery, err)
	}

	return s.loadReview(ctx, reviewID)
}

// DeleteReview hard-deletes a review and its engagement rows. Author only.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID string, callerID uint) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	var review models.Review
	if err := s.db.WithContext(ctx).First(&review, "id = ?", reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("%w: failed to find review: %v", ErrDatabaseQuery, err)
	}

	if review.AuthorID != callerID {
		return ErrNotReviewAuthor
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", reviewID).Delete(&models.ReviewEngagement{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Review{}, "id = ?", reviewID).Error
	})
	if err != nil {
		return fmt.Errorf("%w: failed to delete review: %v", ErrDatabaseQuery, err)
	}
	return nil
}

// ToggleLike flips the caller's like mark on a review.
func (s *ReviewService) ToggleLike(ctx context.Context, reviewID string, callerID uint) (*ToggleResponse, error) {
	return s.toggle(ctx, reviewID, callerID, models.EngagementLike)
}

// ToggleHelpful flips the caller's helpful mark on a review.
func (s *ReviewService) ToggleHelpful(ctx context.Context, reviewID string, callerID uint) (*ToggleResponse, error) {
	return s.toggle(ctx, reviewID, callerID, models.EngagementHelpful)
}

// toggle runs membership check, set mutation and counter recompute in one
// transaction, holding a row lock on the review for its duration. The lock
// serializes concurrent toggles on the same review: without it, two
// READ COMMITTED transactions adding marks for different users would each
// recount before seeing the other's insert and one would persist a stale
// counter. SQLite has no row locks and drops the clause, but it serializes
// writers anyway. Engagement is not a content edit: the counter write
// bypasses gorm's autoUpdateTime so updated_at stays put.
func (s *ReviewService) toggle(ctx context.Context, reviewID string, callerID uint, kind string) (*ToggleResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	var added bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review models.Review
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&review, "id = ?", reviewID).Error
		if err != nil {
			return err
		}

		var set []uint
		err = tx.Model(&models.ReviewEngagement{}).
			Where("review_id = ? AND kind = ?", reviewID, kind).
			Pluck("user_id", &set).Error
		if err != nil {
			return err
		}

		result := engagement.Toggle(set, callerID)
		added = result.Added

		if result.Added {
			mark := models.ReviewEngagement{ReviewID: reviewID, UserID: callerID, Kind: kind}
			if err := tx.Create(&mark).Error; err != nil {
				return err
			}
		} else {
			err := tx.Where("review_id = ? AND user_id = ? AND kind = ?", reviewID, callerID, kind).
				Delete(&models.ReviewEngagement{}).Error
			if err != nil {
				return err
			}
		}

		// Counter is derived from the set, never trusted independently.
		var count int64
		err = tx.Model(&models.ReviewEngagement{}).
			Where("review_id = ? AND kind = ?", reviewID, kind).
			Count(&count).Error
		if err != nil {
			return err
		}

		column := "like_count"
		if kind == models.EngagementHelpful {
			column = "helpful_count"
		}
		return tx.Model(&models.Review{}).Where("id = ?", reviewID).
			UpdateColumn(column, count).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("%w: failed to toggle %s: %v", ErrDatabaseQuery, kind, err)
	}

	review, err := s.loadReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	return &ToggleResponse{Review: review, Added: added}, nil
}

// GetStats aggregates the public review corpus: approved count, average
// rating and per-star counts.
func (s *ReviewService) GetStats(ctx context.Context) (*ReviewStats, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	stats := &ReviewStats{RatingCounts: map[int]int64{}}

	query := s.db.WithContext(ctx).Model(&models.Review{}).Where("is_approved = ?", true)

	if err := query.Count(&stats.TotalReviews).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to count reviews: %v", ErrDatabaseQuery, err)
	}
	if stats.TotalReviews == 0 {
		return stats, nil
	}

	var average float64
	err := s.db.WithContext(ctx).Model(&models.Review{}).Where("is_approved = ?", true).
		Select("AVG(rating)").Scan(&average).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to average ratings: %v", ErrDatabaseQuery, err)
	}
	stats.AverageRating = average

	rows := []struct {
		Rating int
		Count  int64
	}{}
	err = s.db.WithContext(ctx).Model(&models.Review{}).Where("is_approved = ?", true).
		Select("rating, COUNT(*) as count").Group("rating").Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to group ratings: %v", ErrDatabaseQuery, err)
	}
	for _, row := range rows {
		stats.RatingCounts[row.Rating] = row.Count
	}

	return stats, nil
}

func (s *ReviewService) loadReview(ctx context.Context, reviewID string) (*models.Review, error) {
	var review models.Review
	err := s.db.WithContext(ctx).Preload("Author").Preload("Engagements").
		First(&review, "id = ?", reviewID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("%w: failed to load review: %v", ErrDatabaseQuery, err)
	}
	review.FillMembership()
	return &review, nil
}
