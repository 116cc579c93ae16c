package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RatingMin        = 1
	RatingMax        = 5
	ContentMaxLength = 500
)

// Engagement kinds stored in review_engagements.kind.
const (
	EngagementLike    = "like"
	EngagementHelpful = "helpful"
)

type Review struct {
	ID           string `json:"id" gorm:"type:uuid;primaryKey"`
	AuthorID     uint   `json:"author_id" gorm:"not null;index"`
	Rating       int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Content      string `json:"content" gorm:"type:varchar(500);not null"`
	LikeCount    int    `json:"like_count" gorm:"not null;default:0"`
	HelpfulCount int    `json:"helpful_count" gorm:"not null;default:0"`
	// No schema default on approval: gorm drops an explicit false for
	// defaulted bool columns on create. The service sets it explicitly.
	IsApproved bool      `json:"is_approved" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	Author      User               `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Engagements []ReviewEngagement `json:"-" gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE"`

	// Membership sets, populated from Engagements when the review is
	// returned by the service. Not stored columns.
	LikedBy   []uint `json:"liked_by" gorm:"-"`
	HelpfulBy []uint `json:"helpful_by" gorm:"-"`
}

// MembershipSet returns the user ids with an active mark of the given
// kind, read from the loaded Engagements relation.
func (r *Review) MembershipSet(kind string) []uint {
	var set []uint
	for _, e := range r.Engagements {
		if e.Kind == kind {
			set = append(set, e.UserID)
		}
	}
	return set
}

// FillMembership populates the liked_by/helpful_by response fields from
// the loaded Engagements relation. Empty sets render as [] rather than null.
func (r *Review) FillMembership() {
	r.LikedBy = r.MembershipSet(EngagementLike)
	r.HelpfulBy = r.MembershipSet(EngagementHelpful)
	if r.LikedBy == nil {
		r.LikedBy = []uint{}
	}
	if r.HelpfulBy == nil {
		r.HelpfulBy = []uint{}
	}
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// ReviewEngagement is one active like/helpful mark. The unique index over
// (review_id, user_id, kind) is what makes liked_by/helpful_by a set.
type ReviewEngagement struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	ReviewID string `json:"review_id" gorm:"type:uuid;not null;uniqueIndex:idx_review_user_kind"`
	UserID   uint   `json:"user_id" gorm:"not null;uniqueIndex:idx_review_user_kind"`
	Kind     string `json:"kind" gorm:"size:16;not null;uniqueIndex:idx_review_user_kind"`

	CreatedAt time.Time `json:"created_at"`
}

func (ReviewEngagement) TableName() string {
	return "review_engagements"
}
