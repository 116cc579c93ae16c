package utils

import (
	"regexp"
	"strings"

	"github.com/wavechat/wavechat-backend/internal/models"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// NormalizeEmail lower-cases and trims an address for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func SanitizeString(input string) string {
	return strings.TrimSpace(input)
}

func IsValidRating(rating int) bool {
	return rating >= models.RatingMin && rating <= models.RatingMax
}

// IsValidContent accepts already-trimmed review content.
func IsValidContent(content string) bool {
	return content != "" && len(content) <= models.ContentMaxLength
}
