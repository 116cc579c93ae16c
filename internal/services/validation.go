package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ValidationService wraps the Abstract email validation API. The contact
// service consults it as an advisory signal on submissions.
type ValidationService struct {
	emailAPIKey string
	client      *http.Client
}

type EmailValidationResponse struct {
	Email          string                `json:"email"`
	Deliverability string                `json:"deliverability"`
	QualityScore   string                `json:"quality_score"`
	IsValidFormat  EmailValidationDetail `json:"is_valid_format"`
	IsDisposable   EmailValidationDetail `json:"is_disposable_email"`
	IsMxFound      EmailValidationDetail `json:"is_mx_found"`
}

type EmailValidationDetail struct {
	Value bool   `json:"value"`
	Text  string `json:"text"`
}

func NewValidationService(emailAPIKey string) *ValidationService {
	if emailAPIKey == "" {
		return nil
	}
	return &ValidationService{
		emailAPIKey: emailAPIKey,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// CheckEmailDeliverability asks the Abstract API whether an address is
// deliverable.
func (s *ValidationService) CheckEmailDeliverability(ctx context.Context, email string) (bool, error) {
	url := fmt.Sprintf("https://emailvalidation.abstractapi.com/v1/?api_key=%s&email=%s", s.emailAPIKey, email)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("email validation API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, err
	}

	var result EmailValidationResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return false, err
	}

	return result.Deliverability == "DELIVERABLE", nil
}
