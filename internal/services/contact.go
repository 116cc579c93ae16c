package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/wavechat/wavechat-backend/internal/models"
	"github.com/wavechat/wavechat-backend/internal/utils"
	"github.com/wavechat/wavechat-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrContactNotFound = errors.New("contact submission not found")
	ErrInvalidContact  = errors.New("invalid contact data")
)

type ContactService struct {
	db                *gorm.DB
	emailService      *EmailService
	validationService *ValidationService
	operatorEmail     string
}

func NewContactService(db *gorm.DB, emailService *EmailService, validationService *ValidationService, operatorEmail string) *ContactService {
	if db == nil {
		panic("database connection cannot be nil")
	}
	return &ContactService{
		db:                db,
		emailService:      emailService,
		validationService: validationService,
		operatorEmail:     operatorEmail,
	}
}

type SubmitContactRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Subject        string `json:"subject"`
	Message        string `json:"message"`
	IsExistingUser bool   `json:"is_existing_user"`
}

type ContactFilter struct {
	Email            string `form:"email"`
	ContactCompleted *bool  `form:"contactCompleted"`
}

// SubmitContact stores an inbound submission. When the caller claims an
// existing account, the address is resolved against the account table
// exactly once, here; a miss degrades to an unlinked record.
func (s *ContactService) SubmitContact(ctx context.Context, req SubmitContactRequest) (*models.Contact, error) {
	name := utils.SanitizeString(req.Name)
	email := utils.NormalizeEmail(req.Email)
	subject := utils.SanitizeString(req.Subject)
	message := utils.SanitizeString(req.Message)

	if name == "" || email == "" || subject == "" || message == "" {
		return nil, fmt.Errorf("%w: name, email, subject and message are required", ErrInvalidContact)
	}
	if !utils.IsValidEmail(email) {
		return nil, fmt.Errorf("%w: malformed email address", ErrInvalidContact)
	}

	// Advisory deliverability check; never blocks a submission.
	if s.validationService != nil {
		if deliverable, err := s.validationService.CheckEmailDeliverability(ctx, email); err == nil && !deliverable {
			logger.WithFields(map[string]interface{}{"email": email}).
				Warn("Contact submitted with undeliverable email")
		}
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	contact := models.Contact{
		Name:           name,
		Email:          email,
		Subject:        subject,
		Message:        message,
		IsExistingUser: req.IsExistingUser,
	}

	if req.IsExistingUser {
		var account models.User
		err := s.db.WithContext(ctx).Where("email = ?", email).First(&account).Error
		switch {
		case err == nil:
			contact.LinkedAccountID = &account.ID
		case errors.Is(err, gorm.ErrRecordNotFound):
			// No matching account: keep the submission unlinked.
		default:
			return nil, fmt.Errorf("%w: failed to look up account: %v", ErrDatabaseQuery, err)
		}
	}

	if err := s.db.WithContext(ctx).Create(&contact).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to create contact: %v", ErrDatabaseQuery, err)
	}

	created, err := s.loadContact(ctx, contact.ID)
	if err != nil {
		return nil, err
	}

	s.notifyOperator(created)

	return created, nil
}

// GetContacts lists submissions newest-first, optionally filtered by email
// and/or completion state, with any linked account populated.
func (s *ContactService) GetContacts(ctx context.Context, filter ContactFilter) ([]models.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	query := s.db.WithContext(ctx).Model(&models.Contact{}).Preload("LinkedAccount")

	if filter.Email != "" {
		query = query.Where("email = ?", utils.NormalizeEmail(filter.Email))
	}
	if filter.ContactCompleted != nil {
		query = query.Where("contact_completed = ?", *filter.ContactCompleted)
	}

	var contacts []models.Contact
	if err := query.Order("created_at DESC").Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to fetch contacts: %v", ErrDatabaseQuery, err)
	}
	return contacts, nil
}

// MarkCompleted sets the completion flag. The boolean is required by the
// handler; nil never reaches this far.
func (s *ContactService) MarkCompleted(ctx context.Context, contactID string, completed bool) (*models.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	var contact models.Contact
	if err := s.db.WithContext(ctx).First(&contact, "id = ?", contactID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("%w: failed to find contact: %v", ErrDatabaseQuery, err)
	}

	err := s.db.WithContext(ctx).Model(&contact).
		Update("contact_completed", completed).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to update contact: %v", ErrDatabaseQuery, err)
	}

	return s.loadContact(ctx, contactID)
}

// notifyOperator emails the operator inbox about a new submission.
// Best-effort: failures are logged and never surface to the submitter.
func (s *ContactService) notifyOperator(contact *models.Contact) {
	if s.emailService == nil || s.operatorEmail == "" {
		return
	}
	if err := s.emailService.SendContactNotification(s.operatorEmail, contact); err != nil {
		logger.WithFields(map[string]interface{}{
			"contact_id": contact.ID,
			"error":      err.Error(),
		}).Error("Failed to send contact notification")
	}
}

func (s *ContactService) loadContact(ctx context.Context, contactID string) (*models.Contact, error) {
	var contact models.Contact
	err := s.db.WithContext(ctx).Preload("LinkedAccount").
		First(&contact, "id = ?", contactID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("%w: failed to load contact: %v", ErrDatabaseQuery, err)
	}
	return &contact, nil
}
