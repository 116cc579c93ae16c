package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wavechat/wavechat-backend/internal/models"
	"github.com/wavechat/wavechat-backend/internal/testutil"
	"gorm.io/gorm"
)

func newContactService(db *gorm.DB) *ContactService {
	// No SMTP and no deliverability API in tests.
	return NewContactService(db, nil, nil, "")
}

func validSubmission() SubmitContactRequest {
	return SubmitContactRequest{
		Name:    "Jordan Doe",
		Email:   "jordan@example.com",
		Subject: "Account question",
		Message: "How do I change my handle?",
	}
}

func TestSubmitContactRequiresAllFields(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newContactService(db)

	cases := []func(*SubmitContactRequest){
		func(r *SubmitContactRequest) { r.Name = "  " },
		func(r *SubmitContactRequest) { r.Email = "" },
		func(r *SubmitContactRequest) { r.Subject = "" },
		func(r *SubmitContactRequest) { r.Message = "   " },
	}
	for _, mutate := range cases {
		req := validSubmission()
		mutate(&req)
		_, err := svc.SubmitContact(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidContact)
	}

	req := validSubmission()
	req.Email = "not-an-email"
	_, err := svc.SubmitContact(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidContact)
}

func TestSubmitContactNormalizesEmail(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newContactService(db)

	req := validSubmission()
	req.Email = "  Jordan@Example.COM "

	contact, err := svc.SubmitContact(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "jordan@example.com", contact.Email)
	assert.False(t, contact.ContactCompleted)
	assert.NotEmpty(t, contact.ID)
}

func TestSubmitContactLinksExistingAccount(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newContactService(db)
	account := createTestUser(t, db, "jordan@example.com")

	req := validSubmission()
	req.IsExistingUser = true

	contact, err := svc.SubmitContact(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, contact.LinkedAccountID)
	assert.Equal(t, account.ID, *contact.LinkedAccountID)
	require.NotNil(t, contact.LinkedAccount)
	assert.Equal(t, account.Email, contact.LinkedAccount.Email)
}

// A claimed-but-missing account degrades to an unlinked submission, never
// an error.
func TestSubmitContactUnmatchedAccountStaysUnlinked(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newContactService(db)

	req := validSubmission()
	req.IsExistingUser = true

	contact, err := svc.SubmitContact(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, contact.LinkedAccountID)
	assert.True(t, contact.IsExistingUser)
}

func TestSubmitContactSkipsLookupForNewUsers(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newContactService(db)
	createTestUser(t, db, "jordan@example.com")

	contact, err := svc.SubmitContact(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.Nil(t, contact.LinkedAccountID)
}

func TestGetContactsFiltersAndOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newContactService(db)

	base := time.Now().Add(-time.Hour)
	seed := []models.Contact{
		{Name: "A", Email: "a@example.com", Subject: "s1", Message: "m", CreatedAt: base},
		{Name: "B", Email: "b@example.com", Subject: "s2", Message: "m", CreatedAt: base.Add(time.Minute)},
		{Name: "A again", Email: "a@example.com", Subject: "s3", Message: "m", ContactCompleted: true, CreatedAt: base.Add(2 * time.Minute)},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	all, err := svc.GetContacts(context.Background(), ContactFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "s3", all[0].Subject)
	assert.Equal(t, "s1", all[2].Subject)

	byEmail, err := svc.GetContacts(context.Background(), ContactFilter{Email: "A@example.com"})
	require.NoError(t, err)
	assert.Len(t, byEmail, 2)

	completed := true
	byStatus, err := svc.GetContacts(context.Background(), ContactFilter{ContactCompleted: &completed})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "s3", byStatus[0].Subject)

	open := false
	openOnly, err := svc.GetContacts(context.Background(), ContactFilter{ContactCompleted: &open})
	require.NoError(t, err)
	assert.Len(t, openOnly, 2)
}

func TestMarkCompleted(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newContactService(db)

	contact, err := svc.SubmitContact(context.Background(), validSubmission())
	require.NoError(t, err)

	updated, err := svc.MarkCompleted(context.Background(), contact.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.ContactCompleted)
	assert.True(t, updated.UpdatedAt.After(contact.UpdatedAt) || updated.UpdatedAt.Equal(contact.UpdatedAt))

	reopened, err := svc.MarkCompleted(context.Background(), contact.ID, false)
	require.NoError(t, err)
	assert.False(t, reopened.ContactCompleted)
}

func TestMarkCompletedNotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newContactService(db)

	_, err := svc.MarkCompleted(context.Background(), "missing-id", true)
	assert.ErrorIs(t, err, ErrContactNotFound)
}
