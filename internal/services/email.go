package services

import (
	"crypto/tls"
	"fmt"

	"github.com/wavechat/wavechat-backend/internal/config"
	"github.com/wavechat/wavechat-backend/internal/models"
	"gopkg.in/gomail.v2"
)

type EmailService struct {
	config *config.Config
}

func NewEmailService(config *config.Config) *EmailService {
	return &EmailService{config: config}
}

func (s *EmailService) SendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.FromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)
	d.TLSConfig = &tls.Config{InsecureSkipVerify: true}

	return d.DialAndSend(m)
}

// SendContactNotification tells the operator inbox about a new contact
// submission.
func (s *EmailService) SendContactNotification(operatorEmail string, contact *models.Contact) error {
	subject := fmt.Sprintf("New contact submission: %s", contact.Subject)

	linked := "no"
	if contact.LinkedAccountID != nil {
		linked = fmt.Sprintf("account #%d", *contact.LinkedAccountID)
		if contact.LinkedAccount != nil {
			linked = fmt.Sprintf("%s (account #%d)", contact.LinkedAccount.FullName(), *contact.LinkedAccountID)
		}
	}

	body := fmt.Sprintf(`
		<h2>New Contact Submission</h2>
		<p><strong>From:</strong> %s &lt;%s&gt;</p>
		<p><strong>Subject:</strong> %s</p>
		<p><strong>Linked account:</strong> %s</p>
		<hr>
		<p>%s</p>
		<p>Reference: %s</p>
	`, contact.Name, contact.Email, contact.Subject, linked, contact.Message, contact.ID)

	return s.SendEmail(operatorEmail, subject, body)
}
