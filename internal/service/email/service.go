package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/resend/resend-go/v3"

	"leantime-watchers/internal/config"
)

type Service interface {
	SendNotificationDigest(ctx context.Context, toEmail, recipientName string, items []DigestItem) error
}

// DigestItem is one queued notification. Message is HTML produced by the
// dispatcher, not user input.
type DigestItem struct {
	Subject string
	Message template.HTML
}

type sender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type service struct {
	sender       sender
	config       *config.Config
	templatePath string
}

func NewService(cfg *config.Config) Service {
	client := resend.NewClient(cfg.ResendAPIKey)
	return newService(client.Emails, cfg)
}

func newService(s sender, cfg *config.Config) *service {
	return &service{
		sender:       s,
		config:       cfg,
		templatePath: filepath.Join(cfg.TemplatePath, "email"),
	}
}

func (s *service) sendEmail(toEmail, subject, templateName string, data interface{}) error {
	tmpl, err := template.ParseFiles(
		filepath.Join(s.templatePath, "layout.html"),
		filepath.Join(s.templatePath, templateName),
	)
	if err != nil {
		return fmt.Errorf("failed to parse email templates: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Leantime <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    body.String(),
		Subject: subject,
	}

	_, err = s.sender.Send(params)
	return err
}

func (s *service) SendNotificationDigest(ctx context.Context, toEmail, recipientName string, items []DigestItem) error {
	if len(items) == 0 {
		return nil
	}

	subject := items[0].Subject
	if len(items) > 1 {
		subject = fmt.Sprintf("%s (+%d more)", items[0].Subject, len(items)-1)
	}

	data := struct {
		Title string
		Name  string
		Items []DigestItem
	}{
		Title: subject,
		Name:  recipientName,
		Items: items,
	}
	return s.sendEmail(toEmail, subject, "notification_digest.html", data)
}
