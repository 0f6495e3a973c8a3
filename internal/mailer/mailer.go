// Package mailer relays engagement notifications and contact-form messages
// to the site owner over SMTP.
package mailer

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"portfolio/internal/config"
	"portfolio/internal/middleware"
	"portfolio/internal/models"

	"github.com/wneessen/go-mail"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Mailer sends templated HTML emails to the owner address. A Mailer without
// SMTP credentials is disabled: sends fail with a delivery error, which the
// notification paths swallow and the contact path surfaces.
type Mailer struct {
	client *mail.Client
	from   string
	to     string
}

// New builds a Mailer from SMTP configuration.
func New(cfg *config.Config) (*Mailer, error) {
	m := &Mailer{
		from: cfg.SMTPUser,
		to:   cfg.OwnerEmail,
	}

	if cfg.SMTPHost == "" || cfg.SMTPUser == "" || cfg.OwnerEmail == "" {
		middleware.Logger.Warn("SMTP not configured; email delivery disabled")
		return m, nil
	}

	client, err := mail.NewClient(cfg.SMTPHost,
		mail.WithPort(cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.SMTPUser),
		mail.WithPassword(cfg.SMTPPassword),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	m.client = client
	return m, nil
}

// NotifyLike emails the owner that a visitor liked an item.
func (m *Mailer) NotifyLike(ctx context.Context, visitorName, contentPreview string) error {
	subject := "New Like on Your Content - " + visitorName
	return m.send(ctx, subject, buildLikeBody(visitorName, contentPreview, time.Now()))
}

// NotifyComment emails the owner that a visitor commented on an item.
func (m *Mailer) NotifyComment(ctx context.Context, visitorName, commentText, contentPreview string) error {
	subject := "New Comment - " + visitorName
	return m.send(ctx, subject, buildCommentBody(visitorName, commentText, contentPreview, time.Now()))
}

// SendContactMessage validates and relays a contact-form submission. Unlike
// the engagement notifications, a delivery failure here is the caller's
// problem: sending the email is the whole point of the request.
func (m *Mailer) SendContactMessage(ctx context.Context, name, email, subject, message string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	subject = strings.TrimSpace(subject)
	message = strings.TrimSpace(message)

	if name == "" || email == "" || subject == "" || message == "" {
		return models.NewValidationError("All fields required")
	}
	if !emailPattern.MatchString(email) {
		return models.NewValidationError("Invalid email address")
	}

	fullSubject := "New Portfolio Contact: " + subject
	if err := m.send(ctx, fullSubject, buildContactBody(name, email, subject, message)); err != nil {
		return models.NewDeliveryError(err)
	}
	return nil
}

func (m *Mailer) send(ctx context.Context, subject, htmlBody string) error {
	if m.client == nil {
		return fmt.Errorf("mailer disabled: SMTP not configured")
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(m.to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	return m.client.DialAndSendWithContext(ctx, msg)
}

// The body builders escape every user-controlled field before embedding it
// in HTML, so a visitor name like "<script>" arrives inert.

func buildLikeBody(visitorName, contentPreview string, at time.Time) string {
	var b strings.Builder
	b.WriteString("<h2>Someone liked your content 👍</h2>")
	writeField(&b, "Visitor", visitorName)
	writeField(&b, "Content", contentPreview)
	writeField(&b, "Time", at.Format(time.RFC1123))
	return b.String()
}

func buildCommentBody(visitorName, commentText, contentPreview string, at time.Time) string {
	var b strings.Builder
	b.WriteString("<h2>New comment received 💬</h2>")
	writeField(&b, "Visitor", visitorName)
	writeField(&b, "Comment", commentText)
	writeField(&b, "Content", contentPreview)
	writeField(&b, "Time", at.Format(time.RFC1123))
	return b.String()
}

func buildContactBody(name, email, subject, message string) string {
	var b strings.Builder
	b.WriteString("<h2>Portfolio Contact Form</h2>")
	writeField(&b, "Name", name)
	writeField(&b, "Email", email)
	writeField(&b, "Subject", subject)
	b.WriteString("<p>")
	b.WriteString(strings.ReplaceAll(html.EscapeString(message), "\n", "<br>"))
	b.WriteString("</p>")
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString("<p><strong>")
	b.WriteString(label)
	b.WriteString(":</strong> ")
	b.WriteString(html.EscapeString(value))
	b.WriteString("</p>")
}
