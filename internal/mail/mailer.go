// Package mail delivers transactional email for the portal.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Mailer sends transactional email to portal users.
type Mailer interface {
	// SendPasswordReset delivers a password-reset link to the given address.
	SendPasswordReset(ctx context.Context, to, name, resetLink string) error
}

// SMTPConfig holds the settings for the SMTP mailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// smtpMailer implements Mailer over plain SMTP with optional AUTH.
type smtpMailer struct {
	cfg    SMTPConfig
	logger *slog.Logger
}

// NewSMTPMailer creates a Mailer that delivers through the configured SMTP server.
func NewSMTPMailer(cfg SMTPConfig, logger *slog.Logger) Mailer {
	return &smtpMailer{cfg: cfg, logger: logger}
}

// SendPasswordReset delivers a password-reset link to the given address.
func (m *smtpMailer) SendPasswordReset(ctx context.Context, to, name, resetLink string) error {
	if name == "" {
		name = to
	}

	subject := "Password Reset Request - ESS Portal"
	body := passwordResetBody(name, resetLink)
	msg := buildMessage(m.cfg.From, to, subject, body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	m.logger.Info("password reset email sent", slog.String("to", to))
	return nil
}

// logMailer implements Mailer by logging the reset link instead of sending it.
// Used in development when no SMTP server is configured.
type logMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a Mailer that only logs outgoing messages.
func NewLogMailer(logger *slog.Logger) Mailer {
	return &logMailer{logger: logger}
}

// SendPasswordReset logs the reset link instead of delivering it.
func (m *logMailer) SendPasswordReset(ctx context.Context, to, name, resetLink string) error {
	m.logger.Info("password reset email (log only)",
		slog.String("to", to),
		slog.String("reset_link", resetLink),
	)
	return nil
}

func passwordResetBody(name, resetLink string) string {
	var b strings.Builder
	b.WriteString("<p>Hi " + name + ",</p>")
	b.WriteString("<p>You requested a password reset for your ESS Portal account.</p>")
	b.WriteString("<p>Please click the link below to set a new password. This link is valid for 60 minutes:</p>")
	b.WriteString(`<p><a href="` + resetLink + `">` + resetLink + `</a></p>`)
	b.WriteString("<p>If you did not request this, please ignore this email.</p>")
	b.WriteString("<p>Thanks,<br/>The ESS Portal Team</p>")
	return b.String()
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}
