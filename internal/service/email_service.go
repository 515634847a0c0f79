package service

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"shiine-academy-backend/internal/config"
	"shiine-academy-backend/pkg/logger"
)

// CodeSender delivers a sign-up verification code to an address. The SMTP
// implementation is used in production; tests substitute their own.
type CodeSender interface {
	SendCode(email, code string) error
}

// EmailService sends plain-text mail over SMTP. When mail is disabled or
// unconfigured the code is written to the log instead, which keeps local
// development working without a mail server.
type EmailService struct {
	config *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{config: cfg}
}

func (s *EmailService) Enabled() bool {
	if s == nil || s.config == nil || !s.config.EnableEmail {
		return false
	}
	return s.config.SMTPHost != "" && s.config.SMTPUsername != "" && s.config.SMTPPassword != ""
}

func (s *EmailService) SendCode(email, code string) error {
	if !s.Enabled() {
		logger.Info("Email disabled, logging verification code instead", map[string]interface{}{
			"email": email,
			"code":  code,
		})
		return nil
	}

	subject := fmt.Sprintf("%s verification code", s.config.SiteName)
	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, s.config.OTPTTLMinutes)
	return s.send(email, subject, body)
}

func (s *EmailService) send(to, subject, body string) error {
	if s == nil || s.config == nil {
		return errors.New("email service is not configured")
	}

	addr := fmt.Sprintf("%s:%s", s.config.SMTPHost, s.config.SMTPPort)
	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	var builder strings.Builder
	headers := map[string]string{
		"From":         s.config.SMTPFrom,
		"To":           strings.TrimSpace(to),
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/plain; charset=UTF-8",
	}
	for key, value := range headers {
		builder.WriteString(key)
		builder.WriteString(": ")
		builder.WriteString(value)
		builder.WriteString("\r\n")
	}
	builder.WriteString("\r\n")
	builder.WriteString(body)

	return smtp.SendMail(addr, auth, s.config.SMTPFrom, []string{to}, []byte(builder.String()))
}
