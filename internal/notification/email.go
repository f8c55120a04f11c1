package notification

import (
	"context"
	"fmt"
	"net/smtp"
)

// EmailConfig holds SMTP configuration.
type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

// EmailService delivers verification codes over SMTP.
type EmailService struct {
	config EmailConfig
}

// NewEmailService creates a new email service.
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// SendVerificationCode emails a verification code. The same message serves
// account verification and password recovery; the code is what matters.
func (s *EmailService) SendVerificationCode(_ context.Context, to, code string) error {
	subject := "Your verification code"
	body := fmt.Sprintf("Your verification code is: %s. It is valid for 10 minutes.\r\n"+
		"If you did not request this code, you can ignore this email.", code)
	return s.sendEmail(to, subject, body)
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	from := s.config.From
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.From)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		from, to, subject, body)

	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	return smtp.SendMail(addr, auth, s.config.From, []string{to}, []byte(msg))
}
