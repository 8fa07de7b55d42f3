package services

import (
	"fmt"
	"log"
	"net/smtp"

	"shopware-backend/config"
)

// EmailService sends transactional emails over SMTP
type EmailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewEmailService creates a new email service from config
func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
	}
}

// SendOTPEmail delivers a verification code. When SMTP is not
// configured (local development) the code is logged instead.
func (s *EmailService) SendOTPEmail(toEmail, code string) error {
	subject := "Your verification code"
	body := fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code)
	return s.send(toEmail, subject, body)
}

func (s *EmailService) send(toEmail, subject, body string) error {
	if s.username == "" || s.password == "" {
		log.Printf("SMTP not configured, skipping email to %s: %s", toEmail, subject)
		return nil
	}

	message := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.from, toEmail, subject, body)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	if err := smtp.SendMail(addr, auth, s.from, []string{toEmail}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
