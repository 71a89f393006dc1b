package services

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// Mailer sends transactional email through the SMTP server configured in
// the environment. With no SMTP_HOST configured every send is a silent
// no-op, so email stays optional in development.
type Mailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewMailer() *Mailer {
	port := 587
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			port = p
		}
	}
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USER")
	}
	return &Mailer{
		host: os.Getenv("SMTP_HOST"),
		port: port,
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASS"),
		from: from,
	}
}

// Enabled reports whether SMTP is configured.
func (m *Mailer) Enabled() bool {
	return m.host != ""
}

// Send delivers one HTML email. Failures are returned for the caller to
// log; they never block store operations.
func (m *Mailer) Send(to, subject, htmlBody string) error {
	if !m.Enabled() {
		return nil
	}
	if to == "" {
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetHeader("Message-ID", fmt.Sprintf("<%s@inefablestore>", uuid.New().String()))
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	log.Printf("Email sent to %s: %s", to, subject)
	return nil
}
