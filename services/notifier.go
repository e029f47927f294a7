package services

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
)

// SMTPNotifier sends the invite email through a plain SMTP relay. When the
// relay is not configured it degrades to logging the redemption link, which
// keeps local development working without a mail server.
type SMTPNotifier struct {
	BaseURL string // public base URL embedded in the redemption link
}

func NewSMTPNotifier() *SMTPNotifier {
	base := os.Getenv("INVITE_BASE_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	return &SMTPNotifier{BaseURL: base}
}

func (n *SMTPNotifier) SendInviteEmail(inviterID uint, email, token string) {
	link := fmt.Sprintf("%s/signup?invite=%s", n.BaseURL, token)

	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Printf("invite for %s (inviter %d): %s", email, inviterID, link)
		return
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	from := os.Getenv("SMTP_FROM")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASSWORD")

	msg := []byte("From: " + from + "\r\n" +
		"To: " + email + "\r\n" +
		"Subject: You have been invited\r\n" +
		"\r\n" +
		"An account has been prepared for you. Create it here:\r\n" +
		link + "\r\n")

	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, pass, host)
	}
	if err := smtp.SendMail(host+":"+port, auth, from, []string{email}, msg); err != nil {
		// Fire-and-forget: a lost email is recoverable by re-issuing.
		log.Printf("invite email to %s failed: %v", email, err)
	}
}
