package mailer

import (
	"context"
	"fmt"
	"net/smtp"
)

//go:generate mockgen -source=transport.go -destination=mocks/mock_transport.go -package=mocks

// Transport delivers a fully assembled RFC 5322 message.
type Transport interface {
	Send(ctx context.Context, from string, to []string, msg []byte) error
}

// SMTPTransport delivers mail over SMTP with optional PLAIN auth. The
// net/smtp client negotiates STARTTLS automatically when the server
// advertises it.
type SMTPTransport struct {
	Addr     string // host:port
	Username string
	Password string
	Host     string // hostname for auth, without port
}

// NewSMTPTransport builds a transport for the given host and port.
// Credentials may be empty for unauthenticated relays.
func NewSMTPTransport(host string, port int, username, password string) *SMTPTransport {
	return &SMTPTransport{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Host:     host,
		Username: username,
		Password: password,
	}
}

// Send delivers msg. The context only gates the call upfront; net/smtp
// does not support mid-session cancellation.
func (t *SMTPTransport) Send(ctx context.Context, from string, to []string, msg []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if t.Username != "" {
		auth = smtp.PlainAuth("", t.Username, t.Password, t.Host)
	}

	if err := smtp.SendMail(t.Addr, auth, from, to, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
