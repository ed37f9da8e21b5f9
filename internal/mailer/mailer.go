// Package mailer delivers matched certificates as email attachments.
package mailer

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/textproto"
	"os"
	"time"
)

// Message is one outgoing certificate email.
type Message struct {
	To             string
	Subject        string
	Body           string
	AttachmentPath string // certificate file on disk
	AttachmentName string // filename presented to the recipient
}

// Config tunes delivery behavior.
type Config struct {
	From string
	// Retries is the total number of delivery attempts per message.
	Retries int
	// Backoff is the base delay between attempts, doubled each retry and
	// capped at 30s. Zero selects one second.
	Backoff time.Duration
}

// Mailer sends messages through a Transport with bounded retries.
type Mailer struct {
	transport Transport
	cfg       Config
	logger    *slog.Logger
}

// New creates a Mailer.
func New(transport Transport, cfg Config, logger *slog.Logger) *Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Retries <= 0 {
		cfg.Retries = 1
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Second
	}
	return &Mailer{transport: transport, cfg: cfg, logger: logger}
}

// Send assembles and delivers one message, retrying failed attempts with
// exponential backoff until the retry budget or the context runs out.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("no email address for message %q", msg.Subject)
	}

	raw, err := m.build(msg)
	if err != nil {
		return err
	}

	backoff := m.cfg.Backoff
	var lastErr error
	for attempt := 1; attempt <= m.cfg.Retries; attempt++ {
		lastErr = m.transport.Send(ctx, m.cfg.From, []string{msg.To}, raw)
		if lastErr == nil {
			m.logger.Info("mail sent", "to", msg.To, "attachment", msg.AttachmentName, "attempt", attempt)
			return nil
		}

		m.logger.Warn("mail attempt failed", "to", msg.To, "attempt", attempt, "error", lastErr)
		if attempt == m.cfg.Retries {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, 30*time.Second)
	}

	return fmt.Errorf("sending to %s after %d attempts: %w", msg.To, m.cfg.Retries, lastErr)
}

// build assembles a multipart MIME message with a text body and a base64
// PDF attachment.
func (m *Mailer) build(msg Message) ([]byte, error) {
	pdf, err := os.ReadFile(msg.AttachmentPath)
	if err != nil {
		return nil, fmt.Errorf("reading attachment: %w", err)
	}

	name := SanitizeFilename(msg.AttachmentName)
	if name == "" {
		name = "certificate.pdf"
	}

	var b bytes.Buffer
	mw := multipart.NewWriter(&b)

	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/mixed; boundary=%q\r\n", mw.Boundary())
	b.WriteString("\r\n")

	body, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	if err != nil {
		return nil, fmt.Errorf("writing body part: %w", err)
	}
	fmt.Fprintf(body, "%s\r\n", msg.Body)

	att, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"application/pdf"},
		"Content-Transfer-Encoding": {"base64"},
		"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", name)},
	})
	if err != nil {
		return nil, fmt.Errorf("writing attachment part: %w", err)
	}
	writeBase64(att, pdf)

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart message: %w", err)
	}
	return b.Bytes(), nil
}

// writeBase64 encodes data in 76-column lines per RFC 2045.
func writeBase64(w io.Writer, data []byte) {
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 76 {
		io.WriteString(w, encoded[:76])
		io.WriteString(w, "\r\n")
		encoded = encoded[76:]
	}
	io.WriteString(w, encoded)
	io.WriteString(w, "\r\n")
}
