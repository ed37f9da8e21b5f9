package mailer_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/mail"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/certsend/certsend/internal/mailer"
	"github.com/certsend/certsend/internal/mailer/mocks"
)

// testLogger returns a discard logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeAttachment(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "JohnDoe.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o644))
	return path
}

func testMessage(path string) mailer.Message {
	return mailer.Message{
		To:             "john@example.org",
		Subject:        "Your certificate",
		Body:           "Congratulations!",
		AttachmentPath: path,
		AttachmentName: "JohnDoe.pdf",
	}
}

func TestSend(t *testing.T) {
	ctrl := gomock.NewController(t)
	path := writeAttachment(t)

	transport := mocks.NewMockTransport(ctrl)
	transport.EXPECT().
		Send(gomock.Any(), "events@example.org", []string{"john@example.org"}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ []string, msg []byte) error {
			raw := string(msg)
			assert.Contains(t, raw, "Subject: Your certificate")
			assert.Contains(t, raw, "Content-Type: application/pdf")
			assert.Contains(t, raw, `filename="JohnDoe.pdf"`)
			assert.Contains(t, raw, "Congratulations!")
			return nil
		})

	m := mailer.New(transport, mailer.Config{From: "events@example.org"}, testLogger())
	err := m.Send(context.Background(), testMessage(path))
	require.NoError(t, err)
}

// A body line that looks like a part delimiter must not split the message;
// the generated boundary keeps the two parts intact.
func TestSendBodyWithDelimiterLikeLine(t *testing.T) {
	ctrl := gomock.NewController(t)
	path := writeAttachment(t)

	var raw []byte
	transport := mocks.NewMockTransport(ctrl)
	transport.EXPECT().
		Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ []string, msg []byte) error {
			raw = msg
			return nil
		})

	m := mailer.New(transport, mailer.Config{From: "events@example.org"}, testLogger())
	msg := testMessage(path)
	msg.Body = "Congratulations!\r\n--attachment-boundary--\r\nSee you there."
	require.NoError(t, m.Send(context.Background(), msg))

	parsed, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	_, params, err := mime.ParseMediaType(parsed.Header.Get("Content-Type"))
	require.NoError(t, err)

	mr := multipart.NewReader(parsed.Body, params["boundary"])

	body, err := mr.NextPart()
	require.NoError(t, err)
	text, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Contains(t, string(text), "--attachment-boundary--")

	att, err := mr.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", att.Header.Get("Content-Type"))
	pdf, err := io.ReadAll(base64.NewDecoder(base64.StdEncoding, att))
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 fake"), pdf)

	_, err = mr.NextPart()
	assert.ErrorIs(t, err, io.EOF)
}

func TestSendRetriesThenSucceeds(t *testing.T) {
	ctrl := gomock.NewController(t)
	path := writeAttachment(t)

	transport := mocks.NewMockTransport(ctrl)
	gomock.InOrder(
		transport.EXPECT().
			Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("connection refused")),
		transport.EXPECT().
			Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil),
	)

	m := mailer.New(transport, mailer.Config{
		From:    "events@example.org",
		Retries: 3,
		Backoff: time.Millisecond,
	}, testLogger())

	err := m.Send(context.Background(), testMessage(path))
	require.NoError(t, err)
}

func TestSendExhaustsRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	path := writeAttachment(t)

	transport := mocks.NewMockTransport(ctrl)
	transport.EXPECT().
		Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("mailbox unavailable")).
		Times(2)

	m := mailer.New(transport, mailer.Config{
		From:    "events@example.org",
		Retries: 2,
		Backoff: time.Millisecond,
	}, testLogger())

	err := m.Send(context.Background(), testMessage(path))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestSendMissingEmail(t *testing.T) {
	ctrl := gomock.NewController(t)

	m := mailer.New(mocks.NewMockTransport(ctrl), mailer.Config{From: "events@example.org"}, testLogger())
	msg := testMessage(writeAttachment(t))
	msg.To = ""

	assert.Error(t, m.Send(context.Background(), msg))
}

func TestSendMissingAttachment(t *testing.T) {
	ctrl := gomock.NewController(t)

	m := mailer.New(mocks.NewMockTransport(ctrl), mailer.Config{From: "events@example.org"}, testLogger())
	msg := testMessage(filepath.Join(t.TempDir(), "nope.pdf"))

	assert.Error(t, m.Send(context.Background(), msg))
}

func TestSendCanceledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	path := writeAttachment(t)

	transport := mocks.NewMockTransport(ctrl)
	transport.EXPECT().
		Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("timeout"))

	m := mailer.New(transport, mailer.Config{
		From:    "events@example.org",
		Retries: 5,
		Backoff: time.Minute, // would stall without cancellation
	}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Send(ctx, testMessage(path))
	assert.ErrorIs(t, err, context.Canceled)
}
