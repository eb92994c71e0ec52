package extractor

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailsift/mailsift/internal/utils"
)

func rawMessage(headers map[string]string, body string) []byte {
	var b strings.Builder
	for name, value := range headers {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

func TestExtract_PlainMessage(t *testing.T) {
	e := NewExtractor()

	raw := rawMessage(map[string]string{
		"From":       "John Doe <john.doe@example.com>",
		"To":         "Team <team@example.com>, ops@example.com",
		"Subject":    "Meeting Tomorrow",
		"Date":       "Mon, 02 Jan 2023 15:04:05 -0700",
		"Message-Id": "<abc123@mail.example.com>",
	}, "Hi team, just a reminder about our meeting tomorrow.")

	msg, err := e.Extract(raw)
	require.NoError(t, err)

	assert.Equal(t, "abc123@mail.example.com", msg.MessageID)
	assert.Equal(t, "John Doe <john.doe@example.com>", msg.Sender)
	assert.Equal(t, "john.doe@example.com", msg.SenderAddress)
	assert.Equal(t, "example.com", msg.SenderDomain)
	assert.Equal(t, []string{"team@example.com", "ops@example.com"}, msg.Recipients)
	assert.Equal(t, "Meeting Tomorrow", msg.Subject)
	assert.Equal(t, "Hi team, just a reminder about our meeting tomorrow.", strings.TrimSpace(msg.Body))

	expectedDate, _ := time.Parse(dateHeaderLayout, "Mon, 02 Jan 2023 15:04:05 -0700")
	assert.True(t, msg.Date.Equal(expectedDate))
	assert.Empty(t, msg.Attachments)
}

func TestExtract_MissingHeadersDegradeToSentinels(t *testing.T) {
	e := NewExtractor()

	msg, err := e.Extract(rawMessage(map[string]string{}, ""))
	require.NoError(t, err)

	assert.Equal(t, SentinelSender, msg.Sender)
	assert.Equal(t, SentinelSubject, msg.Subject)
	assert.Equal(t, SentinelBody, msg.Body)
	assert.Empty(t, msg.SenderAddress)
	assert.Empty(t, msg.SenderDomain)
}

func TestExtract_UnparseableDateFallsBackToIngestionTime(t *testing.T) {
	e := NewExtractor()

	before := utils.Now()
	msg, err := e.Extract(rawMessage(map[string]string{
		"From": "a@example.com",
		"Date": "yesterday sometime",
	}, "body"))
	after := utils.Now()
	require.NoError(t, err)

	assert.False(t, msg.Date.Before(before))
	assert.False(t, msg.Date.After(after))
}

func TestExtract_HtmlBodyUsedWhenNoPlainPart(t *testing.T) {
	e := NewExtractor()

	msg, err := e.Extract(rawMessage(map[string]string{
		"From":         "a@example.com",
		"Content-Type": "text/html; charset=utf-8",
	}, "<p>Click here</p>"))
	require.NoError(t, err)

	assert.Contains(t, msg.Body, "Click here")
}

func TestExtract_MultipartWithAttachments(t *testing.T) {
	e := NewExtractor()

	raw := []byte("From: sender@example.com\r\n" +
		"Subject: Files\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: multipart/mixed; boundary=\"frontier\"\r\n" +
		"\r\n" +
		"--frontier\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"See attached.\r\n" +
		"--frontier\r\n" +
		"Content-Type: application/pdf; name=\"document.pdf\"\r\n" +
		"Content-Disposition: attachment; filename=\"document.pdf\"\r\n" +
		"\r\n" +
		"fake-pdf-bytes\r\n" +
		"--frontier\r\n" +
		"Content-Type: application/x-msdownload; name=\"setup.exe\"\r\n" +
		"Content-Disposition: attachment; filename=\"setup.exe\"\r\n" +
		"\r\n" +
		"MZ\r\n" +
		"--frontier--\r\n")

	msg, err := e.Extract(raw)
	require.NoError(t, err)

	require.Len(t, msg.Attachments, 2)
	assert.Equal(t, "document.pdf", msg.Attachments[0].Filename)
	assert.Equal(t, "application/pdf", msg.Attachments[0].ContentType)
	assert.Equal(t, "setup.exe", msg.Attachments[1].Filename)
	assert.Equal(t, "application/x-msdownload", msg.Attachments[1].ContentType)
	assert.Equal(t, "See attached.", strings.TrimSpace(msg.Body))
}

func TestExtract_InlineDisposedAttachmentIncluded(t *testing.T) {
	e := NewExtractor()

	raw := []byte("From: sender@example.com\r\n" +
		"Subject: Files\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: multipart/mixed; boundary=\"frontier\"\r\n" +
		"\r\n" +
		"--frontier\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"See attached.\r\n" +
		"--frontier\r\n" +
		"Content-Type: application/x-msdownload; name=\"evil.exe\"\r\n" +
		"Content-Disposition: inline; filename=\"evil.exe\"\r\n" +
		"\r\n" +
		"MZ\r\n" +
		"--frontier--\r\n")

	msg, err := e.Extract(raw)
	require.NoError(t, err)

	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "evil.exe", msg.Attachments[0].Filename)
	assert.Equal(t, "application/x-msdownload", msg.Attachments[0].ContentType)
}

func TestExtract_BareAddressSender(t *testing.T) {
	e := NewExtractor()

	msg, err := e.Extract(rawMessage(map[string]string{
		"From": "alice@example.org",
	}, "body"))
	require.NoError(t, err)

	assert.Equal(t, "alice@example.org", msg.Sender)
	assert.Equal(t, "alice@example.org", msg.SenderAddress)
	assert.Equal(t, "example.org", msg.SenderDomain)
}

func TestExtract_MessageIdAnglesTrimmed(t *testing.T) {
	e := NewExtractor()

	msg, err := e.Extract(rawMessage(map[string]string{
		"From":       "a@example.com",
		"Message-Id": "<id-1@host>",
	}, "body"))
	require.NoError(t, err)

	assert.Equal(t, "id-1@host", msg.MessageID)
}
