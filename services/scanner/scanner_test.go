package scanner

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mailsift/mailsift/dto"
)

func TestScan_CleanDocument(t *testing.T) {
	s := NewScanner()

	verdict := s.Scan(dto.AttachmentPart{
		Filename:    "document.pdf",
		ContentType: "application/pdf",
		Content:     []byte("%PDF-1.4"),
	})

	assert.True(t, verdict.IsSafe)
	assert.Equal(t, ReasonNoThreats, verdict.Reason)
	assert.Equal(t, "document.pdf", verdict.Filename)
	assert.Equal(t, 8, verdict.Size)
}

func TestScan_DangerousExtension(t *testing.T) {
	s := NewScanner()

	verdict := s.Scan(dto.AttachmentPart{
		Filename:    "setup.exe",
		ContentType: "application/octet-stream",
	})

	assert.False(t, verdict.IsSafe)
	assert.Equal(t, "Dangerous file extension: .exe", verdict.Reason)
}

func TestScan_ExtensionCheckIsCaseInsensitive(t *testing.T) {
	s := NewScanner()

	verdict := s.Scan(dto.AttachmentPart{
		Filename:    "INVOICE.EXE",
		ContentType: "application/pdf",
	})

	assert.False(t, verdict.IsSafe)
	assert.Equal(t, "Dangerous file extension: .exe", verdict.Reason)
}

func TestScan_SuspiciousContentType(t *testing.T) {
	s := NewScanner()

	verdict := s.Scan(dto.AttachmentPart{
		Filename:    "report.bin",
		ContentType: "application/x-msdownload",
	})

	assert.False(t, verdict.IsSafe)
	assert.Equal(t, "Suspicious content type: application/x-msdownload", verdict.Reason)
}

func TestScan_BothChecksFireAndReasonsAccumulate(t *testing.T) {
	s := NewScanner()

	verdict := s.Scan(dto.AttachmentPart{
		Filename:    "setup.exe",
		ContentType: "application/x-msdownload",
	})

	assert.False(t, verdict.IsSafe)
	assert.Equal(t, "Dangerous file extension: .exe, Suspicious content type: application/x-msdownload", verdict.Reason)
}

func TestScan_NoFilenameShortCircuits(t *testing.T) {
	s := NewScanner()

	// deny-listed content type, but the filename check runs first
	verdict := s.Scan(dto.AttachmentPart{
		ContentType: "application/x-msdownload",
		Content:     []byte("MZ"),
	})

	assert.True(t, verdict.IsSafe)
	assert.Equal(t, ReasonNoFilename, verdict.Reason)
}

func TestScan_OversizeIsAdvisoryOnly(t *testing.T) {
	s := NewScanner()

	verdict := s.Scan(dto.AttachmentPart{
		Filename:    "archive.zip",
		ContentType: "application/zip",
		Content:     bytes.Repeat([]byte{0}, MaxAttachmentSize+1),
	})

	assert.True(t, verdict.IsSafe)
	assert.Equal(t, fmt.Sprintf("Attachment too large: %d bytes", MaxAttachmentSize+1), verdict.Reason)
}

func TestScan_OversizeDangerousAttachmentReportsBoth(t *testing.T) {
	s := NewScanner()

	verdict := s.Scan(dto.AttachmentPart{
		Filename:    "movie.scr",
		ContentType: "video/mp4",
		Content:     bytes.Repeat([]byte{0}, MaxAttachmentSize+1),
	})

	assert.False(t, verdict.IsSafe)
	assert.Contains(t, verdict.Reason, "Dangerous file extension: .scr")
	assert.Contains(t, verdict.Reason, "Attachment too large:")
}
