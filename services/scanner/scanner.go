package scanner

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mailsift/mailsift/dto"
	"github.com/mailsift/mailsift/interfaces"
	"github.com/mailsift/mailsift/internal/models"
)

// MaxAttachmentSize is the advisory size ceiling. Oversize attachments are
// reported but do not flip the safety verdict on their own.
const MaxAttachmentSize = 10 * 1024 * 1024

const (
	ReasonNoFilename = "No filename"
	ReasonNoThreats  = "No threats detected"
	reasonSeparator  = ", "
)

var dangerousExtensions = map[string]struct{}{
	".exe": {},
	".bat": {},
	".cmd": {},
	".msi": {},
	".js":  {},
	".vbs": {},
	".ps1": {},
	".jar": {},
	".scr": {},
}

var suspiciousContentTypes = map[string]struct{}{
	"application/x-msdownload":    {},
	"application/x-msdos-program": {},
	"application/x-javascript":    {},
}

type scanner struct{}

func NewScanner() interfaces.AttachmentScanner {
	return &scanner{}
}

// Scan runs the independent checks against one attachment. Any unexpected
// failure while inspecting the payload yields an unsafe verdict carrying the
// failure description. The scanner fails closed and never propagates.
func (s *scanner) Scan(part dto.AttachmentPart) (verdict models.AttachmentVerdict) {
	verdict = models.AttachmentVerdict{
		Filename:    part.Filename,
		ContentType: part.ContentType,
		Size:        len(part.Content),
	}

	defer func() {
		if r := recover(); r != nil {
			verdict.IsSafe = false
			verdict.Reason = fmt.Sprintf("Attachment inspection failed: %v", r)
		}
	}()

	if part.Filename == "" {
		verdict.IsSafe = true
		verdict.Reason = ReasonNoFilename
		return verdict
	}

	var reasons []string
	unsafe := false

	ext := strings.ToLower(filepath.Ext(part.Filename))
	if _, dangerous := dangerousExtensions[ext]; dangerous {
		unsafe = true
		reasons = append(reasons, fmt.Sprintf("Dangerous file extension: %s", ext))
	}

	declaredType := strings.ToLower(strings.TrimSpace(part.ContentType))
	if _, suspicious := suspiciousContentTypes[declaredType]; suspicious {
		unsafe = true
		reasons = append(reasons, fmt.Sprintf("Suspicious content type: %s", declaredType))
	}

	if len(part.Content) > MaxAttachmentSize {
		// advisory only, does not gate safety
		reasons = append(reasons, fmt.Sprintf("Attachment too large: %d bytes", len(part.Content)))
	}

	verdict.IsSafe = !unsafe
	if len(reasons) == 0 {
		verdict.Reason = ReasonNoThreats
	} else {
		verdict.Reason = strings.Join(reasons, reasonSeparator)
	}

	return verdict
}
