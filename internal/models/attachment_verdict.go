package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/pkg/errors"
)

// AttachmentVerdict is the risk scanner's output for one attachment.
// Immutable once produced.
type AttachmentVerdict struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
	IsSafe      bool   `json:"is_safe"`
	Reason      string `json:"reason"`
}

// VerdictList stores attachment verdicts as a jsonb array, null when empty.
type VerdictList []AttachmentVerdict

// Value implements the driver.Valuer interface for VerdictList
func (v VerdictList) Value() (driver.Value, error) {
	if len(v) == 0 {
		return nil, nil
	}
	return json.Marshal(v)
}

// Scan implements the sql.Scanner interface for VerdictList
func (v *VerdictList) Scan(value interface{}) error {
	if value == nil {
		*v = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("attachment_info: unsupported column type")
	}

	return json.Unmarshal(bytes, v)
}

// AnyUnsafe reports whether at least one verdict flagged the attachment.
func (v VerdictList) AnyUnsafe() bool {
	for _, verdict := range v {
		if !verdict.IsSafe {
			return true
		}
	}
	return false
}
