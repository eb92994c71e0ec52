package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerdictList_ValueIsNullWhenEmpty(t *testing.T) {
	var verdicts VerdictList

	value, err := verdicts.Value()
	require.NoError(t, err)
	assert.Nil(t, value)

	value, err = VerdictList{}.Value()
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestVerdictList_ScanRoundTrip(t *testing.T) {
	original := VerdictList{
		{Filename: "setup.exe", ContentType: "application/x-msdownload", Size: 2, IsSafe: false, Reason: "Dangerous file extension: .exe"},
		{Filename: "document.pdf", ContentType: "application/pdf", Size: 8, IsSafe: true, Reason: "No threats detected"},
	}

	value, err := original.Value()
	require.NoError(t, err)
	require.NotNil(t, value)

	var loaded VerdictList
	require.NoError(t, loaded.Scan(value))
	assert.Equal(t, original, loaded)
}

func TestVerdictList_ScanNil(t *testing.T) {
	loaded := VerdictList{{Filename: "stale.bin"}}
	require.NoError(t, loaded.Scan(nil))
	assert.Nil(t, loaded)
}

func TestVerdictList_AnyUnsafe(t *testing.T) {
	assert.False(t, VerdictList(nil).AnyUnsafe())
	assert.False(t, VerdictList{{IsSafe: true}}.AnyUnsafe())
	assert.True(t, VerdictList{{IsSafe: true}, {IsSafe: false}}.AnyUnsafe())
}

func TestEmail_SerializeAttachmentInfoNullWhenEmpty(t *testing.T) {
	email := &Email{ID: "email-1", Sender: "a@example.com"}

	serialized := email.Serialize()
	assert.Nil(t, serialized["attachment_info"])

	email.AttachmentInfo = VerdictList{{Filename: "setup.exe"}}
	serialized = email.Serialize()
	assert.NotNil(t, serialized["attachment_info"])
}
