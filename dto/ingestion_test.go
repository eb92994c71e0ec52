package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveMaxEmails(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected int
	}{
		{"missing", nil, DefaultMaxEmailsPerBatch},
		{"positive int", 25, 25},
		{"json number", float64(5), 5},
		{"zero", float64(0), DefaultMaxEmailsPerBatch},
		{"negative", float64(-3), DefaultMaxEmailsPerBatch},
		{"numeric string", "7", 7},
		{"padded numeric string", " 12 ", 12},
		{"non-numeric string", "lots", DefaultMaxEmailsPerBatch},
		{"bool", true, DefaultMaxEmailsPerBatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := IngestionRequest{MaxEmails: tt.value}
			assert.Equal(t, tt.expected, request.EffectiveMaxEmails())
		})
	}
}

func TestEffectiveMaxEmails_FromJSONBody(t *testing.T) {
	var request IngestionRequest
	require.NoError(t, json.Unmarshal([]byte(`{"max_emails": "ten"}`), &request))

	assert.Equal(t, DefaultMaxEmailsPerBatch, request.EffectiveMaxEmails())
}

func TestEffectiveCategories_DefaultsWhenAbsent(t *testing.T) {
	request := IngestionRequest{}

	assert.Equal(t, []string{DefaultCategory}, request.EffectiveCategories())
}

func TestEffectiveCategories_EmptySliceStaysEmpty(t *testing.T) {
	request := IngestionRequest{Categories: []string{}}

	assert.Empty(t, request.EffectiveCategories())
}

func TestParseRequestDate(t *testing.T) {
	parsed, err := ParseRequestDate("2023-04-01")
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.Equal(t, time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC), *parsed)

	parsed, err = ParseRequestDate("2023-04-01T12:30:00Z")
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.Equal(t, 12, parsed.Hour())

	parsed, err = ParseRequestDate("")
	require.NoError(t, err)
	assert.Nil(t, parsed)

	_, err = ParseRequestDate("last tuesday")
	assert.Error(t, err)
}
