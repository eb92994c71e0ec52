package dto

import (
	"strconv"
	"strings"
	"time"
)

const (
	DefaultCategory          = "primary"
	DefaultMaxEmailsPerBatch = 10
)

// IngestionRequest is the inbound processing request. MaxEmails is kept
// untyped on purpose: a non-numeric value degrades to the default bound
// instead of failing the whole request.
type IngestionRequest struct {
	Categories []string    `json:"categories"`
	MaxEmails  interface{} `json:"max_emails"`
	StartDate  string      `json:"start_date,omitempty"`
	EndDate    string      `json:"end_date,omitempty"`
}

// FetchQuery carries the normalized search parameters for one category.
type FetchQuery struct {
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
	MaxEmails int
}

// IngestionReport maps each requested category to its processed count.
type IngestionReport struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Results map[string]int `json:"results"`
}

// EffectiveMaxEmails coerces max_emails to a positive bound, falling back to
// the default on any non-numeric or non-positive value.
func (r IngestionRequest) EffectiveMaxEmails() int {
	switch v := r.MaxEmails.(type) {
	case nil:
		return DefaultMaxEmailsPerBatch
	case float64:
		if v >= 1 {
			return int(v)
		}
	case int:
		if v >= 1 {
			return v
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 1 {
			return n
		}
	}
	return DefaultMaxEmailsPerBatch
}

// EffectiveCategories returns the requested categories, or the default
// category when none were named. A nil slice means "not provided"; an empty
// slice is an explicit request for nothing.
func (r IngestionRequest) EffectiveCategories() []string {
	if r.Categories == nil {
		return []string{DefaultCategory}
	}
	return r.Categories
}

// ParseRequestDate accepts RFC 3339 date-times and bare calendar dates.
func ParseRequestDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
