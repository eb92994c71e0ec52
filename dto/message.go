package dto

import "time"

// RawMessage is one message as fetched from the provider, identified by its
// provider-native sequence id for the duration of a single session.
type RawMessage struct {
	SeqNum uint32
	Body   []byte
}

// AttachmentPart is one attachment in declaration order.
type AttachmentPart struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ParsedMessage is the structured form of one raw message. Sender keeps the
// raw From header for display; SenderAddress and SenderDomain are only set
// when the address passed syntax validation.
type ParsedMessage struct {
	MessageID     string
	Sender        string
	SenderAddress string
	SenderDomain  string
	Recipients    []string
	Subject       string
	Body          string
	Date          time.Time
	Attachments   []AttachmentPart
}
