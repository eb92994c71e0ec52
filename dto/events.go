package dto

// PhishingAlert is the payload of a phishing_alert notification event.
type PhishingAlert struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	MessageID string `json:"message_id"`
}

// EmailDeleted is the payload of an email_deleted notification event.
type EmailDeleted struct {
	ID string `json:"id"`
}

const (
	EventNewMessage    = "new_message"
	EventEmailUpdated  = "email_updated"
	EventEmailDeleted  = "email_deleted"
	EventPhishingAlert = "phishing_alert"
)
