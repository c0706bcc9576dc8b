package notifyservice

// Message is the wire payload the notification service accepts
type Message struct {
	ApplicationID int64   `json:"application_id"`
	Status        string  `json:"status"`
	RecipientName string  `json:"recipient_name"`
	Recipient     string  `json:"recipient"`
	Subject       string  `json:"subject"`
	EventIDs      []int64 `json:"event_ids,omitempty"`
}

// Logger interface for logging
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
