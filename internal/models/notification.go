package models

import "time"

// Severity of a user-facing notification
type Severity string

// Notification severities
const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a fire-and-forget message for the user
type Notification struct {
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotification stamps a notification with the current time
func NewNotification(severity Severity, message string) Notification {
	return Notification{
		Message:   message,
		Severity:  severity,
		CreatedAt: time.Now(),
	}
}
