package entity

import "time"

// NotificationKind selects the styling of a notification.
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
	NotificationWarning NotificationKind = "warning"
	NotificationInfo    NotificationKind = "info"
)

// Notification is a user-visible message with a bounded lifetime.
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Duration  time.Duration    `json:"duration"`
	CreatedAt time.Time        `json:"createdAt"`
	TxHash    string           `json:"txHash,omitempty"`
}

// Preferences are the persisted UI scalars.
type Preferences struct {
	Theme        string `json:"theme"`
	Locale       string `json:"locale"`
	WasConnected bool   `json:"wasConnected"`
}
