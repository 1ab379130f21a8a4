package model

// DefaultNotificationEmail is used whenever the settings file is missing
// or unreadable.
const DefaultNotificationEmail = "security@example.com"

// Settings holds the mutable application settings. They live in a small
// JSON file beside the database, not in the relational store.
type Settings struct {
	NotificationEmail string `json:"notification_email"`
}

// DefaultSettings returns the hardcoded fallback settings
func DefaultSettings() *Settings {
	return &Settings{
		NotificationEmail: DefaultNotificationEmail,
	}
}
