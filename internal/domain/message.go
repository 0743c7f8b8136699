package domain

import "time"

// NewMessage is the wire payload for a user-authored chat message.
// Clients render their own sends from this broadcast, not from local echo.
type NewMessage struct {
	Message   string    `json:"message"`
	UserID    UserID    `json:"userId"`
	UserName  string    `json:"userName"`
	Timestamp time.Time `json:"timestamp"`
	MessageID string    `json:"messageId"`
}

// SystemNotice is a server-generated join/leave announcement.
type SystemNotice struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	System    bool      `json:"system"`
}
