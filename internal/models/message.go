// Package models defines the domain types for Skald.
package models

import "time"

// RawMessage is a message as returned by a chat source, before encoding.
// Only CreatedAt, the author name, and Content survive transcript encoding.
type RawMessage struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name,omitempty"`
	Content     string    `json:"content"`
}

// Author returns the display name, falling back to the opaque user ID.
func (m RawMessage) Author() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return m.UserID
}

// Message is one transcript entry. Time is a zero-padded 24-hour "HH:MM"
// string; Content may span multiple lines and contain Markdown.
type Message struct {
	Time    string `json:"time"`
	Author  string `json:"author"`
	Content string `json:"content"`
}

// Channel is one configured message stream, processed independently.
type Channel struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// TranscriptMeta is a lightweight representation returned by list operations.
type TranscriptMeta struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
