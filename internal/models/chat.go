package models

import (
	"fmt"
	"unicode/utf8"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

const (
	titleMaxRunes      = 30
	ImageRemovedNotice = "\n\n*[Image removed to save storage space]*"
	WelcomeMessageID   = "welcome"
)

type ChatMessage struct {
	ID        string `json:"id" validate:"required"`
	Role      Role   `json:"role" validate:"required"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
	IsTyping  bool   `json:"isTyping,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

func (m ChatMessage) Check() error {
	if m.Role != RoleUser && m.Role != RoleModel {
		return fmt.Errorf("message %s: unknown role %q", m.ID, m.Role)
	}
	return nil
}

func (m ChatMessage) HasImage() bool {
	return m.ImageURL != ""
}

type ChatSession struct {
	ID           string        `json:"id" validate:"required"`
	Title        string        `json:"title"`
	Messages     []ChatMessage `json:"messages"`
	LastModified int64         `json:"lastModified"`
}

// Clone returns a copy whose message slice can be mutated independently.
func (s ChatSession) Clone() ChatSession {
	msgs := make([]ChatMessage, len(s.Messages))
	copy(msgs, s.Messages)
	s.Messages = msgs
	return s
}

// DeriveTitle returns the title the session should carry. Only a session
// still holding the placeholder gets a new title, taken from the first
// user message.
func (s ChatSession) DeriveTitle(placeholder string) string {
	if s.Title != placeholder || len(s.Messages) < 2 {
		return s.Title
	}
	for _, m := range s.Messages {
		if m.Role != RoleUser {
			continue
		}
		return truncateTitle(m.Text)
	}
	return s.Title
}

// StripImages drops every image payload and marks the affected messages.
// Reports whether anything was removed.
func (s *ChatSession) StripImages() bool {
	stripped := false
	for i := range s.Messages {
		if !s.Messages[i].HasImage() {
			continue
		}
		s.Messages[i].Text += ImageRemovedNotice
		s.Messages[i].ImageURL = ""
		stripped = true
	}
	return stripped
}

func truncateTitle(text string) string {
	if utf8.RuneCountInString(text) <= titleMaxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:titleMaxRunes]) + "..."
}
