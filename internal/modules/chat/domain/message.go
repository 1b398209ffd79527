package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/eskrenkovic/game-night/internal/modules/core"

	"github.com/google/uuid"
)

const (
	MaxMessageLength = 500

	DefaultLimit = 50
	MaxLimit     = 200
)

const EventMessagePosted = "chat.message"

type Message struct {
	ID        int64     `db:"id" json:"id"`
	SessionID uuid.UUID `db:"session_id" json:"sessionId"`
	UserID    uuid.UUID `db:"user_id" json:"userId"`
	UserName  string    `db:"user_name" json:"userName"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NormalizeText trims the message and enforces 1 to 500 characters.
func NormalizeText(text string) (string, error) {
	text = strings.TrimSpace(text)

	if text == "" {
		return "", core.Validation("text", "EmptyMessage")
	}

	if utf8.RuneCountInString(text) > MaxMessageLength {
		return "", core.Validation("text", "MessageTooLong")
	}

	return text, nil
}

func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Chronological reverses a newest-first page in place.
func Chronological(messages []Message) []Message {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages
}
