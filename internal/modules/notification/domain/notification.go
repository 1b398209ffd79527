package domain

import (
	"strings"
	"time"

	"github.com/eskrenkovic/game-night/internal/modules/core"

	"github.com/google/uuid"
)

type Type string

const (
	TypeWelcome               Type = "Welcome"
	TypeSessionInviteReceived Type = "SessionInviteReceived"
	TypeVotingDeadlineSoon    Type = "VotingDeadlineSoon"
	TypeVotingClosed          Type = "VotingClosed"
	TypeSessionCancelled      Type = "SessionCancelled"
	TypeSessionDetailsUpdated Type = "SessionDetailsUpdated"
	TypeChatNewMessage        Type = "ChatNewMessage"
)

func (t Type) Valid() bool {
	switch t {
	case TypeWelcome,
		TypeSessionInviteReceived,
		TypeVotingDeadlineSoon,
		TypeVotingClosed,
		TypeSessionCancelled,
		TypeSessionDetailsUpdated,
		TypeChatNewMessage:
		return true
	default:
		return false
	}
}

const (
	DefaultTake = 20
	MaxTake     = 100
)

// ClampTake applies the default page size and caps it.
func ClampTake(take int) int {
	if take <= 0 {
		return DefaultTake
	}
	if take > MaxTake {
		return MaxTake
	}
	return take
}

type Notification struct {
	ID        int64      `db:"id" json:"id"`
	UserID    uuid.UUID  `db:"user_id" json:"userId"`
	Type      Type       `db:"type" json:"type"`
	SessionID *uuid.UUID `db:"session_id" json:"sessionId,omitempty"`
	Title     string     `db:"title" json:"title"`
	Message   string     `db:"message" json:"message"`
	URL       *string    `db:"url" json:"url,omitempty"`
	Key       *string    `db:"dedup_key" json:"key,omitempty"`
	Count     int        `db:"count" json:"count"`
	IsRead    bool       `db:"is_read" json:"isRead"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
	ReadAt    *time.Time `db:"read_at" json:"readAt,omitempty"`
}

// ChatKey is the de-duplication key of a session's chat counter.
func ChatKey(sessionID uuid.UUID) string {
	return "chat:" + sessionID.String()
}

type CreateInput struct {
	UserID    uuid.UUID
	Type      Type
	Title     string
	Message   string
	URL       *string
	SessionID *uuid.UUID
	Key       *string
}

func (in CreateInput) Validate() error {
	var errs core.FieldErrors

	if in.UserID == uuid.Nil {
		errs.Add("userId", "InvalidUser")
	}

	if strings.TrimSpace(in.Title) == "" {
		errs.Add("title", "TitleRequired")
	}

	if !in.Type.Valid() {
		errs.Add("type", "InvalidType")
	}

	return errs.Err()
}

// CounterInput describes an aggregated notification. Repeated events
// with the same key update one row instead of adding new ones.
type CounterInput struct {
	UserID    uuid.UUID
	Type      Type
	SessionID *uuid.UUID
	Key       string
	Title     string
	Message   string
	URL       *string
}

func (in CounterInput) Validate() error {
	var errs core.FieldErrors

	if in.UserID == uuid.Nil {
		errs.Add("userId", "InvalidUser")
	}

	if strings.TrimSpace(in.Key) == "" {
		errs.Add("key", "KeyRequired")
	}

	if strings.TrimSpace(in.Title) == "" {
		errs.Add("title", "TitleRequired")
	}

	if !in.Type.Valid() {
		errs.Add("type", "InvalidType")
	}

	return errs.Err()
}

// Preview shortens a chat message for the notification body.
func Preview(text string, max int) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= max {
		return string(runes)
	}
	return string(runes[:max]) + "…"
}
