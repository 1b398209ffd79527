package domain

import (
	"time"

	"github.com/eskrenkovic/game-night/internal/modules/core"

	"github.com/google/uuid"
)

type Role string

const (
	RoleHost   Role = "host"
	RolePlayer Role = "player"
)

func (r Role) Valid() bool {
	return r == RoleHost || r == RolePlayer
}

type ParticipantStatus string

const (
	StatusInvited   ParticipantStatus = "invited"
	StatusConfirmed ParticipantStatus = "confirmed"
	StatusDeclined  ParticipantStatus = "declined"
)

func (s ParticipantStatus) Valid() bool {
	switch s {
	case StatusInvited, StatusConfirmed, StatusDeclined:
		return true
	default:
		return false
	}
}

func (s ParticipantStatus) Terminal() bool {
	return s == StatusConfirmed || s == StatusDeclined
}

type Participant struct {
	SessionID uuid.UUID         `db:"session_id" json:"sessionId"`
	UserID    uuid.UUID         `db:"user_id" json:"userId"`
	Role      Role              `db:"role" json:"role"`
	Status    ParticipantStatus `db:"status" json:"status"`
	CreatedAt time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time         `db:"updated_at" json:"updatedAt"`
}

// NewHost is the owner's row, written together with the session.
func NewHost(sessionID uuid.UUID, ownerID uuid.UUID, now time.Time) Participant {
	return Participant{
		SessionID: sessionID,
		UserID:    ownerID,
		Role:      RoleHost,
		Status:    StatusConfirmed,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

func NewInvitee(sessionID uuid.UUID, userID uuid.UUID, now time.Time) Participant {
	return Participant{
		SessionID: sessionID,
		UserID:    userID,
		Role:      RolePlayer,
		Status:    StatusInvited,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

// Respond moves an invited participant to Confirmed or Declined. Both
// targets are terminal.
func (p *Participant) Respond(accept bool, now time.Time) error {
	if p.Status != StatusInvited {
		return core.Conflict("InvalidState")
	}

	if accept {
		p.Status = StatusConfirmed
	} else {
		p.Status = StatusDeclined
	}
	p.UpdatedAt = now.UTC()

	return nil
}

func (p Participant) IsConfirmed() bool {
	return p.Status == StatusConfirmed
}

// ParticipantView is a participant row joined with the user's name.
type ParticipantView struct {
	UserID   uuid.UUID         `db:"user_id" json:"userId"`
	UserName string            `db:"user_name" json:"userName"`
	Role     Role              `db:"role" json:"role"`
	Status   ParticipantStatus `db:"status" json:"status"`
}

// Membership is the caller's relation to a session. Participant is nil
// when the caller has no row.
type Membership struct {
	Session     Session
	Participant *Participant
}

// CanCollaborate reports whether the caller may submit availability,
// vote and chat.
func (m Membership) CanCollaborate(userID uuid.UUID) bool {
	if m.Session.IsOwner(userID) {
		return true
	}
	return m.Participant != nil && m.Participant.IsConfirmed()
}
