package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UserSession is a login session issued by the identity service. This
// service only reads it to resolve the caller.
type UserSession struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
}

func (s UserSession) Validate(now time.Time) error {
	if s.UserID == uuid.Nil {
		return fmt.Errorf("invalid UserID - '%s'", s.UserID)
	}

	if !now.Before(s.ExpiresAt) {
		return fmt.Errorf("session expired at %s", s.ExpiresAt.Format(time.RFC3339))
	}

	return nil
}
