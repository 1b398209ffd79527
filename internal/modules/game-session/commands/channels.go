package commands

import "github.com/google/uuid"

// SessionChannels drops realtime subscribers who lost access to a
// session.
type SessionChannels interface {
	DisconnectSession(sessionID uuid.UUID)
	DisconnectSessionUser(sessionID uuid.UUID, userID uuid.UUID)
}
