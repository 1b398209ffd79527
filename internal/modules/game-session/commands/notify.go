package commands

import (
	"fmt"

	"github.com/eskrenkovic/game-night/internal/modules/game-session/domain"
	notificationdomain "github.com/eskrenkovic/game-night/internal/modules/notification/domain"

	"github.com/google/uuid"
)

func sessionURL(sessionID uuid.UUID) *string {
	url := fmt.Sprintf("/sessions/%s", sessionID)
	return &url
}

func inviteNotification(session domain.Session, inviteeID uuid.UUID) notificationdomain.CreateInput {
	sessionID := session.ID
	return notificationdomain.CreateInput{
		UserID:    inviteeID,
		Type:      notificationdomain.TypeSessionInviteReceived,
		Title:     "New invitation",
		Message:   fmt.Sprintf("You have been invited to %q.", session.Title),
		URL:       sessionURL(session.ID),
		SessionID: &sessionID,
	}
}

func detailsUpdatedNotification(session domain.Session, message string) notificationdomain.CreateInput {
	sessionID := session.ID
	return notificationdomain.CreateInput{
		Type:      notificationdomain.TypeSessionDetailsUpdated,
		Title:     session.Title,
		Message:   message,
		URL:       sessionURL(session.ID),
		SessionID: &sessionID,
	}
}

// cancelledNotification carries no session reference since the session
// row is gone once the deletion commits.
func cancelledNotification(session domain.Session) notificationdomain.CreateInput {
	return notificationdomain.CreateInput{
		Type:    notificationdomain.TypeSessionCancelled,
		Title:   "Session cancelled",
		Message: fmt.Sprintf("%q has been cancelled by the host.", session.Title),
	}
}
