package domain

import (
	"testing"

	"github.com/eskrenkovic/game-night/internal/modules/core"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_NewHost_Is_Confirmed_Host(t *testing.T) {
	// Act
	host := NewHost(uuid.New(), uuid.New(), now)

	// Assert
	require.Equal(t, RoleHost, host.Role)
	require.Equal(t, StatusConfirmed, host.Status)
}

func Test_Participant_Respond_Accept_Confirms_Invitee(t *testing.T) {
	// Arrange
	p := NewInvitee(uuid.New(), uuid.New(), now)

	// Act
	err := p.Respond(true, now)

	// Assert
	require.NoError(t, err)
	require.Equal(t, StatusConfirmed, p.Status)
	require.Equal(t, RolePlayer, p.Role)
}

func Test_Participant_Respond_Decline_Declines_Invitee(t *testing.T) {
	// Arrange
	p := NewInvitee(uuid.New(), uuid.New(), now)

	// Act
	err := p.Respond(false, now)

	// Assert
	require.NoError(t, err)
	require.Equal(t, StatusDeclined, p.Status)
}

func Test_Participant_Respond_Rejects_Repeat_Response(t *testing.T) {
	for _, status := range []ParticipantStatus{StatusConfirmed, StatusDeclined} {
		t.Run(string(status), func(t *testing.T) {
			// Arrange
			p := NewInvitee(uuid.New(), uuid.New(), now)
			p.Status = status

			// Act
			err := p.Respond(true, now)

			// Assert
			require.True(t, core.HasReason(err, core.KindConflict, "InvalidState"))
			require.Equal(t, status, p.Status)
		})
	}
}

func Test_Membership_CanCollaborate(t *testing.T) {
	ownerID, userID := uuid.New(), uuid.New()
	session := Session{ID: uuid.New(), OwnerID: ownerID}

	invited := NewInvitee(session.ID, userID, now)
	confirmed := invited
	confirmed.Status = StatusConfirmed
	declined := invited
	declined.Status = StatusDeclined

	require.True(t, Membership{Session: session}.CanCollaborate(ownerID))
	require.False(t, Membership{Session: session}.CanCollaborate(userID))
	require.False(t, Membership{Session: session, Participant: &invited}.CanCollaborate(userID))
	require.False(t, Membership{Session: session, Participant: &declined}.CanCollaborate(userID))
	require.True(t, Membership{Session: session, Participant: &confirmed}.CanCollaborate(userID))
}
