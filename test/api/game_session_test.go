package main

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/eskrenkovic/game-night/internal/modules/core"
	commands "github.com/eskrenkovic/game-night/internal/modules/game-session/commands"
	domain "github.com/eskrenkovic/game-night/internal/modules/game-session/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func createSession(t *testing.T, owner testUser) domain.SessionDetail {
	session, err := sendRequest[commands.CreateSessionCommand, domain.SessionDetail](
		fixture.client,
		owner,
		http.MethodPost,
		"/sessions",
		commands.CreateSessionCommand{Title: fmt.Sprintf("game night %s", uuid.NewString()[:8])},
		expectStatus(t, http.StatusCreated),
	)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, session.ID)

	return session
}

func invite(t *testing.T, owner testUser, sessionID uuid.UUID, invitee testUser) {
	_, err := sendRequest[commands.InviteCommand, domain.Participant](
		fixture.client,
		owner,
		http.MethodPost,
		fmt.Sprintf("/sessions/%s/invite", sessionID),
		commands.InviteCommand{UserID: invitee.ID},
		expectStatus(t, http.StatusOK),
	)
	require.NoError(t, err)
}

func accept(t *testing.T, invitee testUser, sessionID uuid.UUID) {
	accept := true

	_, err := sendRequest[commands.RespondInvitationCommand, domain.Participant](
		fixture.client,
		invitee,
		http.MethodPost,
		fmt.Sprintf("/sessions/%s/respond", sessionID),
		commands.RespondInvitationCommand{Accept: &accept},
		expectStatus(t, http.StatusOK),
	)
	require.NoError(t, err)
}

func participants(t *testing.T, as testUser, sessionID uuid.UUID) []domain.ParticipantView {
	response, err := sendRequest[any, []domain.ParticipantView](
		fixture.client,
		as,
		http.MethodGet,
		fmt.Sprintf("/sessions/%s/participants", sessionID),
		nil,
		expectStatus(t, http.StatusOK),
	)
	require.NoError(t, err)

	return response
}

func Test_CreateSession_Makes_Owner_The_Only_Confirmed_Host(t *testing.T) {
	// Arrange
	owner := login(t)

	// Act
	session := createSession(t, owner)

	// Assert
	require.Equal(t, owner.ID, session.OwnerID)
	require.Equal(t, domain.RoleHost, session.MyRole)
	require.Equal(t, 1, session.ConfirmedCount)

	list := participants(t, owner, session.ID)
	require.Len(t, list, 1)
	require.Equal(t, owner.ID, list[0].UserID)
	require.Equal(t, domain.RoleHost, list[0].Role)
	require.Equal(t, domain.StatusConfirmed, list[0].Status)
}

func Test_CreateSession_Returns_400_When_Title_Blank(t *testing.T) {
	// Arrange
	owner := login(t)

	// Act
	problem, err := sendRequest[commands.CreateSessionCommand, core.Problem](
		fixture.client,
		owner,
		http.MethodPost,
		"/sessions",
		commands.CreateSessionCommand{Title: "   "},
		expectStatus(t, http.StatusBadRequest),
	)

	// Assert
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, problem.Status)
	require.Contains(t, problem.Errors["title"], "TitleRequired")
}

func Test_Sessions_Returns_401_Without_Session_Cookie(t *testing.T) {
	// Act
	_, err := sendRequest[any, core.Problem](
		fixture.client,
		testUser{},
		http.MethodGet,
		"/sessions",
		nil,
		expectStatus(t, http.StatusUnauthorized),
	)

	// Assert
	require.NoError(t, err)
}

func Test_GetOwnedSessions_Returns_Sessions_Owned_By_User(t *testing.T) {
	// Arrange
	owner := login(t)

	count := 3
	for i := 0; i < count; i++ {
		createSession(t, owner)
	}

	// Act
	response, err := sendRequest[any, []domain.Session](
		fixture.client,
		owner,
		http.MethodGet,
		"/sessions",
		nil,
		expectStatus(t, http.StatusOK),
	)

	// Assert
	require.NoError(t, err)
	require.Len(t, response, count)
}

func Test_Invite_Then_Accept_Lists_Invitee_As_Confirmed_Player(t *testing.T) {
	// Arrange
	owner := login(t)
	invitee := login(t)
	session := createSession(t, owner)

	// Act
	invite(t, owner, session.ID, invitee)
	invited, err := sendRequest[any, []domain.Session](
		fixture.client,
		invitee,
		http.MethodGet,
		"/sessions/invited",
		nil,
		expectStatus(t, http.StatusOK),
	)
	require.NoError(t, err)
	require.Len(t, invited, 1)
	require.Equal(t, session.ID, invited[0].ID)

	accept(t, invitee, session.ID)

	// Assert
	list := participants(t, owner, session.ID)
	require.Len(t, list, 2)

	var found bool
	for _, p := range list {
		if p.UserID != invitee.ID {
			continue
		}

		found = true
		require.Equal(t, domain.RolePlayer, p.Role)
		require.Equal(t, domain.StatusConfirmed, p.Status)
		require.Equal(t, invitee.Username, p.UserName)
	}
	require.True(t, found)
}

func Test_Invite_Returns_409_When_User_Already_Participant(t *testing.T) {
	// Arrange
	owner := login(t)
	invitee := login(t)
	session := createSession(t, owner)
	invite(t, owner, session.ID, invitee)

	// Act
	problem, err := sendRequest[commands.InviteCommand, core.Problem](
		fixture.client,
		owner,
		http.MethodPost,
		fmt.Sprintf("/sessions/%s/invite", session.ID),
		commands.InviteCommand{UserID: invitee.ID},
		expectStatus(t, http.StatusConflict),
	)

	// Assert
	require.NoError(t, err)
	require.Equal(t, "ParticipantAlreadyExists", problem.Detail)
}

func Test_Invite_Returns_404_For_Non_Owner(t *testing.T) {
	// Arrange
	owner := login(t)
	stranger := login(t)
	session := createSession(t, owner)

	// Act
	_, err := sendRequest[commands.InviteCommand, core.Problem](
		fixture.client,
		stranger,
		http.MethodPost,
		fmt.Sprintf("/sessions/%s/invite", session.ID),
		commands.InviteCommand{UserID: stranger.ID},
		expectStatus(t, http.StatusNotFound),
	)

	// Assert
	require.NoError(t, err)
}

func Test_RemoveParticipant_Rejects_Removing_Host(t *testing.T) {
	// Arrange
	owner := login(t)
	session := createSession(t, owner)

	// Act
	problem, err := sendRequest[any, core.Problem](
		fixture.client,
		owner,
		http.MethodDelete,
		fmt.Sprintf("/sessions/%s/participants/%s", session.ID, owner.ID),
		nil,
		expectStatus(t, http.StatusBadRequest),
	)

	// Assert
	require.NoError(t, err)
	require.Contains(t, problem.Errors["userId"], "CannotRemoveHost")
	require.Len(t, participants(t, owner, session.ID), 1)
}

func Test_DeleteSession_Hides_Session_From_Participants(t *testing.T) {
	// Arrange
	owner := login(t)
	invitee := login(t)
	session := createSession(t, owner)
	invite(t, owner, session.ID, invitee)
	accept(t, invitee, session.ID)

	// Act
	_, err := sendRequest[any, any](
		fixture.client,
		owner,
		http.MethodDelete,
		fmt.Sprintf("/sessions/%s", session.ID),
		nil,
		expectStatus(t, http.StatusNoContent),
	)
	require.NoError(t, err)

	// Assert
	_, err = sendRequest[any, core.Problem](
		fixture.client,
		invitee,
		http.MethodGet,
		fmt.Sprintf("/sessions/%s", session.ID),
		nil,
		expectStatus(t, http.StatusNotFound),
	)
	require.NoError(t, err)
}

func Test_Logout_Revokes_Session_Cookie(t *testing.T) {
	// Arrange
	user := login(t)

	// Act
	_, err := sendRequest[any, any](
		fixture.client,
		user,
		http.MethodPost,
		"/auth/logout",
		nil,
		expectStatus(t, http.StatusNoContent),
	)
	require.NoError(t, err)

	// Assert
	_, err = sendRequest[any, core.Problem](
		fixture.client,
		user,
		http.MethodGet,
		"/sessions",
		nil,
		expectStatus(t, http.StatusUnauthorized),
	)
	require.NoError(t, err)
}
