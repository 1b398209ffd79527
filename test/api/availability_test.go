package main

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/eskrenkovic/game-night/internal/modules/core"
	commands "github.com/eskrenkovic/game-night/internal/modules/game-session/commands"
	domain "github.com/eskrenkovic/game-night/internal/modules/game-session/domain"

	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openWindow(t *testing.T, owner testUser, sessionID uuid.UUID) {
	_, err := sendRequest[commands.SetAvailabilityWindowCommand, domain.Session](
		fixture.client,
		owner,
		http.MethodPost,
		fmt.Sprintf("/sessions/%s/availability/window", sessionID),
		commands.SetAvailabilityWindowCommand{
			From:     day(1),
			To:       day(3),
			Deadline: time.Now().UTC().Add(time.Hour),
		},
		expectStatus(t, http.StatusOK),
	)
	require.NoError(t, err)
}

func submitAvailability(t *testing.T, as testUser, sessionID uuid.UUID, dates ...time.Time) domain.MyAvailability {
	response, err := sendRequest[commands.SubmitAvailabilityCommand, domain.MyAvailability](
		fixture.client,
		as,
		http.MethodPut,
		fmt.Sprintf("/sessions/%s/availability", sessionID),
		commands.SubmitAvailabilityCommand{Dates: dates},
		expectStatus(t, http.StatusOK),
	)
	require.NoError(t, err)

	return response
}

func Test_SubmitAvailability_Replaces_Previous_Submission(t *testing.T) {
	// Arrange
	owner := login(t)
	session := createSession(t, owner)
	openWindow(t, owner, session.ID)

	submitAvailability(t, owner, session.ID, day(1), day(2))

	// Act
	submitAvailability(t, owner, session.ID, day(3))

	// Assert
	mine, err := sendRequest[any, domain.MyAvailability](
		fixture.client,
		owner,
		http.MethodGet,
		fmt.Sprintf("/sessions/%s/availability/me", session.ID),
		nil,
		expectStatus(t, http.StatusOK),
	)
	require.NoError(t, err)
	require.Len(t, mine.Dates, 1)
	require.True(t, day(3).Equal(mine.Dates[0]))
}

func Test_AvailabilitySummary_Counts_Distinct_Users_Per_Day(t *testing.T) {
	// Arrange
	owner := login(t)
	player := login(t)
	session := createSession(t, owner)
	invite(t, owner, session.ID, player)
	accept(t, player, session.ID)
	openWindow(t, owner, session.ID)

	submitAvailability(t, owner, session.ID, day(1), day(2))
	submitAvailability(t, player, session.ID, day(2), day(2))

	// Act
	summary, err := sendRequest[any, domain.AvailabilitySummary](
		fixture.client,
		player,
		http.MethodGet,
		fmt.Sprintf("/sessions/%s/availability/summary", session.ID),
		nil,
		expectStatus(t, http.StatusOK),
	)

	// Assert
	require.NoError(t, err)
	require.Len(t, summary.Days, 3)

	counts := make(map[string]int)
	for _, d := range summary.Days {
		counts[d.Date.Format(time.DateOnly)] = d.Count
	}

	require.Equal(t, 1, counts[day(1).Format(time.DateOnly)])
	require.Equal(t, 2, counts[day(2).Format(time.DateOnly)])
	require.Equal(t, 0, counts[day(3).Format(time.DateOnly)])
}

func Test_SubmitAvailability_Returns_400_When_Date_Outside_Window(t *testing.T) {
	// Arrange
	owner := login(t)
	session := createSession(t, owner)
	openWindow(t, owner, session.ID)

	// Act
	problem, err := sendRequest[commands.SubmitAvailabilityCommand, core.Problem](
		fixture.client,
		owner,
		http.MethodPut,
		fmt.Sprintf("/sessions/%s/availability", session.ID),
		commands.SubmitAvailabilityCommand{Dates: []time.Time{day(10)}},
		expectStatus(t, http.StatusBadRequest),
	)

	// Assert
	require.NoError(t, err)
	require.Contains(t, problem.Errors["dates"], "DateOutsideWindow")
}

func Test_SubmitAvailability_Returns_403_For_Pending_Invitee(t *testing.T) {
	// Arrange
	owner := login(t)
	invitee := login(t)
	session := createSession(t, owner)
	invite(t, owner, session.ID, invitee)
	openWindow(t, owner, session.ID)

	// Act
	problem, err := sendRequest[commands.SubmitAvailabilityCommand, core.Problem](
		fixture.client,
		invitee,
		http.MethodPut,
		fmt.Sprintf("/sessions/%s/availability", session.ID),
		commands.SubmitAvailabilityCommand{Dates: []time.Time{day(1)}},
		expectStatus(t, http.StatusForbidden),
	)

	// Assert
	require.NoError(t, err)
	require.Equal(t, "InvalidParticipant", problem.Detail)
}

func Test_SetFinalDate_Returns_409_While_Availability_Open(t *testing.T) {
	// Arrange
	owner := login(t)
	session := createSession(t, owner)
	openWindow(t, owner, session.ID)

	// Act
	problem, err := sendRequest[commands.SetFinalDateCommand, core.Problem](
		fixture.client,
		owner,
		http.MethodPost,
		fmt.Sprintf("/sessions/%s/final-date", session.ID),
		commands.SetFinalDateCommand{FinalDate: day(2).Add(18 * time.Hour)},
		expectStatus(t, http.StatusConflict),
	)

	// Assert
	require.NoError(t, err)
	require.Equal(t, "AvailabilityStillOpen", problem.Detail)
}

func Test_SetFinalDate_Sets_Date_When_No_Window(t *testing.T) {
	// Arrange
	owner := login(t)
	session := createSession(t, owner)
	finalDate := day(2).Add(18 * time.Hour)

	// Act
	response, err := sendRequest[commands.SetFinalDateCommand, domain.Session](
		fixture.client,
		owner,
		http.MethodPost,
		fmt.Sprintf("/sessions/%s/final-date", session.ID),
		commands.SetFinalDateCommand{FinalDate: finalDate},
		expectStatus(t, http.StatusOK),
	)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, response.FinalDate)
	require.True(t, finalDate.Equal(*response.FinalDate))
}

func Test_SetWindow_Prunes_Availability_Outside_Narrowed_Window(t *testing.T) {
	// Arrange
	owner := login(t)
	player := login(t)
	session := createSession(t, owner)
	invite(t, owner, session.ID, player)
	accept(t, player, session.ID)
	openWindow(t, owner, session.ID)

	submitAvailability(t, owner, session.ID, day(1), day(2), day(3))
	submitAvailability(t, player, session.ID, day(1))

	// Act
	_, err := sendRequest[commands.SetAvailabilityWindowCommand, domain.Session](
		fixture.client,
		owner,
		http.MethodPost,
		fmt.Sprintf("/sessions/%s/availability/window", session.ID),
		commands.SetAvailabilityWindowCommand{
			From:     day(2),
			To:       day(3),
			Deadline: time.Now().UTC().Add(time.Hour),
		},
		expectStatus(t, http.StatusOK),
	)
	require.NoError(t, err)

	// Assert
	mine, err := sendRequest[any, domain.MyAvailability](
		fixture.client,
		owner,
		http.MethodGet,
		fmt.Sprintf("/sessions/%s/availability/me", session.ID),
		nil,
		expectStatus(t, http.StatusOK),
	)
	require.NoError(t, err)
	require.Len(t, mine.Dates, 2)
	require.True(t, day(2).Equal(mine.Dates[0]))
	require.True(t, day(3).Equal(mine.Dates[1]))

	theirs, err := sendRequest[any, domain.MyAvailability](
		fixture.client,
		player,
		http.MethodGet,
		fmt.Sprintf("/sessions/%s/availability/me", session.ID),
		nil,
		expectStatus(t, http.StatusOK),
	)
	require.NoError(t, err)
	require.Empty(t, theirs.Dates)

	stored, err := tql.QueryFirst[int](
		context.Background(),
		fixture.db,
		`SELECT count(*) FROM session_availability WHERE session_id = $1;`,
		session.ID,
	)
	require.NoError(t, err)
	require.Equal(t, 2, stored)
}

func Test_SetWindow_Returns_400_When_Window_Too_Long(t *testing.T) {
	// Arrange
	owner := login(t)
	session := createSession(t, owner)

	// Act
	problem, err := sendRequest[commands.SetAvailabilityWindowCommand, core.Problem](
		fixture.client,
		owner,
		http.MethodPost,
		fmt.Sprintf("/sessions/%s/availability/window", session.ID),
		commands.SetAvailabilityWindowCommand{
			From:     time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC),
			To:       time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC),
			Deadline: time.Now().UTC().Add(time.Hour),
		},
		expectStatus(t, http.StatusBadRequest),
	)

	// Assert
	require.NoError(t, err)
	require.Contains(t, problem.Errors["availabilityTo"], "WindowTooLong")
}
