package commands

import (
	"strings"
	"testing"
	"time"

	"github.com/eskrenkovic/game-night/internal/modules/core"
	"github.com/eskrenkovic/game-night/internal/modules/game-session/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_CreateSessionCommand_Validate_Rejects_Missing_Owner(t *testing.T) {
	// Arrange
	command := CreateSessionCommand{Title: "Friday Game Night"}

	// Act
	err := command.Validate()

	// Assert
	require.Error(t, err)
}

func Test_CreateSessionCommand_Validate_Rejects_Long_Title(t *testing.T) {
	// Arrange
	command := CreateSessionCommand{OwnerID: uuid.New(), Title: strings.Repeat("x", domain.MaxTitleLength+1)}

	// Act
	err := command.Validate()

	// Assert
	require.True(t, core.HasReason(err, core.KindValidation, "TitleTooLong"))
}

func Test_InviteCommand_Validate_Rejects_Missing_Target(t *testing.T) {
	// Arrange
	command := InviteCommand{SessionID: uuid.New(), InviterID: uuid.New()}

	// Act
	err := command.Validate()

	// Assert
	commandErr, ok := core.AsCommandError(err)
	require.True(t, ok)
	require.Equal(t, []string{"UserRequired"}, commandErr.Errors["userId"])
}

func Test_RespondInvitationCommand_Validate_Requires_Answer(t *testing.T) {
	// Arrange
	command := RespondInvitationCommand{SessionID: uuid.New(), UserID: uuid.New()}

	// Act
	err := command.Validate()

	// Assert
	require.True(t, core.HasReason(err, core.KindValidation, "Required"))
}

func Test_SetAvailabilityWindowCommand_Validate_Reports_Every_Missing_Field(t *testing.T) {
	// Arrange
	command := SetAvailabilityWindowCommand{SessionID: uuid.New(), OrganizerID: uuid.New()}

	// Act
	err := command.Validate()

	// Assert
	commandErr, ok := core.AsCommandError(err)
	require.True(t, ok)
	require.Len(t, commandErr.Errors, 3)
	require.Contains(t, commandErr.Errors, "availabilityFrom")
	require.Contains(t, commandErr.Errors, "availabilityTo")
	require.Contains(t, commandErr.Errors, "availabilityDeadline")
}

func Test_SubmitAvailabilityCommand_Validate_Accepts_Empty_Dates(t *testing.T) {
	// Arrange
	command := SubmitAvailabilityCommand{SessionID: uuid.New(), UserID: uuid.New()}

	// Act
	err := command.Validate()

	// Assert
	require.NoError(t, err)
}

func Test_SubmitAvailabilityCommand_Validate_Rejects_Too_Many_Dates(t *testing.T) {
	// Arrange
	dates := make([]time.Time, domain.MaxSubmittedDates+1)
	for i := range dates {
		dates[i] = time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC)
	}
	command := SubmitAvailabilityCommand{SessionID: uuid.New(), UserID: uuid.New(), Dates: dates}

	// Act
	err := command.Validate()

	// Assert
	require.True(t, core.HasReason(err, core.KindValidation, "TooManyDates"))
}

func Test_ToggleVoteCommand_Validate_Rejects_Blank_Key(t *testing.T) {
	// Arrange
	command := ToggleVoteCommand{SessionID: uuid.New(), UserID: uuid.New(), GameKey: "  "}

	// Act
	err := command.Validate()

	// Assert
	require.True(t, core.HasReason(err, core.KindValidation, "GameKeyRequired"))
}

func Test_SetFinalDateCommand_Validate_Requires_Date(t *testing.T) {
	// Arrange
	command := SetFinalDateCommand{SessionID: uuid.New(), OrganizerID: uuid.New()}

	// Act
	err := command.Validate()

	// Assert
	require.True(t, core.HasReason(err, core.KindValidation, "Required"))
}

func Test_SetFinalGamesCommand_Validate_Accepts_Empty_List(t *testing.T) {
	// Arrange
	command := SetFinalGamesCommand{SessionID: uuid.New(), OrganizerID: uuid.New(), GameKeys: []string{}}

	// Act
	err := command.Validate()

	// Assert
	require.NoError(t, err)
}

func Test_SetFinalGamesCommand_Validate_Rejects_Blank_Key(t *testing.T) {
	// Arrange
	command := SetFinalGamesCommand{SessionID: uuid.New(), OrganizerID: uuid.New(), GameKeys: []string{"catan", ""}}

	// Act
	err := command.Validate()

	// Assert
	require.True(t, core.HasReason(err, core.KindValidation, "GameKeyRequired"))
}

func Test_DetailsUpdatedNotification_Links_Session(t *testing.T) {
	// Arrange
	session := domain.Session{ID: uuid.New(), OwnerID: uuid.New(), Title: "Friday", CreatedAt: time.Now()}

	// Act
	in := detailsUpdatedNotification(session, "changed")

	// Assert
	require.Equal(t, "/sessions/"+session.ID.String(), *in.URL)
	require.Equal(t, session.ID, *in.SessionID)
	require.Equal(t, "changed", in.Message)
}

func Test_CancelledNotification_Has_No_Session_Reference(t *testing.T) {
	// Act
	in := cancelledNotification(domain.Session{ID: uuid.New(), Title: "Friday"})

	// Assert
	require.Nil(t, in.SessionID)
	require.Contains(t, in.Message, "Friday")
}
