package queries

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_Queries_Validate_Reject_Missing_Identifiers(t *testing.T) {
	validators := map[string]interface{ Validate() error }{
		"owned":       GetOwnedSessionsQuery{},
		"invited":     GetInvitedSessionsQuery{},
		"session":     GetSessionQuery{UserID: uuid.New()},
		"participant": GetParticipantsQuery{SessionID: uuid.New()},
		"mine":        GetMyAvailabilityQuery{UserID: uuid.New()},
		"summary":     GetAvailabilitySummaryQuery{SessionID: uuid.New()},
		"pool":        GetGamePoolQuery{RequesterID: uuid.New()},
	}

	for name, v := range validators {
		t.Run(name, func(t *testing.T) {
			require.Error(t, v.Validate())
		})
	}
}

func Test_GetSessionQuery_Validate_Accepts_Complete_Query(t *testing.T) {
	// Arrange
	query := GetSessionQuery{SessionID: uuid.New(), UserID: uuid.New()}

	// Act
	err := query.Validate()

	// Assert
	require.NoError(t, err)
}
