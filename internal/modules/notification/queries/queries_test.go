package queries

import (
	"testing"

	"github.com/eskrenkovic/game-night/internal/modules/core"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_GetNotificationsQuery_Validate_Rejects_Negative_Take(t *testing.T) {
	// Arrange
	query := GetNotificationsQuery{UserID: uuid.New(), Take: -1}

	// Act
	err := query.Validate()

	// Assert
	require.True(t, core.HasReason(err, core.KindValidation, "InvalidNumber"))
}

func Test_GetUnreadCountQuery_Validate_Rejects_Missing_User(t *testing.T) {
	// Arrange
	query := GetUnreadCountQuery{}

	// Act
	err := query.Validate()

	// Assert
	require.Error(t, err)
}
