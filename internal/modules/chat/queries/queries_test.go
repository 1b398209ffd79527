package queries

import (
	"testing"

	"github.com/eskrenkovic/game-night/internal/modules/core"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_GetMessagesQuery_Validate_Rejects_Negative_Limit(t *testing.T) {
	// Arrange
	query := GetMessagesQuery{SessionID: uuid.New(), UserID: uuid.New(), Limit: -1}

	// Act
	err := query.Validate()

	// Assert
	require.True(t, core.HasReason(err, core.KindValidation, "InvalidNumber"))
}

func Test_GetMessagesQuery_Validate_Rejects_Non_Positive_Cursor(t *testing.T) {
	// Arrange
	before := int64(0)
	query := GetMessagesQuery{SessionID: uuid.New(), UserID: uuid.New(), BeforeMessageID: &before}

	// Act
	err := query.Validate()

	// Assert
	commandErr, ok := core.AsCommandError(err)
	require.True(t, ok)
	require.Contains(t, commandErr.Errors, "beforeMessageId")
}

func Test_AuthorizeSubscriptionQuery_Validate_Rejects_Missing_User(t *testing.T) {
	// Arrange
	query := AuthorizeSubscriptionQuery{SessionID: uuid.New()}

	// Act
	err := query.Validate()

	// Assert
	require.Error(t, err)
}
