package commands

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_PostMessageCommand_Validate_Leaves_Text_To_Handler(t *testing.T) {
	// Arrange
	command := PostMessageCommand{SessionID: uuid.New(), UserID: uuid.New(), Text: " "}

	// Act
	err := command.Validate()

	// Assert
	require.NoError(t, err)
}

func Test_PostMessageCommand_Validate_Rejects_Missing_Session(t *testing.T) {
	// Arrange
	command := PostMessageCommand{UserID: uuid.New(), Text: "hi"}

	// Act
	err := command.Validate()

	// Assert
	require.Error(t, err)
}

func Test_PostMessageCommand_Validate_Rejects_Missing_User(t *testing.T) {
	// Arrange
	command := PostMessageCommand{SessionID: uuid.New(), Text: "hi"}

	// Act
	err := command.Validate()

	// Assert
	require.Error(t, err)
}
