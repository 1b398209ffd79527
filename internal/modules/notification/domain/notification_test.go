package domain

import (
	"strings"
	"testing"

	"github.com/eskrenkovic/game-night/internal/modules/core"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_CreateInput_Validate_Rejects_Empty_Title(t *testing.T) {
	// Arrange
	in := CreateInput{UserID: uuid.New(), Type: TypeWelcome, Title: "  "}

	// Act
	err := in.Validate()

	// Assert
	require.True(t, core.HasReason(err, core.KindValidation, "TitleRequired"))
}

func Test_CreateInput_Validate_Rejects_Missing_User(t *testing.T) {
	// Arrange
	in := CreateInput{Type: TypeWelcome, Title: "hi"}

	// Act
	err := in.Validate()

	// Assert
	commandErr, ok := core.AsCommandError(err)
	require.True(t, ok)
	require.Contains(t, commandErr.Errors, "userId")
}

func Test_CreateInput_Validate_Rejects_Unknown_Type(t *testing.T) {
	// Arrange
	in := CreateInput{UserID: uuid.New(), Type: Type("Bogus"), Title: "hi"}

	// Act
	err := in.Validate()

	// Assert
	require.True(t, core.IsKind(err, core.KindValidation))
}

func Test_CounterInput_Validate_Requires_Key(t *testing.T) {
	// Arrange
	in := CounterInput{UserID: uuid.New(), Type: TypeChatNewMessage, Title: "New messages"}

	// Act
	err := in.Validate()

	// Assert
	require.True(t, core.HasReason(err, core.KindValidation, "KeyRequired"))
}

func Test_ClampTake(t *testing.T) {
	require.Equal(t, DefaultTake, ClampTake(0))
	require.Equal(t, DefaultTake, ClampTake(-5))
	require.Equal(t, 42, ClampTake(42))
	require.Equal(t, MaxTake, ClampTake(1000))
}

func Test_ChatKey_Is_Prefixed_Session_Id(t *testing.T) {
	id := uuid.New()
	require.Equal(t, "chat:"+id.String(), ChatKey(id))
}

func Test_Preview_Truncates_Long_Text(t *testing.T) {
	require.Equal(t, "hello", Preview("  hello ", 10))
	require.Equal(t, strings.Repeat("a", 10)+"…", Preview(strings.Repeat("a", 50), 10))
}
