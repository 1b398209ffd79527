package domain

import (
	"strings"
	"testing"

	"github.com/eskrenkovic/game-night/internal/modules/core"

	"github.com/stretchr/testify/require"
)

func Test_NormalizeText_Rejects_Whitespace_Only(t *testing.T) {
	// Act
	_, err := NormalizeText(" \t\n ")

	// Assert
	require.True(t, core.HasReason(err, core.KindValidation, "EmptyMessage"))
}

func Test_NormalizeText_Rejects_501_Characters(t *testing.T) {
	// Act
	_, err := NormalizeText(strings.Repeat("a", MaxMessageLength+1))

	// Assert
	require.True(t, core.HasReason(err, core.KindValidation, "MessageTooLong"))
}

func Test_NormalizeText_Accepts_500_Characters_After_Trim(t *testing.T) {
	// Act
	text, err := NormalizeText("  " + strings.Repeat("ä", MaxMessageLength) + "  ")

	// Assert
	require.NoError(t, err)
	require.Equal(t, MaxMessageLength, len([]rune(text)))
}

func Test_ClampLimit(t *testing.T) {
	require.Equal(t, DefaultLimit, ClampLimit(0))
	require.Equal(t, 10, ClampLimit(10))
	require.Equal(t, MaxLimit, ClampLimit(500))
}

func Test_Chronological_Reverses_Newest_First_Page(t *testing.T) {
	// Arrange
	page := []Message{{ID: 9}, {ID: 7}, {ID: 4}}

	// Act
	ordered := Chronological(page)

	// Assert
	require.Equal(t, []int64{4, 7, 9}, []int64{ordered[0].ID, ordered[1].ID, ordered[2].ID})
}
