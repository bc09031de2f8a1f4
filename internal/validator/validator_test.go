package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateString(t *testing.T) {
	require.NoError(t, ValidateString("abc", 1, 5))
	require.Error(t, ValidateString("", 1, 5))
	require.Error(t, ValidateString("abcdef", 1, 5))
	require.NoError(t, ValidateString(strings.Repeat("a", MaxMessageLength), 1, MaxMessageLength))
}

func TestValidateStringCountsRunes(t *testing.T) {
	// Multibyte text gets the same character budget single-byte text does.
	require.NoError(t, ValidateString(strings.Repeat("ă", MaxCommentLength), 1, MaxCommentLength))
	require.Error(t, ValidateString(strings.Repeat("ă", MaxCommentLength+1), 1, MaxCommentLength))
}

func TestValidateUsername(t *testing.T) {
	require.NoError(t, ValidateUsername("alice"))
	require.Error(t, ValidateUsername("ab"))
	require.Error(t, ValidateUsername(strings.Repeat("a", 31)))
}

func TestValidatePassword(t *testing.T) {
	require.NoError(t, ValidatePassword("secret123"))
	require.Error(t, ValidatePassword("short"))
}
