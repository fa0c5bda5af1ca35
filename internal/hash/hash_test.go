package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	h, err := HashPassword("password")
	require.NoError(t, err)
	require.NotEqual(t, "password", h)

	require.True(t, CheckPassword(h, "password"))
	require.False(t, CheckPassword(h, "wrong"))
}
