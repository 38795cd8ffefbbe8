package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordHashAndCompare(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", hash)

	require.True(t, CompareHashAndPassword(hash, "correct horse battery staple"))
	require.False(t, CompareHashAndPassword(hash, "Correct horse battery staple"))
}

func TestPasswordHashIsSalted(t *testing.T) {
	t.Parallel()

	a, err := HashPassword("samepassword")
	require.NoError(t, err)
	b, err := HashPassword("samepassword")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.True(t, CompareHashAndPassword(a, "samepassword"))
	require.True(t, CompareHashAndPassword(b, "samepassword"))
}

func TestCompareHashAndPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	require.False(t, CompareHashAndPassword("not-a-bcrypt-hash", "whatever"))
}
