package principals_test

import (
	"testing"

	"github.com/jrsteele09/go-directory-auth/principals"
	"github.com/stretchr/testify/require"
)

func TestHashRoundTrip(t *testing.T) {
	hasher := principals.NewHasher(4) // MinCost keeps the test fast

	hash, err := hasher.Hash("secret123")
	require.NoError(t, err)
	require.NotEqual(t, "secret123", hash)

	ok, err := hasher.Verify("secret123", hash)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyMismatchIsNotAnError(t *testing.T) {
	hasher := principals.NewHasher(4)

	hash, err := hasher.Hash("secret123")
	require.NoError(t, err)

	ok, err := hasher.Verify("wrong-password", hash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyMalformedHash(t *testing.T) {
	hasher := principals.NewHasher(4)

	ok, err := hasher.Verify("secret123", "not-a-bcrypt-hash")
	require.False(t, ok)
	require.ErrorIs(t, err, principals.ErrMalformedHash)
}

func TestHashesAreSalted(t *testing.T) {
	hasher := principals.NewHasher(4)

	first, err := hasher.Hash("secret123")
	require.NoError(t, err)
	second, err := hasher.Hash("secret123")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}

func TestOutOfRangeCostFallsBack(t *testing.T) {
	hasher := principals.NewHasher(99)

	hash, err := hasher.Hash("secret123")
	require.NoError(t, err)

	ok, err := hasher.Verify("secret123", hash)
	require.NoError(t, err)
	require.True(t, ok)
}
