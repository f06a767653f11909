package repofake_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-directory-auth/principals"
	"github.com/jrsteele09/go-directory-auth/principals/repofake"
	"github.com/stretchr/testify/require"
)

func TestInsertEnforcesLoginKeyUniqueness(t *testing.T) {
	repo := repofake.NewFakePrincipalRepo()
	ctx := context.Background()

	first := &principals.Principal{LoginKey: "a@x.com", CredentialHash: "h1", Role: principals.RoleOwner, Active: true}
	require.NoError(t, repo.Insert(ctx, first))
	require.NotEmpty(t, first.ID)

	// Differently-cased key collides with the same record
	second := &principals.Principal{LoginKey: "A@X.com", CredentialHash: "h2", Role: principals.RoleOwner, Active: true}
	require.ErrorIs(t, repo.Insert(ctx, second), principals.ErrDuplicateLoginKey)

	list, err := repo.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, first.ID, list[0].ID)
}

func TestGetByLoginKeyIsCaseInsensitive(t *testing.T) {
	repo := repofake.NewFakePrincipalRepo()
	ctx := context.Background()

	p := &principals.Principal{LoginKey: "a@x.com", CredentialHash: "h", Role: principals.RoleAdmin, Active: true}
	require.NoError(t, repo.Insert(ctx, p))

	found, err := repo.GetByLoginKey(ctx, "A@X.COM")
	require.NoError(t, err)
	require.Equal(t, p.ID, found.ID)
}

func TestSetActiveTogglesSoftDelete(t *testing.T) {
	repo := repofake.NewFakePrincipalRepo()
	ctx := context.Background()

	p := &principals.Principal{LoginKey: "a@x.com", CredentialHash: "h", Role: principals.RoleAdmin, Active: true}
	require.NoError(t, repo.Insert(ctx, p))

	suspended, err := repo.SetActive(ctx, p.ID, false)
	require.NoError(t, err)
	require.False(t, suspended.Active)

	// Record is still present, just inactive
	found, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.False(t, found.Active)

	_, err = repo.SetActive(ctx, "missing-id", false)
	require.ErrorIs(t, err, principals.ErrNotFound)
}

func TestUpdateUnknownPrincipal(t *testing.T) {
	repo := repofake.NewFakePrincipalRepo()

	err := repo.Update(context.Background(), &principals.Principal{ID: "missing", LoginKey: "a@x.com"})
	require.ErrorIs(t, err, principals.ErrNotFound)
}
