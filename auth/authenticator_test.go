package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/go-directory-auth/auth"
	"github.com/jrsteele09/go-directory-auth/principals"
	"github.com/jrsteele09/go-directory-auth/principals/repofake"
	"github.com/jrsteele09/go-directory-auth/token"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "test-signing-secret-1234"
	testLoginKey = "a@x.com"
	testPassword = "secret123"
)

// testFixture holds all authenticator dependencies
type testFixture struct {
	repo    principals.Repo
	codec   *token.Codec
	service *auth.Authenticator
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	repo := repofake.NewFakePrincipalRepo()
	codec, err := token.NewCodec([]byte(testSecret), time.Hour)
	require.NoError(t, err)

	service, err := auth.New(repo, principals.NewHasher(4), codec)
	require.NoError(t, err)

	return &testFixture{repo: repo, codec: codec, service: service}
}

func (f *testFixture) register(t *testing.T, loginKey, password, role string) *principals.Principal {
	t.Helper()
	principal, err := f.service.Register(context.Background(), loginKey, password, role)
	require.NoError(t, err)
	return principal
}

func TestRegister(t *testing.T) {
	f := setupTestFixture(t)

	principal := f.register(t, testLoginKey, testPassword, "owner")
	require.NotEmpty(t, principal.ID)
	require.Equal(t, testLoginKey, principal.LoginKey)
	require.Equal(t, principals.RoleOwner, principal.Role)
	require.True(t, principal.Active)
	require.Empty(t, principal.CredentialHash, "registration must never return the hash")
}

func TestRegisterDefaultsToLeastPrivilegedRole(t *testing.T) {
	f := setupTestFixture(t)

	principal := f.register(t, testLoginKey, testPassword, "")
	require.Equal(t, principals.RoleDeveloper, principal.Role)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.Register(context.Background(), testLoginKey, testPassword, "superuser")
	require.ErrorIs(t, err, auth.ErrInvalidRole)
}

func TestRegisterRejectsDuplicateLoginKey(t *testing.T) {
	f := setupTestFixture(t)
	f.register(t, testLoginKey, testPassword, "owner")

	_, err := f.service.Register(context.Background(), testLoginKey, "otherpassword1", "owner")
	require.ErrorIs(t, err, auth.ErrDuplicatePrincipal)

	// Differently-cased key is the same key
	_, err = f.service.Register(context.Background(), "A@X.COM", "otherpassword1", "owner")
	require.ErrorIs(t, err, auth.ErrDuplicatePrincipal)

	list, err := f.service.ListPrincipals(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestLogin(t *testing.T) {
	f := setupTestFixture(t)
	registered := f.register(t, testLoginKey, testPassword, "owner")

	sessionToken, err := f.service.Login(context.Background(), testLoginKey, testPassword)
	require.NoError(t, err)

	claims, err := f.codec.Verify(sessionToken)
	require.NoError(t, err)
	require.Equal(t, registered.ID, claims.Subject)
	require.Equal(t, principals.RoleOwner, claims.Role)
}

func TestLoginIsCaseInsensitiveOnLoginKey(t *testing.T) {
	f := setupTestFixture(t)
	f.register(t, testLoginKey, testPassword, "owner")

	_, err := f.service.Login(context.Background(), "A@X.Com", testPassword)
	require.NoError(t, err)
}

func TestLoginUnknownPrincipal(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.Login(context.Background(), "nobody@x.com", testPassword)
	require.ErrorIs(t, err, auth.ErrPrincipalNotFound)
}

func TestLoginWrongPassword(t *testing.T) {
	f := setupTestFixture(t)
	f.register(t, testLoginKey, testPassword, "owner")

	_, err := f.service.Login(context.Background(), testLoginKey, "wrong-password")
	require.ErrorIs(t, err, auth.ErrInvalidCredential)
}

func TestSuspensionBlocksLogin(t *testing.T) {
	f := setupTestFixture(t)
	registered := f.register(t, testLoginKey, testPassword, "owner")

	_, err := f.service.SetActive(context.Background(), registered.ID, false)
	require.NoError(t, err)

	// Correct password - still suspended
	_, err = f.service.Login(context.Background(), testLoginKey, testPassword)
	require.ErrorIs(t, err, auth.ErrPrincipalSuspended)

	// Suspension is reported before the credential is checked, so a wrong
	// password yields the same answer
	_, err = f.service.Login(context.Background(), testLoginKey, "wrong-password")
	require.ErrorIs(t, err, auth.ErrPrincipalSuspended)
}

func TestSuspensionDoesNotRevokeOutstandingTokens(t *testing.T) {
	f := setupTestFixture(t)
	registered := f.register(t, testLoginKey, testPassword, "owner")

	sessionToken, err := f.service.Login(context.Background(), testLoginKey, testPassword)
	require.NoError(t, err)

	_, err = f.service.SetActive(context.Background(), registered.ID, false)
	require.NoError(t, err)

	// Known tradeoff: sessions are stateless, the token stays valid until
	// natural expiry
	claims, err := f.service.VerifyToken(sessionToken)
	require.NoError(t, err)
	require.Equal(t, registered.ID, claims.Subject)
}

func TestRestoreAfterSuspension(t *testing.T) {
	f := setupTestFixture(t)
	registered := f.register(t, testLoginKey, testPassword, "owner")

	_, err := f.service.SetActive(context.Background(), registered.ID, false)
	require.NoError(t, err)
	restored, err := f.service.SetActive(context.Background(), registered.ID, true)
	require.NoError(t, err)
	require.True(t, restored.Active)

	_, err = f.service.Login(context.Background(), testLoginKey, testPassword)
	require.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	f := setupTestFixture(t)
	registered := f.register(t, testLoginKey, testPassword, "owner")

	updated, err := f.service.ChangePassword(context.Background(), registered.ID, testPassword, "newsecret456")
	require.NoError(t, err)
	require.Equal(t, registered.LoginKey, updated.LoginKey)
	require.Equal(t, registered.Role, updated.Role)

	// Old credential no longer works, new one does
	_, err = f.service.Login(context.Background(), testLoginKey, testPassword)
	require.ErrorIs(t, err, auth.ErrInvalidCredential)
	_, err = f.service.Login(context.Background(), testLoginKey, "newsecret456")
	require.NoError(t, err)
}

func TestChangePasswordWrongOldCredential(t *testing.T) {
	f := setupTestFixture(t)
	registered := f.register(t, testLoginKey, testPassword, "owner")

	_, err := f.service.ChangePassword(context.Background(), registered.ID, "wrong-password", "newsecret456")
	require.ErrorIs(t, err, auth.ErrInvalidCredential)

	// Credential unchanged after the failed attempt
	_, err = f.service.Login(context.Background(), testLoginKey, testPassword)
	require.NoError(t, err)
}

func TestChangePasswordUnknownPrincipal(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.ChangePassword(context.Background(), "missing-id", testPassword, "newsecret456")
	require.ErrorIs(t, err, auth.ErrPrincipalNotFound)
}

func TestListPrincipalsStripsCredentialHashes(t *testing.T) {
	f := setupTestFixture(t)
	f.register(t, testLoginKey, testPassword, "owner")
	f.register(t, "b@x.com", testPassword, "admin")

	list, err := f.service.ListPrincipals(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, p := range list {
		require.Empty(t, p.CredentialHash)
	}
}
