package token_test

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-directory-auth/principals"
	"github.com/jrsteele09/go-directory-auth/token"
	"github.com/stretchr/testify/require"
)

const (
	testSecret      = "test-signing-secret-1234"
	testPrincipalID = "principal-1"
)

var testWindow = time.Hour

// newTestCodec returns a codec whose clock is controlled by the returned
// setter.
func newTestCodec(t *testing.T, start time.Time) (*token.Codec, func(time.Time)) {
	t.Helper()

	now := start
	codec, err := token.NewCodec([]byte(testSecret), testWindow,
		token.WithNowTime(func() time.Time { return now }))
	require.NoError(t, err)
	return codec, func(tm time.Time) { now = tm }
}

func TestIssueAndVerify(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	codec, _ := newTestCodec(t, t0)

	raw, err := codec.Issue(testPrincipalID, principals.RoleOwner)
	require.NoError(t, err)

	claims, err := codec.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, testPrincipalID, claims.Subject)
	require.Equal(t, principals.RoleOwner, claims.Role)
	require.Equal(t, t0.Add(testWindow), claims.ExpiresAt.Time)
}

func TestVerifyWindowBoundaries(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	codec, setNow := newTestCodec(t, t0)

	raw, err := codec.Issue(testPrincipalID, principals.RoleAdmin)
	require.NoError(t, err)

	// Valid for any check time in [t0, t0+W)
	for _, at := range []time.Time{t0, t0.Add(time.Minute), t0.Add(testWindow - time.Second)} {
		setNow(at)
		_, err := codec.Verify(raw)
		require.NoError(t, err, "expected token valid at %s", at)
	}

	// Fails for any check time >= t0+W
	for _, at := range []time.Time{t0.Add(testWindow), t0.Add(2 * testWindow)} {
		setNow(at)
		_, err := codec.Verify(raw)
		require.ErrorIs(t, err, token.ErrExpired, "expected token expired at %s", at)
	}
}

func TestVerifyMissingToken(t *testing.T) {
	codec, _ := newTestCodec(t, time.Now())

	_, err := codec.Verify("")
	require.ErrorIs(t, err, token.ErrMissing)
}

func TestVerifyMalformedToken(t *testing.T) {
	codec, _ := newTestCodec(t, time.Now())

	_, err := codec.Verify("not-a-jwt")
	require.ErrorIs(t, err, token.ErrMalformed)
}

func TestVerifyTamperedSignature(t *testing.T) {
	codec, _ := newTestCodec(t, time.Now())

	raw, err := codec.Issue(testPrincipalID, principals.RoleDeveloper)
	require.NoError(t, err)

	// Flip the first character of the signature segment; the leading bits
	// of a base64 segment are always significant
	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)
	sig := flipChar(parts[2][0]) + parts[2][1:]

	tampered := parts[0] + "." + parts[1] + "." + sig
	_, err = codec.Verify(tampered)
	require.ErrorIs(t, err, token.ErrBadSignature)
}

func TestVerifyForgedClaims(t *testing.T) {
	codec, _ := newTestCodec(t, time.Now())

	raw, err := codec.Issue(testPrincipalID, principals.RoleDeveloper)
	require.NoError(t, err)

	// Re-encode the payload with an escalated role but keep the original
	// signature
	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var claims map[string]any
	require.NoError(t, json.Unmarshal(payload, &claims))
	claims["role"] = "admin"
	forgedPayload, err := json.Marshal(claims)
	require.NoError(t, err)

	forged := parts[0] + "." + base64.RawURLEncoding.EncodeToString(forgedPayload) + "." + parts[2]
	_, err = codec.Verify(forged)
	require.ErrorIs(t, err, token.ErrBadSignature)
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	codec, _ := newTestCodec(t, time.Now())

	// A token signed with the right secret but a different HMAC variant
	// must not verify - the algorithm is pinned, never read from the token
	claims := jwtlib.MapClaims{
		"sub":  testPrincipalID,
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	other, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS384, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = codec.Verify(other)
	require.ErrorIs(t, err, token.ErrBadSignature)
}

func TestVerifyRejectsUnknownRoleClaim(t *testing.T) {
	codec, _ := newTestCodec(t, time.Now())

	claims := jwtlib.MapClaims{
		"sub":  testPrincipalID,
		"role": "superuser",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = codec.Verify(raw)
	require.ErrorIs(t, err, token.ErrMalformed)
}

func TestNewCodecValidation(t *testing.T) {
	_, err := token.NewCodec(nil, time.Hour)
	require.Error(t, err)

	_, err = token.NewCodec([]byte("secret"), 0)
	require.Error(t, err)
}

func flipChar(c byte) string {
	if c == 'A' {
		return "B"
	}
	return "A"
}
