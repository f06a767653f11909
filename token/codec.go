// Package token issues and verifies the signed session tokens that stand in
// for server-side sessions. A token is authoritative for the whole of its
// validity window; nothing here consults the credential store.
package token

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-directory-auth/principals"
)

// Verification failures. All of them collapse to an unauthorized response at
// the HTTP boundary but stay distinguishable for logging.
var (
	ErrMissing       = errors.New("missing token")
	ErrMalformed     = errors.New("malformed token")
	ErrExpired       = errors.New("token expired")
	ErrBadSignature  = errors.New("token signature invalid")
	ErrUnexpectedAlg = errors.New("token signed with unexpected algorithm")
	ErrInvalid       = errors.New("invalid token")
)

// signingMethod is pinned. The alg header inside an incoming token is never
// trusted to select the verification algorithm.
var signingMethod = jwtlib.SigningMethodHS256

// Claims is the payload bound into every session token.
type Claims struct {
	Role principals.RoleType `json:"role"`
	jwtlib.RegisteredClaims
}

// Codec signs and verifies session tokens with a single process-wide secret.
// Rotating the secret invalidates all outstanding tokens.
type Codec struct {
	secret  []byte
	window  time.Duration
	nowTime func() time.Time
}

// CodecOption modifies a Codec during construction.
type CodecOption func(*Codec)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowTime = nowFunc
	}
}

// NewCodec creates a Codec. The secret is required; the validity window must
// be positive.
func NewCodec(secret []byte, window time.Duration, options ...CodecOption) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("[NewCodec] signing secret is required")
	}
	if window <= 0 {
		return nil, errors.New("[NewCodec] token validity window must be positive")
	}

	codec := &Codec{
		secret:  secret,
		window:  window,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(codec)
	}
	return codec, nil
}

// Issue produces a signed token binding the principal's identity and role
// for one validity window from now.
func (c *Codec) Issue(principalID string, role principals.RoleType) (string, error) {
	now := c.nowTime()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   principalID,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(c.window)),
			ID:        uuid.New().String(),
		},
	}

	signed, err := jwtlib.NewWithClaims(signingMethod, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of a raw token and returns the
// embedded claims. Signature integrity is checked before expiry, so a
// tampered-but-expired token reports tampering.
func (c *Codec) Verify(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrMissing
	}

	claims := &Claims{}
	_, err := jwtlib.ParseWithClaims(raw, claims, c.keyFunc,
		jwtlib.WithValidMethods([]string{signingMethod.Alg()}),
		jwtlib.WithTimeFunc(c.nowTime),
	)
	if err != nil {
		return nil, translateParseError(err)
	}

	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, ErrMalformed
	}
	return claims, nil
}

func (c *Codec) keyFunc(t *jwtlib.Token) (interface{}, error) {
	if t.Method.Alg() != signingMethod.Alg() {
		return nil, ErrUnexpectedAlg
	}
	return c.secret, nil
}

func translateParseError(err error) error {
	switch {
	case errors.Is(err, ErrUnexpectedAlg):
		return ErrUnexpectedAlg
	case errors.Is(err, jwtlib.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwtlib.ErrTokenSignatureInvalid):
		return ErrBadSignature
	case errors.Is(err, jwtlib.ErrTokenMalformed):
		return ErrMalformed
	}
	return fmt.Errorf("%w: %v", ErrInvalid, err)
}
