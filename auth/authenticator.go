// Package auth orchestrates registration, login and credential changes over
// the credential store, the password hasher and the session token codec.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jrsteele09/go-directory-auth/principals"
	"github.com/jrsteele09/go-directory-auth/token"
	"github.com/rs/zerolog"
)

// Authenticator is the only component allowed to make authentication
// decisions against the credential store. Resource handlers consume the
// identity the request gates attach to the context and never reach the
// store directly.
type Authenticator struct {
	repo   principals.Repo
	hasher *principals.Hasher
	codec  *token.Codec
	log    zerolog.Logger
}

// Option defines a function type to modify the Authenticator instance.
type Option func(*Authenticator)

// WithLogger sets the logger used for internal failure detail.
func WithLogger(log zerolog.Logger) Option {
	return func(a *Authenticator) {
		a.log = log
	}
}

// New initializes an Authenticator with required dependencies.
func New(repo principals.Repo, hasher *principals.Hasher, codec *token.Codec, options ...Option) (*Authenticator, error) {
	if repo == nil {
		return nil, errors.New("[auth.New] principal repo is required")
	}
	if hasher == nil {
		return nil, errors.New("[auth.New] password hasher is required")
	}
	if codec == nil {
		return nil, errors.New("[auth.New] token codec is required")
	}

	authenticator := &Authenticator{
		repo:   repo,
		hasher: hasher,
		codec:  codec,
		log:    zerolog.Nop(),
	}
	for _, opt := range options {
		opt(authenticator)
	}
	return authenticator, nil
}

// Register creates a new active principal. The role may be empty, in which
// case the least-privileged role is assigned; unknown role strings are
// rejected. The returned principal never carries the credential hash.
func (a *Authenticator) Register(ctx context.Context, loginKey, plaintext, role string) (*principals.Principal, error) {
	loginKey = normalizeLoginKey(loginKey)

	parsedRole, err := principals.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRole, err)
	}

	credentialHash, err := a.hasher.Hash(plaintext)
	if err != nil {
		return nil, fmt.Errorf("[Register] hashing credential: %w", err)
	}

	principal := &principals.Principal{
		LoginKey:       loginKey,
		CredentialHash: credentialHash,
		Role:           parsedRole,
		Active:         true,
	}
	if err := a.repo.Insert(ctx, principal); err != nil {
		if errors.Is(err, principals.ErrDuplicateLoginKey) {
			return nil, ErrDuplicatePrincipal
		}
		a.log.Error().Err(err).Str("login_key", loginKey).Msg("register: store insert failed")
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	public := principal.Public()
	return &public, nil
}

// Login verifies a credential and issues a session token. Checks run in a
// fixed order - existence, suspension, credential - so a suspended account
// never learns whether the password was right.
func (a *Authenticator) Login(ctx context.Context, loginKey, plaintext string) (string, error) {
	principal, err := a.repo.GetByLoginKey(ctx, normalizeLoginKey(loginKey))
	if err != nil {
		if errors.Is(err, principals.ErrNotFound) {
			return "", ErrPrincipalNotFound
		}
		a.log.Error().Err(err).Msg("login: store lookup failed")
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if !principal.Active {
		return "", ErrPrincipalSuspended
	}

	ok, err := a.hasher.Verify(plaintext, principal.CredentialHash)
	if err != nil {
		a.log.Error().Err(err).Str("principal_id", principal.ID).Msg("login: stored hash unreadable")
		return "", fmt.Errorf("[Login] verifying credential: %w", err)
	}
	if !ok {
		return "", ErrInvalidCredential
	}

	sessionToken, err := a.codec.Issue(principal.ID, principal.Role)
	if err != nil {
		return "", fmt.Errorf("[Login] issuing token: %w", err)
	}
	return sessionToken, nil
}

// ChangePassword re-hashes the credential after verifying the old one. All
// other principal fields are left untouched.
func (a *Authenticator) ChangePassword(ctx context.Context, principalID, oldPlaintext, newPlaintext string) (*principals.Principal, error) {
	principal, err := a.repo.GetByID(ctx, principalID)
	if err != nil {
		if errors.Is(err, principals.ErrNotFound) {
			return nil, ErrPrincipalNotFound
		}
		a.log.Error().Err(err).Msg("change password: store lookup failed")
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	ok, err := a.hasher.Verify(oldPlaintext, principal.CredentialHash)
	if err != nil {
		a.log.Error().Err(err).Str("principal_id", principalID).Msg("change password: stored hash unreadable")
		return nil, fmt.Errorf("[ChangePassword] verifying credential: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredential
	}

	principal.CredentialHash, err = a.hasher.Hash(newPlaintext)
	if err != nil {
		return nil, fmt.Errorf("[ChangePassword] hashing credential: %w", err)
	}
	if err := a.repo.Update(ctx, principal); err != nil {
		a.log.Error().Err(err).Str("principal_id", principalID).Msg("change password: store update failed")
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	public := principal.Public()
	return &public, nil
}

// SetActive toggles the soft-delete flag. Outstanding tokens issued before a
// suspension stay valid until they expire; sessions are stateless and never
// revoked server-side.
func (a *Authenticator) SetActive(ctx context.Context, principalID string, active bool) (*principals.Principal, error) {
	principal, err := a.repo.SetActive(ctx, principalID, active)
	if err != nil {
		if errors.Is(err, principals.ErrNotFound) {
			return nil, ErrPrincipalNotFound
		}
		a.log.Error().Err(err).Str("principal_id", principalID).Msg("set active: store update failed")
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	public := principal.Public()
	return &public, nil
}

// ListPrincipals returns stored principals with credential hashes stripped.
func (a *Authenticator) ListPrincipals(ctx context.Context, offset, limit int) ([]*principals.Principal, error) {
	list, err := a.repo.List(ctx, offset, limit)
	if err != nil {
		a.log.Error().Err(err).Msg("list principals: store query failed")
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	for i := range list {
		public := list[i].Public()
		list[i] = &public
	}
	return list, nil
}

// VerifyToken exposes stateless token verification to the request gates.
func (a *Authenticator) VerifyToken(raw string) (*token.Claims, error) {
	return a.codec.Verify(raw)
}

func normalizeLoginKey(loginKey string) string {
	return strings.ToLower(strings.TrimSpace(loginKey))
}
