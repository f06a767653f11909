package auth

import "errors"

var (
	ErrDuplicatePrincipal = errors.New("login key already registered")
	ErrInvalidRole        = errors.New("invalid role")
	ErrPrincipalNotFound  = errors.New("principal not found")
	ErrPrincipalSuspended = errors.New("principal suspended")
	ErrInvalidCredential  = errors.New("invalid credentials")
	ErrStoreUnavailable   = errors.New("credential store unavailable")
)
