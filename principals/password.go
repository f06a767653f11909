package principals

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrMalformedHash indicates a stored credential hash that bcrypt could not
// parse. This is corrupt data, not a wrong password, and callers must treat
// it differently from a mismatch.
var ErrMalformedHash = errors.New("malformed credential hash")

// Hasher wraps bcrypt with a configured cost factor. The zero value is not
// usable; construct with NewHasher.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher. Costs outside bcrypt's supported range fall
// back to bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash derives a salted one-way hash of the plaintext. The salt and cost
// factor are embedded in the returned string.
func (h *Hasher) Hash(plaintext string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt.GenerateFromPassword: %w", err)
	}
	return string(bytes), nil
}

// Verify compares a plaintext against a stored hash in constant time.
// A mismatch returns (false, nil); a hash bcrypt cannot parse returns
// (false, ErrMalformedHash).
func (h *Hasher) Verify(plaintext, credentialHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(credentialHash), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
}
