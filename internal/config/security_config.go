package config

import (
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	signingSecretVar = "JWT_SECRET"
	tokenWindowVar   = "TOKEN_WINDOW"
	bcryptCostVar    = "BCRYPT_COST"
)

type SecurityConfig interface {
	GetSigningSecret() string
	GetTokenWindow() time.Duration
	GetBcryptCost() int
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetSigningSecret returns the HMAC secret for session tokens. There is no
// default: an empty value must abort startup, never fall back to a known
// secret.
func (Security) GetSigningSecret() string {
	return GetEnv(signingSecretVar, "")
}

// GetTokenWindow returns how long an issued session token stays valid.
func (Security) GetTokenWindow() time.Duration {
	window, err := time.ParseDuration(GetEnv(tokenWindowVar, "1h"))
	if err != nil || window <= 0 {
		return time.Hour
	}
	return window
}

// GetBcryptCost returns the hashing cost factor. Out-of-range values are
// handled by the hasher itself.
func (Security) GetBcryptCost() int {
	cost, err := strconv.Atoi(GetEnv(bcryptCostVar, ""))
	if err != nil {
		return bcrypt.DefaultCost
	}
	return cost
}
