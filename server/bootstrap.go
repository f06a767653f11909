package server

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/jrsteele09/go-directory-auth/auth"
	"github.com/jrsteele09/go-directory-auth/internal/config"
	"github.com/jrsteele09/go-directory-auth/principals"
)

const (
	adminLoginKeyVar     = "ADMIN_LOGIN_KEY"
	defaultAdminLoginKey = "admin@localhost"

	generatedPasswordBytes = 18
)

// InitialiseSystem ensures an initial admin principal exists so a fresh
// deployment can be administered. On first creation the generated password
// is logged once and never displayed again.
func (s *Server) InitialiseSystem(ctx context.Context) error {
	loginKey := config.GetEnv(adminLoginKeyVar, defaultAdminLoginKey)

	password, err := generatePassword()
	if err != nil {
		return fmt.Errorf("generating admin password: %w", err)
	}

	_, err = s.auth.Register(ctx, loginKey, password, string(principals.RoleAdmin))
	if errors.Is(err, auth.ErrDuplicatePrincipal) {
		return nil // Admin already provisioned
	}
	if err != nil {
		return fmt.Errorf("bootstrapping admin principal: %w", err)
	}

	s.log.Info().Msg("bootstrap complete: initial admin created")
	s.log.Info().Msgf("   Login key: %s", loginKey)
	s.log.Info().Msgf("   Password:  %s", password)
	s.log.Info().Msg("   SAVE THIS PASSWORD - it will not be displayed again!")
	return nil
}

func generatePassword() (string, error) {
	bytes := make([]byte, generatedPasswordBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}
