package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jrsteele09/go-directory-auth/auth"
)

const minPasswordLength = 8

type registerRequest struct {
	LoginKey string `json:"login_key"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type loginRequest struct {
	LoginKey string `json:"login_key"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// RegisterHandler creates a new principal. 201 on success, 400 on duplicate
// login key, unknown role or malformed body.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.LoginKey == "" || len(req.Password) < minPasswordLength {
			writeError(w, http.StatusBadRequest, "login_key and a password of at least 8 characters are required")
			return
		}

		principal, err := s.auth.Register(r.Context(), req.LoginKey, req.Password, req.Role)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrDuplicatePrincipal), errors.Is(err, auth.ErrInvalidRole):
				writeError(w, http.StatusBadRequest, err.Error())
			default:
				s.serverError(w, r, err)
			}
			return
		}

		s.metrics.ObserveRegistration()
		writeJSON(w, http.StatusCreated, principal)
	}
}

// LoginHandler verifies credentials and returns a session token. Unknown
// login key and wrong password merge into one generic 401 so the endpoint
// cannot be used to enumerate accounts; the distinct kinds are logged.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !decodeBody(w, r, &req) {
			return
		}

		sessionToken, err := s.auth.Login(r.Context(), req.LoginKey, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrPrincipalNotFound), errors.Is(err, auth.ErrInvalidCredential):
				s.metrics.ObserveLogin("denied")
				s.log.Info().Err(err).Msg("login denied")
				writeError(w, http.StatusUnauthorized, "invalid credentials")
			case errors.Is(err, auth.ErrPrincipalSuspended):
				s.metrics.ObserveLogin("suspended")
				writeError(w, http.StatusForbidden, "account suspended")
			default:
				s.metrics.ObserveLogin("error")
				s.serverError(w, r, err)
			}
			return
		}

		s.metrics.ObserveLogin("success")
		writeJSON(w, http.StatusOK, map[string]string{"token": sessionToken})
	}
}

// LogoutHandler always succeeds. Sessions are stateless - the client
// discards its token and nothing is revoked server-side.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"msg": "logged out"})
	}
}

// ChangePasswordHandler re-hashes the caller's credential. Runs behind
// RequireAuth; the principal comes from the attached identity, never from
// the request body.
func (s *Server) ChangePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "authorization denied")
			return
		}

		var req changePasswordRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if len(req.NewPassword) < minPasswordLength {
			writeError(w, http.StatusBadRequest, "new password must be at least 8 characters")
			return
		}

		principal, err := s.auth.ChangePassword(r.Context(), identity.PrincipalID, req.OldPassword, req.NewPassword)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrInvalidCredential):
				writeError(w, http.StatusUnauthorized, "invalid old password")
			case errors.Is(err, auth.ErrPrincipalNotFound):
				writeError(w, http.StatusNotFound, "principal not found")
			default:
				s.serverError(w, r, err)
			}
			return
		}

		writeJSON(w, http.StatusOK, principal)
	}
}

// MeHandler echoes the identity claims attached by the authentication gate.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "authorization denied")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"principal_id": identity.PrincipalID,
			"role":         string(identity.Role),
		})
	}
}

// ListPrincipalsHandler returns all principals without credential hashes.
func (s *Server) ListPrincipalsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.auth.ListPrincipals(r.Context(), 0, 0)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// SuspendPrincipalHandler soft-deletes a principal. Outstanding tokens stay
// valid until natural expiry.
func (s *Server) SuspendPrincipalHandler() http.HandlerFunc {
	return s.setPrincipalActiveHandler(false)
}

// RestorePrincipalHandler re-activates a soft-deleted principal.
func (s *Server) RestorePrincipalHandler() http.HandlerFunc {
	return s.setPrincipalActiveHandler(true)
}

func (s *Server) setPrincipalActiveHandler(active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := s.auth.SetActive(r.Context(), r.PathValue("id"), active)
		if err != nil {
			if errors.Is(err, auth.ErrPrincipalNotFound) {
				writeError(w, http.StatusNotFound, "principal not found")
				return
			}
			s.serverError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, principal)
	}
}

// HealthzHandler reports liveness.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// serverError hides internal detail from the client and keeps it in the log.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	writeError(w, http.StatusInternalServerError, "server error")
}
