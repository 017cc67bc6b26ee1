// Package auth manages the console session: logging in through the facade
// and installing the access token on the transport client.
package auth

import (
	"context"

	"go.uber.org/zap"

	"rada-console/internal/logging"
	"rada-console/pkg/models"
)

// Authenticator performs a login round-trip.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*models.LoginResponse, error)
}

// TokenHolder stores the bearer token attached to outgoing requests.
type TokenHolder interface {
	SetToken(token string)
	Token() string
}

// Status is the connection state shown to the operator.
type Status string

const (
	StatusConnected    Status = "Connected"
	StatusOffline      Status = "Offline"
	StatusNotConnected Status = "Not connected"
)

// Session owns the token lifecycle.
type Session struct {
	auth   Authenticator
	holder TokenHolder
	logger *zap.Logger
}

func NewSession(auth Authenticator, holder TokenHolder, logger *zap.Logger) *Session {
	return &Session{
		auth:   auth,
		holder: holder,
		logger: logging.OrNop(logger),
	}
}

// Login authenticates, installs the returned access token (or clears the
// slot when none came back) and returns the raw payload.
func (s *Session) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	resp, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	s.SetToken(resp.AccessToken)
	return resp, nil
}

// Connect logs in and reports the outcome as a Status. A failed login leaves
// the console usable without a token.
func (s *Session) Connect(ctx context.Context, username, password string) Status {
	if _, err := s.Login(ctx, username, password); err != nil {
		s.logger.Warn("login failed, continuing offline",
			zap.String("username", username),
			zap.Error(err))
		return StatusOffline
	}
	s.logger.Info("login successful", zap.String("username", username))
	return StatusConnected
}

// SetToken installs token, or removes the Authorization header when token
// is empty.
func (s *Session) SetToken(token string) {
	s.holder.SetToken(token)
}

// Restore installs a token persisted by an earlier login.
func (s *Session) Restore(token string) Status {
	s.SetToken(token)
	if token == "" {
		return StatusNotConnected
	}
	return StatusConnected
}

// Clear drops the installed token.
func (s *Session) Clear() {
	s.SetToken("")
}

// Token returns the installed token, or "".
func (s *Session) Token() string {
	return s.holder.Token()
}
