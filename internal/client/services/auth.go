// Package services contains application services for the ehbmatch client.
// This file defines the authentication service: login, registration, logout,
// profile lookup and push-token sync.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/ehbmatch/internal/client/client"
	"github.com/dmitrijs2005/ehbmatch/internal/client/models"
	"github.com/dmitrijs2005/ehbmatch/internal/client/tokens"
	"github.com/dmitrijs2005/ehbmatch/internal/logging"
)

// Sessions is the token lifecycle as seen by the auth service.
type Sessions interface {
	Begin(ctx context.Context, t *models.TokenResponse) error
	Logout(ctx context.Context) error
	State(ctx context.Context) tokens.State
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login / Register: obtain a token pair and store it as the session.
//   - Logout: replace the session with the logged-out marker and forget
//     cached responses.
//   - Info: the profile of the logged-in user.
//   - SyncPushToken: best effort; failures are logged, never returned.
//   - State: the current token state, without side effects.
type AuthService interface {
	Login(ctx context.Context, email string, password []byte) error
	Register(ctx context.Context, email string, password []byte, firstName, lastName string) error
	Logout(ctx context.Context) error
	Info(ctx context.Context) (*models.UserInfo, error)
	SyncPushToken(ctx context.Context, token string)
	State(ctx context.Context) tokens.State
}

type authService struct {
	client   client.Client
	sessions Sessions
	logger   logging.Logger
}

func NewAuthService(c client.Client, sessions Sessions, logger logging.Logger) AuthService {
	return &authService{client: c, sessions: sessions, logger: logger.With("component", "auth")}
}

func (a *authService) Login(ctx context.Context, email string, password []byte) error {
	resp, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return a.begin(ctx, resp)
}

func (a *authService) Register(ctx context.Context, email string, password []byte, firstName, lastName string) error {
	resp, err := a.client.Register(ctx, models.RegisterRequest{
		Email:     email,
		Password:  string(password),
		FirstName: firstName,
		LastName:  lastName,
	})
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return a.begin(ctx, resp)
}

func (a *authService) begin(ctx context.Context, resp *models.TokenResponse) error {
	a.client.ClearCache()
	if err := a.sessions.Begin(ctx, resp); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	a.logger.Info(ctx, "session started")
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.client.ClearCache()
	if err := a.sessions.Logout(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	a.logger.Info(ctx, "logged out")
	return nil
}

func (a *authService) Info(ctx context.Context) (*models.UserInfo, error) {
	info, err := a.client.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("user info: %w", err)
	}
	return info, nil
}

func (a *authService) SyncPushToken(ctx context.Context, token string) {
	info, err := a.client.Info(ctx)
	if err != nil {
		a.logger.Warn(ctx, "push sync: user lookup failed", "error", err)
		return
	}
	if err := a.client.RegisterPushToken(ctx, models.PushRegistration{ID: info.ID, Token: token}); err != nil {
		a.logger.Warn(ctx, "push sync failed", "error", err)
		return
	}
	a.logger.Debug(ctx, "push token synced", "user_id", info.ID)
}

func (a *authService) State(ctx context.Context) tokens.State {
	return a.sessions.State(ctx)
}
