package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ehbmatch/internal/client/models"
	"github.com/dmitrijs2005/ehbmatch/internal/client/store"
	"github.com/dmitrijs2005/ehbmatch/internal/common"
	"github.com/dmitrijs2005/ehbmatch/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

// ErrNoExpiration is returned when neither the backend response nor the token
// itself says when a token expires.
var ErrNoExpiration = errors.New("token expiration unknown")

// SessionStore is the part of the credential store the manager needs.
type SessionStore interface {
	Get(ctx context.Context, key string, def models.Session) models.Session
	Set(ctx context.Context, key string, value models.Session) error
}

// Refresher exchanges a refresh token for a new access token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*models.RefreshResponse, error)
}

type Manager struct {
	store     SessionStore
	refresher Refresher
	logger    logging.Logger
	now       func() time.Time

	flight singleflight.Group
}

type Option func(*Manager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(st SessionStore, refresher Refresher, logger logging.Logger, opts ...Option) *Manager {
	m := &Manager{
		store:     st,
		refresher: refresher,
		logger:    logger.With("component", "tokens"),
		now:       time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Manager) load(ctx context.Context) models.Session {
	return m.store.Get(ctx, store.TokenKey, models.LoggedOut())
}

// State reports the state of the stored session without refreshing or
// resetting it.
func (m *Manager) State(ctx context.Context) State {
	return Evaluate(m.load(ctx), m.now())
}

// AccessToken returns a usable access token, refreshing it first if needed.
// It returns common.ErrLoggedOut when there is no session or the session has
// expired, and an error wrapping common.ErrRefreshFailed when the refresh
// call fails.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	s := m.load(ctx)
	switch Evaluate(s, m.now()) {
	case Valid:
		c, _ := s.Credentials()
		return c.AccessToken, nil
	case LoggedOut:
		return "", common.ErrLoggedOut
	case Expired:
		m.expire(ctx)
		return "", common.ErrLoggedOut
	}

	// Callers that overlap share one refresh. The refresh itself is not tied
	// to any single caller's context.
	detached := context.WithoutCancel(ctx)
	ch := m.flight.DoChan("refresh", func() (any, error) {
		return m.refresh(detached)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (m *Manager) refresh(ctx context.Context) (string, error) {
	// Re-read: a refresh that finished just before this flight started has
	// already stored a fresh token.
	s := m.load(ctx)
	c, _ := s.Credentials()

	switch Evaluate(s, m.now()) {
	case Valid:
		return c.AccessToken, nil
	case LoggedOut:
		return "", common.ErrLoggedOut
	case Expired:
		m.expire(ctx)
		return "", common.ErrLoggedOut
	}

	m.logger.Debug(ctx, "refreshing access token")

	resp, err := m.refresher.Refresh(ctx, c.RefreshToken)
	if err != nil {
		m.logger.Warn(ctx, "refresh failed", "error", err)
		return "", fmt.Errorf("%w: %w", common.ErrRefreshFailed, err)
	}

	exp, err := expiration(resp.AccessToken, resp.AccessTokenExpiresAt)
	if err != nil {
		m.logger.Warn(ctx, "refresh response unusable", "error", err)
		return "", fmt.Errorf("%w: %w", common.ErrRefreshFailed, err)
	}

	next := models.Active(c.WithAccess(resp.AccessToken, exp))
	if err := m.store.Set(ctx, store.TokenKey, next); err != nil {
		m.logger.Warn(ctx, "could not persist refreshed token", "error", err)
	}
	return resp.AccessToken, nil
}

func (m *Manager) expire(ctx context.Context) {
	m.logger.Info(ctx, "session expired, logging out")
	if err := m.store.Set(ctx, store.TokenKey, models.LoggedOut()); err != nil {
		m.logger.Warn(ctx, "could not reset expired session", "error", err)
	}
}

// Begin stores the token pair returned by login or registration.
func (m *Manager) Begin(ctx context.Context, t *models.TokenResponse) error {
	accessExp, err := expiration(t.AccessToken, t.AccessTokenExpiresAt)
	if err != nil {
		return fmt.Errorf("access token: %w", err)
	}
	refreshExp, err := expiration(t.RefreshToken, t.RefreshTokenExpiresAt)
	if err != nil {
		return fmt.Errorf("refresh token: %w", err)
	}

	return m.store.Set(ctx, store.TokenKey, models.Active(models.Credentials{
		AccessToken:            t.AccessToken,
		AccessTokenExpiration:  accessExp,
		RefreshToken:           t.RefreshToken,
		RefreshTokenExpiration: refreshExp,
	}))
}

// Logout replaces the stored session with the logged-out marker.
func (m *Manager) Logout(ctx context.Context) error {
	return m.store.Set(ctx, store.TokenKey, models.LoggedOut())
}

// expiration prefers the explicit timestamp and falls back to the exp claim
// of a JWT. The token signature is not checked: only the backend can do that.
func expiration(token string, explicit time.Time) (int64, error) {
	if !explicit.IsZero() {
		return explicit.Unix(), nil
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrNoExpiration, err)
	}
	if claims.ExpiresAt == nil {
		return 0, ErrNoExpiration
	}
	return claims.ExpiresAt.Unix(), nil
}
