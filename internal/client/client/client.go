package client

import (
	"context"

	"github.com/dmitrijs2005/ehbmatch/internal/client/models"
)

// Client is the backend API used by the application services.
type Client interface {
	Login(ctx context.Context, email, password string) (*models.TokenResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*models.RefreshResponse, error)
	Info(ctx context.Context) (*models.UserInfo, error)

	Discover(ctx context.Context, onlyNew bool) ([]models.Company, error)
	AcceptedSpeedDates(ctx context.Context) ([]models.SpeedDate, error)
	PendingSpeedDates(ctx context.Context) ([]models.SpeedDate, error)
	AvailableSlots(ctx context.Context, companyID int64) ([]models.Slot, error)
	BookSpeedDate(ctx context.Context, req models.BookingRequest) error

	RegisterPushToken(ctx context.Context, reg models.PushRegistration) error

	ClearCache()
}

// TokenSource hands out the bearer token for authenticated calls.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}
