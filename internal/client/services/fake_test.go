package services

import (
	"context"

	"github.com/dmitrijs2005/ehbmatch/internal/client/models"
	"github.com/dmitrijs2005/ehbmatch/internal/client/tokens"
)

// ---- fake client ----

type fakeClient struct {
	LoginRet    *models.TokenResponse
	LoginErr    error
	LoginEmail  string
	LoginPass   string
	RegisterRet *models.TokenResponse
	RegisterErr error
	RegisterReq models.RegisterRequest

	InfoRet *models.UserInfo
	InfoErr error

	DiscoverRet  []models.Company
	DiscoverErr  error
	DiscoverNew  bool
	AcceptedRet  []models.SpeedDate
	AcceptedErr  error
	PendingRet   []models.SpeedDate
	PendingErr   error
	SlotsRet     []models.Slot
	SlotsErr     error
	BookErr      error
	Booked       []models.BookingRequest
	PushErr      error
	Pushed       []models.PushRegistration
	CacheCleared int
}

func (f *fakeClient) Login(_ context.Context, email, password string) (*models.TokenResponse, error) {
	f.LoginEmail, f.LoginPass = email, password
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Register(_ context.Context, req models.RegisterRequest) (*models.TokenResponse, error) {
	f.RegisterReq = req
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeClient) Refresh(context.Context, string) (*models.RefreshResponse, error) {
	return nil, nil
}

func (f *fakeClient) Info(context.Context) (*models.UserInfo, error) { return f.InfoRet, f.InfoErr }

func (f *fakeClient) Discover(_ context.Context, onlyNew bool) ([]models.Company, error) {
	f.DiscoverNew = onlyNew
	return f.DiscoverRet, f.DiscoverErr
}

func (f *fakeClient) AcceptedSpeedDates(context.Context) ([]models.SpeedDate, error) {
	return f.AcceptedRet, f.AcceptedErr
}

func (f *fakeClient) PendingSpeedDates(context.Context) ([]models.SpeedDate, error) {
	return f.PendingRet, f.PendingErr
}

func (f *fakeClient) AvailableSlots(context.Context, int64) ([]models.Slot, error) {
	return f.SlotsRet, f.SlotsErr
}

func (f *fakeClient) BookSpeedDate(_ context.Context, req models.BookingRequest) error {
	if f.BookErr != nil {
		return f.BookErr
	}
	f.Booked = append(f.Booked, req)
	return nil
}

func (f *fakeClient) RegisterPushToken(_ context.Context, reg models.PushRegistration) error {
	if f.PushErr != nil {
		return f.PushErr
	}
	f.Pushed = append(f.Pushed, reg)
	return nil
}

func (f *fakeClient) ClearCache() { f.CacheCleared++ }

// ---- fake sessions ----

type fakeSessions struct {
	Begun     []*models.TokenResponse
	BeginErr  error
	LogoutErr error
	LoggedOut int
	StateRet  tokens.State
}

func (f *fakeSessions) Begin(_ context.Context, t *models.TokenResponse) error {
	if f.BeginErr != nil {
		return f.BeginErr
	}
	f.Begun = append(f.Begun, t)
	return nil
}

func (f *fakeSessions) Logout(context.Context) error {
	f.LoggedOut++
	return f.LogoutErr
}

func (f *fakeSessions) State(context.Context) tokens.State { return f.StateRet }
