package cli

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/ehbmatch/internal/client/config"
	"github.com/dmitrijs2005/ehbmatch/internal/client/models"
	"github.com/dmitrijs2005/ehbmatch/internal/client/services"
	"github.com/dmitrijs2005/ehbmatch/internal/client/store"
	"github.com/dmitrijs2005/ehbmatch/internal/client/tokens"
	"github.com/dmitrijs2005/ehbmatch/internal/logging"
	"github.com/stretchr/testify/require"
)

// ------------ fakes ------------

type fakeAuth struct {
	loginEmail string
	loginPass  string
	loginErr   error

	registered []string
	logouts    int
	info       *models.UserInfo
	pushed     []string
	state      tokens.State
}

func (f *fakeAuth) Login(_ context.Context, email string, password []byte) error {
	f.loginEmail, f.loginPass = email, string(password)
	return f.loginErr
}

func (f *fakeAuth) Register(_ context.Context, email string, password []byte, first, last string) error {
	f.registered = []string{email, string(password), first, last}
	return nil
}

func (f *fakeAuth) Logout(context.Context) error { f.logouts++; return nil }

func (f *fakeAuth) Info(context.Context) (*models.UserInfo, error) { return f.info, nil }

func (f *fakeAuth) SyncPushToken(_ context.Context, token string) { f.pushed = append(f.pushed, token) }

func (f *fakeAuth) State(context.Context) tokens.State { return f.state }

type fakePlanning struct {
	accepted []models.DayGroup[models.SpeedDate]
	pending  []models.SpeedDate
	discover []models.Company
	onlyNew  bool
	slots    []models.DayGroup[models.Slot]

	bookedCompany int64
	bookedAt      time.Time
	bookErr       error
}

func (f *fakePlanning) Accepted(context.Context) ([]models.DayGroup[models.SpeedDate], error) {
	return f.accepted, nil
}

func (f *fakePlanning) Pending(context.Context) ([]models.SpeedDate, error) { return f.pending, nil }

func (f *fakePlanning) Discover(_ context.Context, onlyNew bool) ([]models.Company, error) {
	f.onlyNew = onlyNew
	return f.discover, nil
}

func (f *fakePlanning) AvailableSlots(context.Context, int64) ([]models.DayGroup[models.Slot], error) {
	return f.slots, nil
}

func (f *fakePlanning) Book(_ context.Context, companyID int64, at time.Time) error {
	f.bookedCompany, f.bookedAt = companyID, at
	return f.bookErr
}

type fakeObserver struct {
	mu       sync.Mutex
	loggedIn bool
	ch       chan models.Session
}

func (f *fakeObserver) Run(ctx context.Context) { <-ctx.Done() }

func (f *fakeObserver) LoggedIn() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loggedIn
}

func (f *fakeObserver) Subscribe() (<-chan models.Session, func()) {
	return f.ch, func() {}
}

type memBackend struct {
	data map[string][]byte
}

func (m *memBackend) Read(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memBackend) Write(_ context.Context, key string, value []byte) error {
	m.data[key] = value
	return nil
}

func (m *memBackend) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

var (
	_ services.AuthService     = (*fakeAuth)(nil)
	_ services.PlanningService = (*fakePlanning)(nil)
)

// ------------ helpers ------------

func newTestApp(t *testing.T, input string) (*App, *fakeAuth, *fakePlanning, *bytes.Buffer) {
	t.Helper()
	auth := &fakeAuth{}
	plan := &fakePlanning{}
	out := &bytes.Buffer{}
	return &App{
		config:          &config.Config{},
		authService:     auth,
		planningService: plan,
		store:           store.New(&memBackend{data: map[string][]byte{}}, logging.Discard()),
		observer:        &fakeObserver{},
		logger:          logging.Discard(),
		loc:             time.UTC,
		reader:          rdr(input),
		out:             out,
		close:           func() error { return nil },
	}, auth, plan, out
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	old := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = old })
}

// ------------ tests ------------

func TestLogin_ReadsCredentials(t *testing.T) {
	stubPassword(t, "pw")
	a, auth, _, out := newTestApp(t, "a@b.c\n")

	require.NoError(t, a.Login(context.Background()))
	require.Equal(t, "a@b.c", auth.loginEmail)
	require.Equal(t, "pw", auth.loginPass)
	require.Contains(t, out.String(), "Login successful.")
}

func TestLogin_ErrorReturned(t *testing.T) {
	stubPassword(t, "pw")
	a, auth, _, out := newTestApp(t, "a@b.c\n")
	auth.loginErr = errors.New("nope")

	require.Error(t, a.Login(context.Background()))
	require.NotContains(t, out.String(), "Login successful.")
}

func TestRegister_ReadsProfile(t *testing.T) {
	stubPassword(t, "pw")
	a, auth, _, _ := newTestApp(t, "a@b.c\nJan\nPeeters\n")

	require.NoError(t, a.Register(context.Background()))
	require.Equal(t, []string{"a@b.c", "pw", "Jan", "Peeters"}, auth.registered)
}

func TestREPL_LoginPromptsShareInput(t *testing.T) {
	stubPassword(t, "pw")
	a, auth, _, _ := newTestApp(t, "login\na@b.c\nstatus\nexit\n")

	a.Root(context.Background())
	require.Equal(t, "a@b.c", auth.loginEmail)
}

func TestWhoAmI(t *testing.T) {
	a, auth, _, out := newTestApp(t, "")
	auth.info = &models.UserInfo{ID: 7, Email: "a@b.c", FirstName: "Jan", LastName: "Peeters", Type: "student"}

	require.NoError(t, a.WhoAmI(context.Background()))
	require.Equal(t, "Jan Peeters <a@b.c> id=7 type=student\n", out.String())
}

func TestStatus(t *testing.T) {
	a, auth, _, out := newTestApp(t, "")
	auth.state = tokens.NeedsRefresh

	require.NoError(t, a.Status(context.Background()))
	require.Equal(t, "Session: NEEDS_REFRESH\n", out.String())
}

func TestDates_PrintsGroups(t *testing.T) {
	a, _, plan, out := newTestApp(t, "")
	day := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	plan.accepted = []models.DayGroup[models.SpeedDate]{{
		Day: day,
		Items: []models.SpeedDate{
			{CompanyName: "Acme", Room: "A1", Begin: day.Add(9 * time.Hour)},
			{Begin: day.Add(10 * time.Hour)},
		},
	}}

	require.NoError(t, a.Dates(context.Background()))
	require.Equal(t, "Fri 01 May 2026\n  09:00  Acme (A1)\n  10:00  (unnamed)\n", out.String())
}

func TestDates_Empty(t *testing.T) {
	a, _, _, out := newTestApp(t, "")
	require.NoError(t, a.Dates(context.Background()))
	require.Equal(t, "No speed dates planned.\n", out.String())
}

func TestDiscover(t *testing.T) {
	a, _, plan, out := newTestApp(t, "")
	plan.discover = []models.Company{{UserID: 3, Name: "Acme", Place: "Brussel", MatchPercentage: 87.4}}

	require.NoError(t, a.Discover(context.Background(), false))
	require.True(t, plan.onlyNew)
	require.Equal(t, "  [3] Acme, Brussel (87%)\n", out.String())

	require.NoError(t, a.Discover(context.Background(), true))
	require.False(t, plan.onlyNew)
}

func TestSlots(t *testing.T) {
	a, _, plan, out := newTestApp(t, "")
	day := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	plan.slots = []models.DayGroup[models.Slot]{{
		Day:   day,
		Items: []models.Slot{{ID: 1, Begin: day.Add(9 * time.Hour), End: day.Add(9*time.Hour + 10*time.Minute)}},
	}}

	require.ErrorIs(t, a.Slots(context.Background(), nil), errUsage)
	require.ErrorIs(t, a.Slots(context.Background(), []string{"abc"}), errUsage)

	require.NoError(t, a.Slots(context.Background(), []string{"3"}))
	require.Equal(t, "Fri 01 May 2026\n  09:00-09:10\n", out.String())
}

func TestBook_ParsesLocalTime(t *testing.T) {
	a, _, plan, out := newTestApp(t, "")

	require.NoError(t, a.Book(context.Background(), []string{"3", "2026-05-01", "09:00"}))
	require.EqualValues(t, 3, plan.bookedCompany)
	require.True(t, plan.bookedAt.Equal(time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)))
	require.Contains(t, out.String(), "Booked Fri 01 May 2026 09:00.")
}

func TestBook_Usage(t *testing.T) {
	a, _, _, _ := newTestApp(t, "")
	ctx := context.Background()

	require.ErrorIs(t, a.Book(ctx, []string{"3"}), errUsage)
	require.ErrorIs(t, a.Book(ctx, []string{"x", "2026-05-01", "09:00"}), errUsage)
	require.ErrorIs(t, a.Book(ctx, []string{"3", "01/05/2026", "09:00"}), errUsage)
}

func TestBook_ServiceError(t *testing.T) {
	a, _, plan, _ := newTestApp(t, "")
	plan.bookErr = services.ErrSlotUnavailable

	err := a.Book(context.Background(), []string{"3", "2026-05-01", "09:00"})
	require.ErrorIs(t, err, services.ErrSlotUnavailable)
}

func TestPush(t *testing.T) {
	a, auth, _, _ := newTestApp(t, "")

	require.ErrorIs(t, a.Push(context.Background(), nil), errUsage)
	require.NoError(t, a.Push(context.Background(), []string{"tok"}))
	require.Equal(t, []string{"tok"}, auth.pushed)
}

func TestReset_RemovesSlot(t *testing.T) {
	a, auth, _, _ := newTestApp(t, "")
	ctx := context.Background()
	active := models.Active(models.Credentials{AccessToken: "a", AccessTokenExpiration: 1, RefreshToken: "r", RefreshTokenExpiration: 2})
	require.NoError(t, a.store.Set(ctx, store.TokenKey, active))

	require.NoError(t, a.Reset(ctx))
	require.Equal(t, 1, auth.logouts)

	require.True(t, a.store.Get(ctx, store.TokenKey, models.LoggedOut()).IsLoggedOut())
}

func TestGetStatus_FollowsObserver(t *testing.T) {
	a, _, _, _ := newTestApp(t, "")
	obs := a.observer.(*fakeObserver)

	require.Equal(t, "(logged out)", a.getStatus())
	obs.loggedIn = true
	require.Equal(t, "(logged in)", a.getStatus())
}

func TestWatchSession_AnnouncesEndedSession(t *testing.T) {
	a, _, _, _ := newTestApp(t, "")
	var out syncBuffer
	a.out = &out
	ch := make(chan models.Session, 1)
	a.observer = &fakeObserver{ch: ch}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.watchSession(ctx)
		close(done)
	}()

	active := models.Active(models.Credentials{AccessToken: "a", AccessTokenExpiration: 1, RefreshToken: "r", RefreshTokenExpiration: 2})
	ch <- models.LoggedOut()
	ch <- active
	ch <- models.LoggedOut()

	require.Eventually(t, func() bool {
		return bytes.Contains(out.Bytes(), []byte("Your session has ended"))
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestStorePassphrase_FromConfig(t *testing.T) {
	a, _, _, _ := newTestApp(t, "")
	a.config.StorePassphrase = "secret"

	pw, err := a.storePassphrase()
	require.NoError(t, err)
	require.Equal(t, []byte("secret"), pw)
}

func TestStorePassphrase_Prompts(t *testing.T) {
	stubPassword(t, "typed")
	a, _, _, out := newTestApp(t, "")

	pw, err := a.storePassphrase()
	require.NoError(t, err)
	require.Equal(t, []byte("typed"), pw)
	require.Contains(t, out.String(), "Unlock the local credential store.")
}

func TestNewApp_SQLiteBackend(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DataDir = t.TempDir()
	cfg.StorePassphrase = "secret"
	cfg.TimeZone = "UTC"
	cfg.APIBaseURL = "http://127.0.0.1:1"

	a, err := NewApp(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	require.False(t, a.isLoggedIn())
	require.Equal(t, tokens.LoggedOut, a.authService.State(context.Background()))
}

func TestNewApp_BadConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.TimeZone = "UTC"
	cfg.StoreBackend = "redis"

	_, err := NewApp(context.Background(), cfg, logging.Discard())
	require.Error(t, err)
}

// syncBuffer is a bytes.Buffer safe for one writer goroutine and one reader.
type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.b.Bytes()...)
}

func TestRun_ReturnsOnExit(t *testing.T) {
	a, _, _, _ := newTestApp(t, "exit\n")

	done := make(chan struct{})
	go func() {
		a.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after exit")
	}
}
