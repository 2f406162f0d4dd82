package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/ehbmatch/internal/client/client"
	"github.com/dmitrijs2005/ehbmatch/internal/client/config"
	"github.com/dmitrijs2005/ehbmatch/internal/client/localdb"
	"github.com/dmitrijs2005/ehbmatch/internal/client/models"
	"github.com/dmitrijs2005/ehbmatch/internal/client/services"
	"github.com/dmitrijs2005/ehbmatch/internal/client/session"
	"github.com/dmitrijs2005/ehbmatch/internal/client/store"
	"github.com/dmitrijs2005/ehbmatch/internal/client/tokens"
	"github.com/dmitrijs2005/ehbmatch/internal/common"
	"github.com/dmitrijs2005/ehbmatch/internal/filex"
	"github.com/dmitrijs2005/ehbmatch/internal/logging"
)

// dbFileName is the sqlite file inside the data directory.
const dbFileName = "ehbmatch.db"

// sessionObserver is the part of session.Observer the app uses.
type sessionObserver interface {
	Run(ctx context.Context)
	LoggedIn() bool
	Subscribe() (<-chan models.Session, func())
}

type App struct {
	config          *config.Config
	authService     services.AuthService
	planningService services.PlanningService
	store           *store.Store
	observer        sessionObserver
	logger          logging.Logger
	loc             *time.Location

	reader *bufio.Reader
	out    io.Writer
	close  func() error
}

// NewApp builds the client from cfg: the credential store backend, the API
// client, the token manager and the session observer.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	a := &App{
		config: cfg,
		logger: logger,
		loc:    loc,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		close:  func() error { return nil },
	}

	backend, err := a.openBackend(ctx)
	if err != nil {
		return nil, err
	}
	a.store = store.New(backend, logger)

	api, err := client.NewHTTPClient(cfg.APIBaseURL, cfg.PushSyncURL, cfg.RequestTimeout, logger)
	if err != nil {
		_ = a.close()
		return nil, err
	}
	manager := tokens.NewManager(a.store, api, logger)
	api.SetTokenSource(manager)

	a.observer = session.NewObserver(a.store, cfg.SessionPollInterval, logger)
	a.authService = services.NewAuthService(api, manager, logger)
	a.planningService = services.NewPlanningService(api, loc, logger)
	return a, nil
}

func (a *App) openBackend(ctx context.Context) (store.Backend, error) {
	switch a.config.StoreBackend {
	case config.StoreKeyring:
		return store.NewKeyringBackend(a.config.KeyringService), nil
	case config.StoreSQLite:
	default:
		return nil, fmt.Errorf("unknown store backend %q", a.config.StoreBackend)
	}

	dir, err := filex.EnsureDataDir(a.config.DataDir)
	if err != nil {
		return nil, err
	}
	db, err := localdb.Open(ctx, filepath.Join(dir, dbFileName))
	if err != nil {
		return nil, err
	}

	passphrase, err := a.storePassphrase()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	defer common.WipeByteArray(passphrase)

	backend, err := store.NewSQLiteBackend(ctx, db, passphrase)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	a.close = closeDB(db)
	return backend, nil
}

func (a *App) storePassphrase() ([]byte, error) {
	if a.config.StorePassphrase != "" {
		return []byte(a.config.StorePassphrase), nil
	}
	fmt.Fprintln(a.out, "Unlock the local credential store.")
	return getPassword(a.out)
}

func closeDB(db *sql.DB) func() error {
	return func() error { return db.Close() }
}

// Close releases the local database, if any.
func (a *App) Close() error {
	return a.close()
}

func (a *App) isLoggedIn() bool {
	return a.observer.LoggedIn()
}

// Run starts the session observer and blocks in the REPL until the user exits
// or ctx is done.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.observer.Run(ctx)
	go a.watchSession(ctx)

	// The REPL blocks on input, so it cannot notice ctx on its own.
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.Root(ctx)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		fmt.Fprintln(a.out)
	}
}

// watchSession tells the user when a session ends without them asking for
// it, e.g. because the refresh token expired.
func (a *App) watchSession(ctx context.Context) {
	updates, unsubscribe := a.observer.Subscribe()
	defer unsubscribe()

	wasLoggedIn := false
	first := true
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-updates:
			if !ok {
				return
			}
			loggedIn := !s.IsLoggedOut()
			if !first && wasLoggedIn && !loggedIn {
				fmt.Fprintln(a.out, "\nYour session has ended. Please log in again.")
			}
			first = false
			wasLoggedIn = loggedIn
		}
	}
}
