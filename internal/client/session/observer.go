// Package session watches the credential slot and tells interested parts of
// the client whether a user is logged in.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/ehbmatch/internal/client/models"
	"github.com/dmitrijs2005/ehbmatch/internal/client/store"
	"github.com/dmitrijs2005/ehbmatch/internal/logging"
)

// DefaultInterval is how often the slot is polled when no interval is given.
const DefaultInterval = time.Second

// Reader is the part of the credential store the observer needs.
type Reader interface {
	Get(ctx context.Context, key string, def models.Session) models.Session
}

// Observer polls the store and publishes the session whenever its value
// changes.
type Observer struct {
	store    Reader
	interval time.Duration
	logger   logging.Logger

	mu      sync.Mutex
	current models.Session
	started bool
	subs    map[int]chan models.Session
	nextID  int
}

func NewObserver(st Reader, interval time.Duration, logger logging.Logger) *Observer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Observer{
		store:    st,
		interval: interval,
		logger:   logger.With("component", "session"),
		subs:     make(map[int]chan models.Session),
	}
}

// Run reads the slot at once and then on every tick until ctx is done.
func (o *Observer) Run(ctx context.Context) {
	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	o.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.poll(ctx)
		}
	}
}

func (o *Observer) poll(ctx context.Context) {
	s := o.store.Get(ctx, store.TokenKey, models.LoggedOut())

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.started && s.Equal(o.current) {
		return
	}
	o.started = true
	o.current = s
	o.logger.Debug(ctx, "session changed", "logged_in", !s.IsLoggedOut())

	for _, ch := range o.subs {
		offer(ch, s)
	}
}

// Current is the last published session. Before the first read it is
// LoggedOut.
func (o *Observer) Current() models.Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

func (o *Observer) LoggedIn() bool {
	return !o.Current().IsLoggedOut()
}

// Subscribe returns a channel receiving the current session (once one has
// been read) and every later change. A slow reader only sees the latest
// value. The returned func unsubscribes and closes the channel.
func (o *Observer) Subscribe() (<-chan models.Session, func()) {
	ch := make(chan models.Session, 1)

	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.subs[id] = ch
	if o.started {
		ch <- o.current
	}
	o.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.subs, id)
			o.mu.Unlock()
			close(ch)
		})
	}
}

// offer replaces any unread value in ch with s. Callers hold o.mu.
func offer(ch chan models.Session, s models.Session) {
	select {
	case <-ch:
	default:
	}
	ch <- s
}
