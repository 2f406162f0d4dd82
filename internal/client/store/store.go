package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/ehbmatch/internal/client/models"
	"github.com/dmitrijs2005/ehbmatch/internal/logging"
)

// TokenKey is the slot holding the session.
const TokenKey = "Token"

// Backend is raw, durable key/value persistence.
type Backend interface {
	// Read returns the bytes under key; found is false on a miss.
	Read(ctx context.Context, key string) (value []byte, found bool, err error)
	// Write replaces the bytes under key atomically.
	Write(ctx context.Context, key string, value []byte) error
	// Delete removes key; a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

type Store struct {
	backend Backend
	logger  logging.Logger
}

func New(backend Backend, logger logging.Logger) *Store {
	return &Store{backend: backend, logger: logger.With("component", "store")}
}

// Get never reports absence: see the package documentation.
func (s *Store) Get(ctx context.Context, key string, def models.Session) models.Session {
	raw, found, err := s.backend.Read(ctx, key)
	if err != nil {
		s.logger.Warn(ctx, "read failed, using default", "key", key, "error", err)
		return def
	}

	if !found {
		if err := s.Set(ctx, key, def); err != nil {
			s.logger.Warn(ctx, "writing default failed", "key", key, "error", err)
		}
		return def
	}

	var v models.Session
	if err := json.Unmarshal(raw, &v); err != nil {
		// The slot is left as is and will be retried on the next read.
		s.logger.Warn(ctx, "stored value is corrupt, using default", "key", key, "error", err)
		return def
	}
	return v
}

func (s *Store) Set(ctx context.Context, key string, v models.Session) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.backend.Write(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Delete removes the slot entirely. The next Get starts from its default.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.backend.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
