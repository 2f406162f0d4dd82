package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ehbmatch/internal/client/repositories/items"
	"github.com/dmitrijs2005/ehbmatch/internal/common"
	"github.com/dmitrijs2005/ehbmatch/internal/cryptox"
	"github.com/dmitrijs2005/ehbmatch/internal/dbx"
)

// saltKey holds the per-database key derivation salt, unencrypted.
const saltKey = "__salt"

var (
	ErrPassphraseRequired = errors.New("store passphrase required")
	ErrReservedKey        = errors.New("reserved key")
)

// SQLiteBackend seals values with AES-256-GCM before writing them to the
// items table.
type SQLiteBackend struct {
	repo items.Repository
	key  []byte
}

// NewSQLiteBackend derives the sealing key from passphrase and the
// database's salt, creating the salt on first use.
func NewSQLiteBackend(ctx context.Context, db *sql.DB, passphrase []byte) (*SQLiteBackend, error) {
	if len(passphrase) == 0 {
		return nil, ErrPassphraseRequired
	}

	var salt []byte
	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := items.NewSQLiteRepository(tx)

		v, found, err := repo.Get(ctx, saltKey)
		if err != nil {
			return err
		}
		if found {
			salt = v
			return nil
		}

		salt = cryptox.NewSalt()
		return repo.Set(ctx, saltKey, salt)
	})
	if err != nil {
		return nil, fmt.Errorf("load store salt: %w", err)
	}

	return &SQLiteBackend{
		repo: items.NewSQLiteRepository(db),
		key:  cryptox.DeriveStoreKey(passphrase, salt),
	}, nil
}

func (b *SQLiteBackend) Read(ctx context.Context, key string) ([]byte, bool, error) {
	if key == saltKey {
		return nil, false, ErrReservedKey
	}

	sealed, found, err := b.repo.Get(ctx, key)
	if err != nil || !found {
		return nil, found, err
	}

	plain, err := cryptox.Open(b.key, sealed)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", common.ErrCorruptValue, err)
	}
	return plain, true, nil
}

func (b *SQLiteBackend) Write(ctx context.Context, key string, value []byte) error {
	if key == saltKey {
		return ErrReservedKey
	}

	sealed, err := cryptox.Seal(b.key, value)
	if err != nil {
		return err
	}
	return b.repo.Set(ctx, key, sealed)
}

func (b *SQLiteBackend) Delete(ctx context.Context, key string) error {
	if key == saltKey {
		return ErrReservedKey
	}
	return b.repo.Delete(ctx, key)
}
