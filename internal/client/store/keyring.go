package store

import (
	"context"
	"errors"

	"github.com/zalando/go-keyring"
)

// KeyringBackend keeps values in the OS secret store (Keychain, Secret
// Service, Windows Credential Manager) under one service name.
type KeyringBackend struct {
	service string
}

func NewKeyringBackend(service string) *KeyringBackend {
	return &KeyringBackend{service: service}
}

func (b *KeyringBackend) Read(_ context.Context, key string) ([]byte, bool, error) {
	v, err := keyring.Get(b.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(v), true, nil
}

func (b *KeyringBackend) Write(_ context.Context, key string, value []byte) error {
	return keyring.Set(b.service, key, string(value))
}

func (b *KeyringBackend) Delete(_ context.Context, key string) error {
	err := keyring.Delete(b.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
