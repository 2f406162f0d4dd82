// Package cryptox seals values persisted by the credential store.
//
// Values are encrypted with AES-256-GCM. The nonce is generated per call and
// prepended to the ciphertext, so a sealed blob is self-contained:
//
//	nonce (12 bytes) || ciphertext || tag
//
// Keys are derived from a passphrase and a per-database salt with argon2id.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ehbmatch/internal/common"
	"golang.org/x/crypto/argon2"
)

// KeySize is the length of keys returned by DeriveStoreKey (AES-256).
const KeySize = 32

// SaltSize is the recommended salt length for DeriveStoreKey.
const SaltSize = 16

var ErrCiphertextTooShort = errors.New("ciphertext too short")

// DeriveStoreKey stretches passphrase into a KeySize-byte AES key.
// Identical inputs always produce the same key.
func DeriveStoreKey(passphrase []byte, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, KeySize)
}

// NewSalt returns SaltSize random bytes.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// Seal encrypts plaintext with key and returns nonce||ciphertext.
func Seal(key, plaintext []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())

	// Seal appends to nonce, producing nonce || ciphertext || tag.
	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal. A wrong key or a tampered blob yields an error.
func Open(key, sealed []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	ns := aesgcm.NonceSize()
	if len(sealed) < ns {
		return nil, ErrCiphertextTooShort
	}

	nonce, ciphertext := sealed[:ns], sealed[ns:]
	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("gcm open: %w", err)
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("gcm: %w", err)
	}
	return aesgcm, nil
}
