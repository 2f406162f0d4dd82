package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveStoreKey_Deterministic(t *testing.T) {
	pass := []byte("secret-passphrase")
	salt := []byte("fixed-salt-16byt")

	key1 := DeriveStoreKey(pass, salt)
	key2 := DeriveStoreKey(pass, salt)

	require.Len(t, key1, KeySize)
	require.True(t, bytes.Equal(key1, key2), "same inputs must give same key")
}

func TestDeriveStoreKey_DifferentSalts(t *testing.T) {
	pass := []byte("secret-passphrase")

	key1 := DeriveStoreKey(pass, []byte("salt-1"))
	key2 := DeriveStoreKey(pass, []byte("salt-2"))

	require.False(t, bytes.Equal(key1, key2), "different salts must give different keys")
}

func TestNewSalt_Length(t *testing.T) {
	require.Len(t, NewSalt(), SaltSize)
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := DeriveStoreKey([]byte("p"), NewSalt())
	plaintext := []byte(`{"accessToken":"a1"}`)

	sealed, err := Seal(key, plaintext)
	require.NoError(t, err)
	require.NotContains(t, string(sealed), "accessToken")

	got, err := Open(key, sealed)
	require.NoError(t, err)
	require.Equal(t, plaintext, got)
}

func TestSeal_FreshNonceEachCall(t *testing.T) {
	key := DeriveStoreKey([]byte("p"), NewSalt())

	a, err := Seal(key, []byte("same"))
	require.NoError(t, err)
	b, err := Seal(key, []byte("same"))
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}

func TestOpen_WrongKeyFails(t *testing.T) {
	salt := NewSalt()
	sealed, err := Seal(DeriveStoreKey([]byte("right"), salt), []byte("v"))
	require.NoError(t, err)

	_, err = Open(DeriveStoreKey([]byte("wrong"), salt), sealed)
	require.Error(t, err)
}

func TestOpen_TamperedFails(t *testing.T) {
	key := DeriveStoreKey([]byte("p"), NewSalt())
	sealed, err := Seal(key, []byte("value"))
	require.NoError(t, err)

	sealed[len(sealed)-1] ^= 0xFF

	_, err = Open(key, sealed)
	require.Error(t, err)
}

func TestOpen_TooShort(t *testing.T) {
	key := DeriveStoreKey([]byte("p"), NewSalt())

	_, err := Open(key, []byte{1, 2, 3})
	require.ErrorIs(t, err, ErrCiphertextTooShort)
}

func TestSeal_BadKeyLength(t *testing.T) {
	_, err := Seal([]byte("short"), []byte("v"))
	require.Error(t, err)
}
