// Package models defines the client-side data models: the persisted session
// value and the payloads exchanged with the backend.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// LoggedOutMarker is stored in the credential slot instead of a record when
// there is no session.
const LoggedOutMarker = "WholeLoadaShit"

var ErrMalformedSession = errors.New("malformed session value")

// Credentials is the token pair persisted for an active session.
// Expirations are unix seconds.
type Credentials struct {
	AccessToken            string `json:"accessToken"`
	AccessTokenExpiration  int64  `json:"accessTokenExpiration"`
	RefreshToken           string `json:"refreshToken"`
	RefreshTokenExpiration int64  `json:"refreshTokenExpiration"`
}

// WithAccess returns a copy carrying a new access token and expiration.
// The refresh token and its expiration are kept.
func (c Credentials) WithAccess(token string, expiration int64) Credentials {
	c.AccessToken = token
	c.AccessTokenExpiration = expiration
	return c
}

// Session is either LoggedOut or Active(Credentials). The zero value is
// LoggedOut.
type Session struct {
	creds *Credentials
}

func LoggedOut() Session {
	return Session{}
}

func Active(c Credentials) Session {
	return Session{creds: &c}
}

func (s Session) IsLoggedOut() bool {
	return s.creds == nil
}

// Credentials returns the record of an active session. ok is false for
// LoggedOut.
func (s Session) Credentials() (c Credentials, ok bool) {
	if s.creds == nil {
		return Credentials{}, false
	}
	return *s.creds, true
}

// Equal reports deep value equality.
func (s Session) Equal(o Session) bool {
	if s.creds == nil || o.creds == nil {
		return s.creds == o.creds
	}
	return *s.creds == *o.creds
}

// String never includes token material.
func (s Session) String() string {
	if s.creds == nil {
		return "logged out"
	}
	return fmt.Sprintf("active(access until %s, refresh until %s)",
		time.Unix(s.creds.AccessTokenExpiration, 0).UTC().Format(time.RFC3339),
		time.Unix(s.creds.RefreshTokenExpiration, 0).UTC().Format(time.RFC3339))
}

// MarshalJSON writes the marker string for LoggedOut and the record object
// otherwise.
func (s Session) MarshalJSON() ([]byte, error) {
	if s.creds == nil {
		return json.Marshal(LoggedOutMarker)
	}
	return json.Marshal(s.creds)
}

// rawCredentials detects missing attributes.
type rawCredentials struct {
	AccessToken            *string `json:"accessToken"`
	AccessTokenExpiration  *int64  `json:"accessTokenExpiration"`
	RefreshToken           *string `json:"refreshToken"`
	RefreshTokenExpiration *int64  `json:"refreshTokenExpiration"`
}

// UnmarshalJSON accepts exactly the two shapes written by MarshalJSON. A
// record missing any attribute is rejected.
func (s *Session) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return ErrMalformedSession
	}

	switch b[0] {
	case '"':
		var marker string
		if err := json.Unmarshal(b, &marker); err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedSession, err)
		}
		if marker != LoggedOutMarker {
			return fmt.Errorf("%w: unexpected marker", ErrMalformedSession)
		}
		*s = LoggedOut()
		return nil

	case '{':
		var raw rawCredentials
		if err := json.Unmarshal(b, &raw); err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedSession, err)
		}
		if raw.AccessToken == nil || raw.AccessTokenExpiration == nil ||
			raw.RefreshToken == nil || raw.RefreshTokenExpiration == nil {
			return fmt.Errorf("%w: incomplete record", ErrMalformedSession)
		}
		*s = Active(Credentials{
			AccessToken:            *raw.AccessToken,
			AccessTokenExpiration:  *raw.AccessTokenExpiration,
			RefreshToken:           *raw.RefreshToken,
			RefreshTokenExpiration: *raw.RefreshTokenExpiration,
		})
		return nil
	}

	return ErrMalformedSession
}
