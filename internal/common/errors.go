// Package common defines shared constants and sentinel errors used across
// the ehbmatch client packages. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Session errors.
	ErrLoggedOut     = errors.New("logged out")
	ErrRefreshFailed = errors.New("access token refresh failed")

	// Storage errors.
	ErrCorruptValue = errors.New("corrupt stored value")
)
