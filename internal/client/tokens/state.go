package tokens

import (
	"time"

	"github.com/dmitrijs2005/ehbmatch/internal/client/models"
)

// State classifies a stored session at a given instant.
type State int

const (
	LoggedOut State = iota
	Valid
	NeedsRefresh
	Expired
)

func (s State) String() string {
	switch s {
	case LoggedOut:
		return "LOGGED_OUT"
	case Valid:
		return "VALID"
	case NeedsRefresh:
		return "NEEDS_REFRESH"
	case Expired:
		return "EXPIRED"
	default:
		return "UNKNOWN"
	}
}

// Evaluate decides the state of s at now. Expirations are compared in unix
// seconds and an expiration equal to now counts as passed.
func Evaluate(s models.Session, now time.Time) State {
	c, ok := s.Credentials()
	if !ok {
		return LoggedOut
	}
	ts := now.Unix()
	switch {
	case c.AccessTokenExpiration > ts:
		return Valid
	case c.RefreshTokenExpiration > ts:
		return NeedsRefresh
	default:
		return Expired
	}
}
