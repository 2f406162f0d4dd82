package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"voornaam,omitempty"`
	LastName  string `json:"achternaam,omitempty"`
}

// TokenResponse is returned by login and registration. Expirations are ISO
// 8601 timestamps; a missing one decodes to the zero time.
type TokenResponse struct {
	AccessToken           string    `json:"accessToken"`
	AccessTokenExpiresAt  time.Time `json:"accessTokenExpiresAt"`
	RefreshToken          string    `json:"refreshToken"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshResponse carries a new access token only; the refresh token is not
// rotated.
type RefreshResponse struct {
	AccessToken          string    `json:"accessToken"`
	AccessTokenExpiresAt time.Time `json:"accessTokenExpiresAt"`
}

// UserInfo is the profile returned by /auth/info.
type UserInfo struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Type         string `json:"type,omitempty"`
	FirstName    string `json:"voornaam,omitempty"`
	LastName     string `json:"achternaam,omitempty"`
	ProfilePhoto string `json:"profiel_foto,omitempty"`
	LinkedIn     string `json:"linkedin,omitempty"`
}

// Company is one discover result.
type Company struct {
	UserID          int64      `json:"gebruiker_id"`
	Name            string     `json:"naam"`
	Place           string     `json:"plaats"`
	PhotoURL        string     `json:"profiel_foto_url"`
	MatchPercentage Percentage `json:"match_percentage"`
}

// Percentage decodes from a JSON number or a numeric string; the backend
// sends both.
type Percentage float64

func (p *Percentage) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case nil:
		*p = 0
	case float64:
		*p = Percentage(value)
	case string:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid percentage %q: %w", value, err)
		}
		*p = Percentage(f)
	default:
		return fmt.Errorf("invalid percentage %s", string(b))
	}
	return nil
}

// SpeedDate is an accepted or pending appointment.
type SpeedDate struct {
	ID            json.Number `json:"id"`
	CompanyName   string      `json:"naam_bedrijf"`
	CompanySector string      `json:"sector_bedrijf,omitempty"`
	CompanyPhoto  string      `json:"profiel_foto_bedrijf"`
	Room          string      `json:"lokaal"`
	Begin         time.Time   `json:"begin"`
}

// Slot is a bookable time window of a company.
type Slot struct {
	ID    int64     `json:"id"`
	Begin time.Time `json:"begin"`
	End   time.Time `json:"einde"`
}

// BookingLayout is the wall-clock format the backend expects in Datum.
const BookingLayout = "2006-01-02 15:04:05"

type BookingRequest struct {
	CompanyID int64  `json:"id_bedrijf"`
	Datum     string `json:"datum"`
}

// NewBookingRequest renders at in loc using BookingLayout.
func NewBookingRequest(companyID int64, at time.Time, loc *time.Location) BookingRequest {
	return BookingRequest{CompanyID: companyID, Datum: at.In(loc).Format(BookingLayout)}
}

// PushRegistration links a device push token to a user.
type PushRegistration struct {
	ID    int64  `json:"id"`
	Token string `json:"token"`
}
