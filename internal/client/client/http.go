package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/ehbmatch/internal/client/models"
	"github.com/dmitrijs2005/ehbmatch/internal/common"
	"github.com/dmitrijs2005/ehbmatch/internal/logging"
	"github.com/google/uuid"
	"github.com/gregjones/httpcache"
)

var _ Client = (*HTTPClient)(nil)

// maxErrorBody caps how much of an error response ends up in a StatusError.
const maxErrorBody = 512

type HTTPClient struct {
	baseURL string
	pushURL string
	http    *http.Client
	cache   *resettableCache
	logger  logging.Logger

	mu     sync.RWMutex
	tokens TokenSource
}

// NewHTTPClient builds a client for the API at baseURL. pushURL may be empty,
// in which case RegisterPushToken returns ErrPushDisabled.
func NewHTTPClient(baseURL, pushURL string, timeout time.Duration, logger logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parsing base URL: unsupported scheme %q", u.Scheme)
	}

	cache := &resettableCache{c: httpcache.NewMemoryCache()}
	transport := httpcache.NewTransport(cache)

	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		pushURL: pushURL,
		http:    &http.Client{Transport: transport, Timeout: timeout},
		cache:   cache,
		logger:  logger.With("component", "api"),
	}, nil
}

// SetTokenSource wires the provider of bearer tokens. It is set after
// construction because the token manager itself refreshes through this client.
func (c *HTTPClient) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	c.tokens = ts
	c.mu.Unlock()
}

// ClearCache forgets every cached response.
func (c *HTTPClient) ClearCache() {
	c.cache.reset()
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	var out models.TokenResponse
	req := models.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/auth/login", false, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) (*models.TokenResponse, error) {
	var out models.TokenResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/auth/register", false, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (*models.RefreshResponse, error) {
	var out models.RefreshResponse
	req := models.RefreshRequest{RefreshToken: refreshToken}
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/auth/refresh", false, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Info(ctx context.Context) (*models.UserInfo, error) {
	var out models.UserInfo
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/auth/info", true, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Discover(ctx context.Context, onlyNew bool) ([]models.Company, error) {
	q := url.Values{"onlyNew": {strconv.FormatBool(onlyNew)}}
	var out []models.Company
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/discover/bedrijven?"+q.Encode(), true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) AcceptedSpeedDates(ctx context.Context) ([]models.SpeedDate, error) {
	var out []models.SpeedDate
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/speeddates/accepted", true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) PendingSpeedDates(ctx context.Context) ([]models.SpeedDate, error) {
	var out []models.SpeedDate
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/speeddates/pending", true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) AvailableSlots(ctx context.Context, companyID int64) ([]models.Slot, error) {
	path := fmt.Sprintf("%s/speeddates/user/%d/available", c.baseURL, companyID)
	var out []models.Slot
	if err := c.do(ctx, http.MethodGet, path, true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) BookSpeedDate(ctx context.Context, req models.BookingRequest) error {
	return c.do(ctx, http.MethodPost, c.baseURL+"/speeddates/", true, req, nil)
}

func (c *HTTPClient) RegisterPushToken(ctx context.Context, reg models.PushRegistration) error {
	if c.pushURL == "" {
		return ErrPushDisabled
	}
	return c.do(ctx, http.MethodPost, c.pushURL, false, reg, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, target string, auth bool, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, reqID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if auth {
		token, err := c.bearer(ctx)
		if err != nil {
			return err
		}
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Warn(ctx, "request failed", "method", method, "request_id", reqID, "error", err)
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug(ctx, "request done",
		"method", method,
		"status", resp.StatusCode,
		"request_id", reqID,
		"cached", resp.Header.Get(httpcache.XFromCache) != "",
	)

	if err := mapStatus(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *HTTPClient) bearer(ctx context.Context) (string, error) {
	c.mu.RLock()
	ts := c.tokens
	c.mu.RUnlock()
	if ts == nil {
		return "", common.ErrLoggedOut
	}
	return ts.AccessToken(ctx)
}

func mapStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// resettableCache is an httpcache.Cache whose contents can be dropped while
// requests are in flight.
type resettableCache struct {
	mu sync.RWMutex
	c  *httpcache.MemoryCache
}

func (r *resettableCache) Get(key string) ([]byte, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.c.Get(key)
}

func (r *resettableCache) Set(key string, value []byte) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	r.c.Set(key, value)
}

func (r *resettableCache) Delete(key string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	r.c.Delete(key)
}

func (r *resettableCache) reset() {
	r.mu.Lock()
	r.c = httpcache.NewMemoryCache()
	r.mu.Unlock()
}
