// Package client talks to the ehbmatch backend over HTTP/JSON.
//
// # Overview
//
// HTTPClient covers the auth endpoints (login, register, refresh, info) and
// the downstream planning endpoints (discover, speed dates, slots, booking),
// plus the push-token sync URL. Authenticated calls ask a TokenSource for a
// bearer token right before the request is sent.
//
// GET responses go through an in-memory HTTP cache honouring ETag and
// Cache-Control. ClearCache drops it; call it on logout.
//
// # Error Handling
//
// Responses are mapped to sentinel errors that callers match with errors.Is:
// ErrUnauthorized for 401/403, ErrUnavailable for 5xx and transport failures.
// Other non-2xx responses are returned as *StatusError.
package client
