package common

// AuthorizationHeaderName is the HTTP header used to carry the access token
// on outbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token in the Authorization header.
const BearerPrefix = "Bearer "

// RequestIDHeaderName carries a per-request id, useful when correlating
// client logs with backend logs.
const RequestIDHeaderName = "X-Request-ID"
