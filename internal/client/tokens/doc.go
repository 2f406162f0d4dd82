// Package tokens decides whether the stored access token may be used, and
// refreshes it against the backend when it has expired.
//
// Every call re-reads the credential slot; nothing is cached in memory. A
// refresh that fails leaves the stored record as it was, while a session whose
// refresh token has expired is replaced by the logged-out marker.
package tokens
