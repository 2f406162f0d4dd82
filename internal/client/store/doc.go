// Package store persists the session value in a single named slot.
//
// Store implements get-with-default semantics on top of a Backend:
//
//   - Get returns the stored value. On a miss it writes the default and
//     returns it. A backend read error or an undecodable value is logged and
//     the default is returned without touching the slot, so a transient
//     failure does not erase a session.
//   - Set serializes and overwrites the slot in one backend write.
//
// Two backends are provided: SQLiteBackend (AES-GCM sealed rows in the local
// database) and KeyringBackend (the operating system's secret store).
package store
