// Package items persists opaque values in the local SQLite "items" table.
//
// Values are stored as given; callers that need confidentiality seal them
// before calling Set (see the store package). Every write is a single
// upsert statement, so a reader never observes a partial value.
package items
