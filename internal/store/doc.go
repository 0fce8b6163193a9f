// Package store persists named calculator configurations.
//
// Every backend implements Store and scopes records by owner: an owner can
// only list, read and delete its own records. Backends:
//
//   - File: a single JSON document on disk. This is the local-only store used
//     when nobody is signed in.
//   - SQLite: durable multi-owner store for signed-in users. The same database
//     also holds the identity directory's users table.
//   - Redis: alternative multi-owner store, one hash per owner.
//
// Names are not unique; every Save creates a new record with a fresh UUIDv7
// id. List returns newest first. Concurrent writers on one owner are
// last-write-wins.
package store
