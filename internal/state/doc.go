// Package state holds the profile store shared by the CLI and the TUI.
//
// # Overview
//
// The Store is the single owner of the cached user collection. Every read
// or write of remote profile data goes through one of its actions, which
// call the gateway and reconcile the answer into the collection:
//
//	FetchAllUsers(ctx)            replace the collection
//	FetchUser(ctx, id)            reconcile one record, make it current
//	UpdateUser(ctx, id, patch)    write, reconcile the echoed record
//	UserByID(id)                  lookup in the cache, no I/O
//
// After each successful action the whole collection is written to the
// snapshot backend, and Open reads it back at startup.
//
// # Error Semantics
//
// A failed action leaves the collection untouched and records a fixed
// message in Snapshot.Error:
//
//	FetchAllUsers  "Failed to fetch users"   (not returned)
//	FetchUser      "User not found"          (reported as ok=false)
//	UpdateUser     "Failed to update user"   (error also returned)
//
// The cause is logged and kept in Snapshot.LastError. The next successful
// action clears both. Snapshot problems are logged only: an unreadable
// snapshot hydrates nothing, and a failed write does not fail the action.
//
// # Loading
//
// Loading counts outstanding gateway calls. It is true from the moment an
// action starts until its call resolves, on failure paths too.
//
// # Concurrency
//
// Accessors and actions are safe for concurrent use. The mutex guards the
// fields, not the actions: two overlapping actions both run to completion
// and whichever resolves last determines the collection.
//
// Consumers that redraw on change call Subscribe and read Snapshot when
// the channel fires. Signals coalesce, so a slow reader sees at most one
// pending signal.
package state
