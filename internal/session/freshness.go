// Package session implements client sessions over a shared ledger slot.
package session

import "tradeledger/internal/models"

// IsFresh is the conflict detector: a pure function over the session's
// remembered metadata, the slot's current metadata, and the session's
// own editor identity. It is evaluated against the on-disk metadata
// immediately before every write attempt.
//
// The session's view is fresh when any of the following holds:
//   - its remembered timestamp is strictly after the store's, or
//   - the store's editor is the editor the session read at its last
//     load (nothing has changed underneath it), or
//   - the store's editor is the session's own account (the session's
//     user made the most recent edit and may keep extending it), or
//   - the store still carries the bootstrap sentinel (no real edit has
//     happened yet, so nothing can be stale).
//
// Otherwise another session has written the slot since this one loaded
// it and the view is stale.
func IsFresh(local, store models.Meta, self string) bool {
	if local.LastEdit.After(store.LastEdit) {
		return true
	}
	if store.Editor == local.Editor {
		return true
	}
	if self != "" && store.Editor == self {
		return true
	}
	return store.Editor == models.BootstrapEditor
}
