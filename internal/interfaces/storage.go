// Package interfaces defines service contracts for tradeledger
package interfaces

import (
	"context"
	"errors"

	"tradeledger/internal/models"
)

// ErrSlotNotFound is returned by Load and LoadMeta when the named slot
// has never been written.
var ErrSlotNotFound = errors.New("ledger slot not found")

// ErrSlotCorrupt is returned when a slot exists but cannot be decoded.
var ErrSlotCorrupt = errors.New("ledger slot corrupt")

// ErrConflict is returned by CompareAndSwap when the slot's on-disk
// metadata no longer matches the expected value.
var ErrConflict = errors.New("ledger slot modified concurrently")

// LedgerStore persists the shared trading ledger under named slots.
// The store is pure load/save plumbing: it trusts the ledger it is
// given and applies no business validation.
type LedgerStore interface {
	// Load reads the current snapshot of a slot. A failed load must
	// leave nothing partially written or returned.
	Load(ctx context.Context, slot string) (*models.Ledger, error)

	// Save atomically replaces the slot's snapshot. A concurrent
	// reader never observes a half-written snapshot.
	Save(ctx context.Context, slot string, ledger *models.Ledger) error

	// LoadMeta reads only the slot's current conflict-detection
	// metadata. Evaluated immediately before every write attempt.
	LoadMeta(ctx context.Context, slot string) (models.Meta, error)

	// CompareAndSwap writes the ledger only if the slot's on-disk
	// metadata still equals expected, returning ErrConflict otherwise.
	// The check and the write are serialized within a process but are
	// not atomic across processes sharing the slot file.
	CompareAndSwap(ctx context.Context, slot string, expected models.Meta, ledger *models.Ledger) error
}
