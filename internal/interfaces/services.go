// Package interfaces defines service contracts for tradeledger
package interfaces

import "context"

// TradingSession is the surface the console client consumes. One
// session serves one logical caller at a time; concurrency arises only
// from independent sessions sharing a ledger slot through a
// LedgerStore.
type TradingSession interface {
	// Refresh unconditionally reloads the session's snapshot from the
	// store, re-resolving the authenticated account against the fresh
	// account set. A load failure leaves the previous in-memory state
	// untouched.
	Refresh(ctx context.Context) error

	// Authenticate scans the current account set for an exact
	// username+password match. When the session already holds an
	// account it fails without re-checking credentials.
	Authenticate(ctx context.Context, userName, password string) error
	Deauthenticate()
	IsAuthenticated() bool

	// Queries. Each refreshes first and requires authentication.
	ListStocks(ctx context.Context) (string, error)
	ListPositions(ctx context.Context) (string, error)
	TrackPositions(ctx context.Context) (string, error)
	RankAccounts(ctx context.Context) (string, error)

	// Transactions. Each refreshes, validates, mutates the in-memory
	// snapshot and then commits with a conflict check, returning
	// models.ErrStaleSnapshot when another session won the write race.
	Purchase(ctx context.Context, stockNo, quantity int) error
	Sell(ctx context.Context, positionNo, quantity int) error
	AdvanceDay(ctx context.Context) error

	// Session state accessors for the caller's prompt line.
	CurrentAccountName() string
	CurrentBalance() (float64, bool)
	CurrentDayIndex() (int, bool)
	ServerTimeDisplay() string
	SessionID() string
}
