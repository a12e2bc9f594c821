package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"tradeledger/internal/common"
	"tradeledger/internal/interfaces"
	"tradeledger/internal/models"
)

// Authentication outcomes.
var (
	// ErrAlreadyLoggedIn is returned when Authenticate is called on a
	// session that already holds an account; credentials are not
	// re-checked.
	ErrAlreadyLoggedIn = errors.New("already logged in")

	// ErrLoginFailed is returned when no account matches the given
	// credentials.
	ErrLoginFailed = errors.New("login failed")
)

// Session holds one in-memory snapshot of the shared ledger plus at
// most one authenticated account. A session serves a single logical
// caller; independent sessions coordinate only through the store's
// metadata. There is no cross-process lock over the slot: between a
// session's Refresh and its commit another session may load, mutate
// and save, which the commit-time freshness check detects.
type Session struct {
	id     string
	store  interfaces.LedgerStore
	slot   string
	logger *common.Logger

	clock func() time.Time
	rng   *rand.Rand

	ledger    *models.Ledger
	localMeta models.Meta
	account   *models.Account
}

// Option configures a Session.
type Option func(*Session)

// WithClock injects the session's time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Session) { s.clock = clock }
}

// WithRand injects the random source used by day advances.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// New creates an unauthenticated session over the given slot. The
// caller is expected to Refresh before its first query.
func New(store interfaces.LedgerStore, slot string, logger *common.Logger, opts ...Option) *Session {
	s := &Session{
		id:     uuid.NewString(),
		store:  store,
		slot:   slot,
		logger: logger,
		clock:  time.Now,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh unconditionally reloads the snapshot from the store. The
// authenticated account, if any, is re-resolved against the fresh
// account set by username+password; on mismatch the session silently
// drops back to unauthenticated. A load failure leaves the previous
// in-memory state untouched.
func (s *Session) Refresh(ctx context.Context) error {
	ledger, err := s.store.Load(ctx, s.slot)
	if err != nil {
		return err
	}

	var userName, password string
	if s.account != nil {
		userName, password = s.account.UserName, s.account.Password
	}

	s.ledger = ledger
	s.localMeta = ledger.Meta()

	if userName != "" {
		s.account = ledger.FindAccount(userName, password)
		if s.account == nil {
			s.logger.Warn().Str("username", userName).Msg("Account no longer resolvable, session deauthenticated")
		}
	}
	return nil
}

// Authenticate scans the current account set for an exact credential
// match. When the session already holds an account it returns
// ErrAlreadyLoggedIn without re-checking credentials.
func (s *Session) Authenticate(ctx context.Context, userName, password string) error {
	if s.account != nil {
		return ErrAlreadyLoggedIn
	}
	if s.ledger == nil {
		if err := s.Refresh(ctx); err != nil {
			return err
		}
	}

	account := s.ledger.FindAccount(userName, password)
	if account == nil {
		s.logger.Debug().Str("username", userName).Msg("Login failed")
		return ErrLoginFailed
	}

	s.account = account
	s.logger.Info().Str("username", userName).Str("session", s.id).Msg("Logged in")
	return nil
}

// Deauthenticate clears the authenticated account.
func (s *Session) Deauthenticate() {
	if s.account != nil {
		s.logger.Info().Str("username", s.account.UserName).Msg("Signed out")
	}
	s.account = nil
}

// IsAuthenticated reports whether the session holds an account.
func (s *Session) IsAuthenticated() bool {
	return s.account != nil
}

// requireAuth is the precondition of every transactional operation and
// listing query.
func (s *Session) requireAuth() error {
	if s.account == nil {
		return models.ErrAccessDenied
	}
	return nil
}

// SessionID returns the session's unique identifier.
func (s *Session) SessionID() string {
	return s.id
}

// CurrentAccountName returns the authenticated account's display name,
// or a guest marker.
func (s *Session) CurrentAccountName() string {
	if s.account == nil {
		return "[guest session]"
	}
	return s.account.DisplayName
}

// CurrentBalance returns the authenticated account's balance.
func (s *Session) CurrentBalance() (float64, bool) {
	if s.account == nil {
		return 0, false
	}
	return s.account.Balance, true
}

// CurrentDayIndex returns the authenticated account's day counter.
func (s *Session) CurrentDayIndex() (int, bool) {
	if s.account == nil {
		return 0, false
	}
	return s.account.Day, true
}

// VirtualTime is the ledger's notion of "now": real time shifted
// forward by (day - 1) whole days, so advancing the day moves
// displayed time without waiting for a wall-clock boundary.
func (s *Session) VirtualTime() time.Time {
	day := 1
	if s.ledger != nil {
		day = s.ledger.Day
	}
	return s.clock().AddDate(0, 0, day-1)
}

// ServerTimeDisplay formats the ledger's virtual time for the caller.
func (s *Session) ServerTimeDisplay() string {
	return s.VirtualTime().Format(time.UnixDate)
}

// header is the "last update at" line prefixed to every listing.
func (s *Session) header() string {
	return fmt.Sprintf("last update at: %s\n", s.ledger.LastEdit.Format(time.UnixDate))
}
