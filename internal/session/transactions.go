package session

import (
	"context"
	"errors"
	"slices"
	"sort"

	"tradeledger/internal/interfaces"
	"tradeledger/internal/models"
	"tradeledger/internal/report"
)

// commit is the conflict-checked save every mutating operation ends
// with. It re-checks freshness against the slot's current on-disk
// metadata (not the metadata captured at refresh time), stamps the
// snapshot and writes it via compare-and-swap. On staleness the
// session refreshes, discarding the caller's in-memory mutation, and
// reports models.ErrStaleSnapshot; the caller retries by re-issuing
// the operation. Last writer wins; there is no merge.
func (s *Session) commit(ctx context.Context) error {
	current, err := s.store.LoadMeta(ctx, s.slot)
	if err != nil {
		return err
	}

	if !IsFresh(s.localMeta, current, s.account.UserName) {
		return s.rejectStale(ctx, current)
	}

	s.ledger.LastEdit = s.VirtualTime()
	s.ledger.Editor = s.account.UserName

	if err := s.store.CompareAndSwap(ctx, s.slot, current, s.ledger); err != nil {
		if errors.Is(err, interfaces.ErrConflict) {
			// A second writer landed between the freshness check and
			// the write.
			return s.rejectStale(ctx, current)
		}
		return err
	}

	s.localMeta = s.ledger.Meta()
	return nil
}

func (s *Session) rejectStale(ctx context.Context, current models.Meta) error {
	s.logger.Info().
		Str("slot", s.slot).
		Str("editor", current.Editor).
		Str("session", s.id).
		Msg("Commit rejected, snapshot stale")
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Forced refresh after stale commit failed")
	}
	return models.ErrStaleSnapshot
}

// Purchase buys quantity units of the stock listed at the 1-based
// stockNo. A zero quantity passes validation and commits a zero-effect
// transaction without appending a lot.
func (s *Session) Purchase(ctx context.Context, stockNo, quantity int) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	if err := s.Refresh(ctx); err != nil {
		return err
	}
	if err := s.requireAuth(); err != nil {
		return err
	}

	idx := stockNo - 1
	if idx < 0 || idx >= len(s.ledger.Stocks) {
		return models.NewTransactionError(models.ReasonUnknownStock)
	}
	stock := s.ledger.Stocks[idx]

	if quantity < 0 || quantity > stock.AvailableQuantity {
		return models.NewTransactionError(models.ReasonNotEnoughQuantity)
	}

	cost := stock.CurrentPrice * float64(quantity)
	if cost > s.account.Balance {
		return models.NewTransactionError(models.ReasonNotEnoughMoney)
	}

	if quantity > 0 {
		lot, err := models.NewPosition(stock, quantity, stock.CurrentPrice, s.clock(), s.ledger.Day)
		if err != nil {
			return err
		}
		s.account.Positions = append(s.account.Positions, lot)
	}

	stock.AvailableQuantity -= quantity
	s.account.Balance -= cost

	s.logger.Info().
		Str("username", s.account.UserName).
		Str("stock", stock.ID).
		Int("quantity", quantity).
		Float64("cost", cost).
		Msg("Purchase")
	return s.commit(ctx)
}

// Sell disposes quantity units of the lot listed at the 1-based
// positionNo in the account's current lot list. A full-quantity sale
// removes the lot; the balance is always credited at the stock's
// current market price and the quantity returned to the market.
func (s *Session) Sell(ctx context.Context, positionNo, quantity int) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	if err := s.Refresh(ctx); err != nil {
		return err
	}
	if err := s.requireAuth(); err != nil {
		return err
	}

	idx := positionNo - 1
	if idx < 0 || idx >= len(s.account.Positions) {
		return models.NewTransactionError(models.ReasonUnknownStock)
	}
	lot := s.account.Positions[idx]

	if quantity < 0 || quantity > lot.Quantity {
		return models.NewTransactionError(models.ReasonInvalidQuantity)
	}

	stock := s.ledger.StockByID(lot.StockID)
	if stock == nil {
		return models.NewTransactionError(models.ReasonUnknownStock)
	}

	if quantity == lot.Quantity {
		s.account.Positions = slices.Delete(s.account.Positions, idx, idx+1)
	} else {
		lot.Quantity -= quantity
	}

	proceeds := stock.CurrentPrice * float64(quantity)
	stock.AvailableQuantity += quantity
	s.account.Balance += proceeds

	s.logger.Info().
		Str("username", s.account.UserName).
		Str("stock", stock.ID).
		Int("quantity", quantity).
		Float64("proceeds", proceeds).
		Msg("Sale")
	return s.commit(ctx)
}

// AdvanceDay applies a random daily walk to every stock price, bounded
// to ±15%, and increments the global day counter and the account's day
// index.
func (s *Session) AdvanceDay(ctx context.Context) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	if err := s.Refresh(ctx); err != nil {
		return err
	}
	if err := s.requireAuth(); err != nil {
		return err
	}

	for _, stock := range s.ledger.Stocks {
		factor := 0.85 + s.rng.Float64()*0.3
		stock.CurrentPrice *= factor
	}

	s.ledger.Day++
	s.account.Day++

	s.logger.Info().Int("day", s.ledger.Day).Msg("Day advanced")
	return s.commit(ctx)
}

// RankAccounts produces the leaderboard: all accounts ordered by
// descending balance, ties broken by ascending day index (equal
// balance reached in fewer days ranks higher). Recomputed profits are
// persisted as a best-effort side effect; a stale commit does not fail
// the query, since the ordering is the contract and the persistence is
// incidental.
func (s *Session) RankAccounts(ctx context.Context) (string, error) {
	if err := s.requireAuth(); err != nil {
		return "", err
	}
	if err := s.Refresh(ctx); err != nil {
		return "", err
	}
	if err := s.requireAuth(); err != nil {
		return "", err
	}

	for _, a := range s.ledger.Accounts {
		a.Profit = a.ProfitAgainst(s.ledger.Stocks)
	}

	ranked := slices.Clone(s.ledger.Accounts)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Balance == ranked[j].Balance {
			return ranked[i].Day < ranked[j].Day
		}
		return ranked[i].Balance > ranked[j].Balance
	})

	text := s.header() + report.LeaderboardTable(ranked)

	if err := s.commit(ctx); err != nil && !errors.Is(err, models.ErrStaleSnapshot) {
		return "", err
	}
	return text, nil
}

// ListStocks returns the market listing as text rows.
func (s *Session) ListStocks(ctx context.Context) (string, error) {
	if err := s.requireAuth(); err != nil {
		return "", err
	}
	if err := s.Refresh(ctx); err != nil {
		return "", err
	}
	return s.header() + report.StockTable(s.ledger.Stocks), nil
}

// ListPositions returns the authenticated account's lots as text rows.
func (s *Session) ListPositions(ctx context.Context) (string, error) {
	if err := s.requireAuth(); err != nil {
		return "", err
	}
	if err := s.Refresh(ctx); err != nil {
		return "", err
	}
	if err := s.requireAuth(); err != nil {
		return "", err
	}
	return s.header() + report.PositionTable(s.account.Positions), nil
}

// TrackPositions returns current-vs-purchase price rows per lot.
func (s *Session) TrackPositions(ctx context.Context) (string, error) {
	if err := s.requireAuth(); err != nil {
		return "", err
	}
	if err := s.Refresh(ctx); err != nil {
		return "", err
	}
	if err := s.requireAuth(); err != nil {
		return "", err
	}
	return s.header() + report.TrackTable(s.account.Positions, s.ledger.Stocks), nil
}
