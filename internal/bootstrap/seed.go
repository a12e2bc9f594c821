// Package bootstrap produces the initial persisted ledger snapshot.
// It must run once before any session uses a slot; it writes the
// bootstrap sentinel as editor so the first real session never finds
// the slot stale.
package bootstrap

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"tradeledger/internal/common"
	"tradeledger/internal/interfaces"
	"tradeledger/internal/models"
)

// Seeder builds the initial ledger: a fixed roster of accounts with
// randomized starting balances, a fixed roster of named stocks plus
// randomly-named filler stocks with randomized price and quantity.
type Seeder struct {
	rng   *rand.Rand
	clock func() time.Time
}

// Option configures a Seeder.
type Option func(*Seeder)

// WithRand injects the random source used for balances, prices and
// generated stock names.
func WithRand(rng *rand.Rand) Option {
	return func(s *Seeder) { s.rng = rng }
}

// WithClock injects the seeder's time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Seeder) { s.clock = clock }
}

// NewSeeder creates a Seeder with ambient randomness and wall-clock time.
func NewSeeder(opts ...Option) *Seeder {
	s := &Seeder{
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// seedAccounts is the fixed account roster. Runtime account creation
// is out of scope, so this is the complete user population.
var seedAccounts = []struct {
	userName, password, displayName string
}{
	{"tuan", "123", "tuanPQ"},
	{"congnv", "wpr", "congNV"},
	{"thangnx", "ss1", "thangNX"},
	{"camnh", "dbs", "camNH"},
	{"quandd", "se1", "quanDD"},
}

// seedStocks is the fixed stock roster.
var seedStocks = []struct {
	id, companyName string
	price           float64
	quantity        int
}{
	{"COMP", "composite.,ltd", 12.88, 12},
	{"NDX", "noDogex", 11.3, 103},
	{"SPX", "sp500", 3.25, 1500},
	{"INDU", "india adu", 10.25, 50},
	{"TLA", "Tesla", 100.163, 15},
}

// fillerStockCount is how many randomly-named stocks pad the market.
const fillerStockCount = 5

// randomBalance returns a starting balance in [20.1, 30.0].
func (s *Seeder) randomBalance() float64 {
	return math.Ceil(s.rng.Float64()*100+200) / 10
}

// randomStockPrice returns a price in [1.1, 20.0].
func (s *Seeder) randomStockPrice() float64 {
	return math.Ceil(s.rng.Float64()*190+10) / 10
}

// randomQuantity returns an available quantity in [100, 1000).
func (s *Seeder) randomQuantity() int {
	return s.rng.IntN(900) + 100
}

// randomStockID returns a random 3-letter uppercase identifier.
func (s *Seeder) randomStockID() string {
	b := make([]byte, 3)
	for i := range b {
		b[i] = byte('A' + s.rng.IntN(26))
	}
	return string(b)
}

// randomCompanyName returns a 6-letter name of doubled random letters.
func (s *Seeder) randomCompanyName() string {
	b := make([]byte, 0, 6)
	for i := 0; i < 3; i++ {
		c := byte('A' + s.rng.IntN(26))
		b = append(b, c, c)
	}
	return string(b)
}

// Ledger builds the initial snapshot: day 1, sentinel editor.
func (s *Seeder) Ledger() (*models.Ledger, error) {
	accounts := make([]*models.Account, 0, len(seedAccounts))
	for _, sa := range seedAccounts {
		a, err := models.NewAccount(sa.userName, sa.password, sa.displayName, s.randomBalance(), 1)
		if err != nil {
			return nil, fmt.Errorf("failed to seed account %q: %w", sa.userName, err)
		}
		accounts = append(accounts, a)
	}

	stocks := make([]*models.Stock, 0, len(seedStocks)+fillerStockCount)
	for _, ss := range seedStocks {
		st, err := models.NewStock(ss.id, ss.companyName, ss.price, ss.quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to seed stock %q: %w", ss.id, err)
		}
		stocks = append(stocks, st)
	}
	for i := 0; i < fillerStockCount; i++ {
		st, err := models.NewStock(s.randomStockID(), s.randomCompanyName(), s.randomStockPrice(), s.randomQuantity())
		if err != nil {
			return nil, fmt.Errorf("failed to seed filler stock: %w", err)
		}
		stocks = append(stocks, st)
	}

	ledger := &models.Ledger{
		LastEdit: s.clock(),
		Editor:   models.BootstrapEditor,
		Accounts: accounts,
		Stocks:   stocks,
		Day:      1,
	}
	if err := ledger.Validate(); err != nil {
		return nil, fmt.Errorf("seeded ledger invalid: %w", err)
	}
	return ledger, nil
}

// Seed builds the initial ledger and writes it to the slot,
// overwriting any existing contents.
func Seed(ctx context.Context, store interfaces.LedgerStore, slot string, logger *common.Logger, opts ...Option) error {
	ledger, err := NewSeeder(opts...).Ledger()
	if err != nil {
		return err
	}
	if err := store.Save(ctx, slot, ledger); err != nil {
		return fmt.Errorf("failed to write seeded ledger: %w", err)
	}
	logger.Info().
		Str("slot", slot).
		Int("accounts", len(ledger.Accounts)).
		Int("stocks", len(ledger.Stocks)).
		Msg("Ledger slot seeded")
	return nil
}
