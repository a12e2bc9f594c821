package bootstrap

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"tradeledger/internal/common"
	"tradeledger/internal/models"
	"tradeledger/internal/storage"
)

func newSeeder(t *testing.T) *Seeder {
	t.Helper()
	return NewSeeder(
		WithRand(rand.New(rand.NewPCG(1, 2))),
		WithClock(func() time.Time {
			return time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
		}),
	)
}

func TestSeeder_Ledger(t *testing.T) {
	ledger, err := newSeeder(t).Ledger()
	if err != nil {
		t.Fatalf("Ledger failed: %v", err)
	}

	if ledger.Day != 1 {
		t.Errorf("Day = %d, want 1", ledger.Day)
	}
	if ledger.Editor != models.BootstrapEditor {
		t.Errorf("Editor = %q, want the bootstrap sentinel", ledger.Editor)
	}
	if len(ledger.Accounts) != 5 {
		t.Errorf("accounts = %d, want 5", len(ledger.Accounts))
	}
	if len(ledger.Stocks) != 10 {
		t.Errorf("stocks = %d, want 10 (5 named + 5 filler)", len(ledger.Stocks))
	}
	if err := ledger.Validate(); err != nil {
		t.Errorf("seeded ledger invalid: %v", err)
	}

	if a := ledger.FindAccount("tuan", "123"); a == nil {
		t.Error("roster account tuan missing or credentials wrong")
	}
	if s := ledger.StockByID("TLA"); s == nil || s.CurrentPrice != 100.163 {
		t.Errorf("roster stock TLA = %+v", s)
	}
}

func TestSeeder_RandomizedRanges(t *testing.T) {
	ledger, err := newSeeder(t).Ledger()
	if err != nil {
		t.Fatalf("Ledger failed: %v", err)
	}

	for _, a := range ledger.Accounts {
		if a.Balance < 20.1 || a.Balance > 30.0 {
			t.Errorf("balance %v for %s outside [20.1, 30.0]", a.Balance, a.UserName)
		}
		if a.Day != 1 {
			t.Errorf("account %s starts at day %d", a.UserName, a.Day)
		}
		if len(a.Positions) != 0 {
			t.Errorf("account %s seeded with positions", a.UserName)
		}
	}

	// Filler stocks follow the named roster.
	for _, s := range ledger.Stocks[5:] {
		if len(s.ID) != 3 {
			t.Errorf("filler stock id %q not 3 letters", s.ID)
		}
		for _, c := range s.ID {
			if c < 'A' || c > 'Z' {
				t.Errorf("filler stock id %q not uppercase", s.ID)
			}
		}
		if s.CurrentPrice < 1.1 || s.CurrentPrice > 20.0 {
			t.Errorf("filler price %v outside [1.1, 20.0]", s.CurrentPrice)
		}
		if s.AvailableQuantity < 100 || s.AvailableQuantity >= 1000 {
			t.Errorf("filler quantity %d outside [100, 1000)", s.AvailableQuantity)
		}
	}
}

func TestSeeder_Deterministic(t *testing.T) {
	a, err := newSeeder(t).Ledger()
	if err != nil {
		t.Fatalf("Ledger failed: %v", err)
	}
	b, err := newSeeder(t).Ledger()
	if err != nil {
		t.Fatalf("Ledger failed: %v", err)
	}

	for i := range a.Accounts {
		if a.Accounts[i].Balance != b.Accounts[i].Balance {
			t.Errorf("balances diverge for identical seeds: %v vs %v",
				a.Accounts[i].Balance, b.Accounts[i].Balance)
		}
	}
	for i := range a.Stocks {
		if a.Stocks[i].ID != b.Stocks[i].ID || a.Stocks[i].CurrentPrice != b.Stocks[i].CurrentPrice {
			t.Errorf("stocks diverge for identical seeds: %+v vs %+v", a.Stocks[i], b.Stocks[i])
		}
	}
}

func TestSeed_WritesSlot(t *testing.T) {
	store, err := storage.NewFileStore(common.NewSilentLogger(), t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()

	if err := Seed(ctx, store, "info", common.NewSilentLogger()); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	ledger, err := store.Load(ctx, "info")
	if err != nil {
		t.Fatalf("Load after seed: %v", err)
	}
	if ledger.Editor != models.BootstrapEditor {
		t.Errorf("persisted editor = %q", ledger.Editor)
	}
	if err := ledger.Validate(); err != nil {
		t.Errorf("persisted ledger invalid: %v", err)
	}
}
