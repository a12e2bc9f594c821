package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tradeledger/internal/common"
	"tradeledger/internal/interfaces"
	"tradeledger/internal/models"
	"tradeledger/internal/storage"
)

const testSlot = "info"

// seedLedger builds a small deterministic ledger: two accounts and two
// stocks, with bob already holding one lot of ACME bought below the
// current price.
func seedLedger(t *testing.T) *models.Ledger {
	t.Helper()

	alice, err := models.NewAccount("alice", "a1", "Alice", 100, 1)
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	bob, err := models.NewAccount("bob", "b2", "Bob", 50, 1)
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	acme, err := models.NewStock("ACME", "acme corp", 10, 50)
	if err != nil {
		t.Fatalf("stock: %v", err)
	}
	globx, err := models.NewStock("GLOBX", "globex", 4, 100)
	if err != nil {
		t.Fatalf("stock: %v", err)
	}
	lot, err := models.NewPosition(acme, 5, 8, time.Now(), 1)
	if err != nil {
		t.Fatalf("position: %v", err)
	}
	bob.Positions = append(bob.Positions, lot)

	ledger := &models.Ledger{
		LastEdit: time.Now(),
		Editor:   models.BootstrapEditor,
		Accounts: []*models.Account{alice, bob},
		Stocks:   []*models.Stock{acme, globx},
		Day:      1,
	}
	if err := ledger.Validate(); err != nil {
		t.Fatalf("seed ledger invalid: %v", err)
	}
	return ledger
}

// newEnv writes a seeded ledger into a fresh store and returns the store.
func newEnv(t *testing.T) *storage.FileStore {
	t.Helper()
	store, err := storage.NewFileStore(common.NewSilentLogger(), t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := store.Save(context.Background(), testSlot, seedLedger(t)); err != nil {
		t.Fatalf("seed save: %v", err)
	}
	return store
}

func newTestSession(t *testing.T, store interfaces.LedgerStore, opts ...Option) *Session {
	t.Helper()
	sess := New(store, testSlot, common.NewSilentLogger(), opts...)
	if err := sess.Refresh(context.Background()); err != nil {
		t.Fatalf("initial refresh: %v", err)
	}
	return sess
}

func login(t *testing.T, sess *Session, user, pass string) {
	t.Helper()
	if err := sess.Authenticate(context.Background(), user, pass); err != nil {
		t.Fatalf("login %s: %v", user, err)
	}
}

func TestAuthenticate(t *testing.T) {
	sess := newTestSession(t, newEnv(t))
	ctx := context.Background()

	if sess.IsAuthenticated() {
		t.Fatal("new session should be unauthenticated")
	}
	if name := sess.CurrentAccountName(); name != "[guest session]" {
		t.Errorf("guest name = %q", name)
	}

	if err := sess.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, ErrLoginFailed) {
		t.Fatalf("wrong password: err = %v, want ErrLoginFailed", err)
	}
	if sess.IsAuthenticated() {
		t.Fatal("failed login left the session authenticated")
	}

	if err := sess.Authenticate(ctx, "alice", "a1"); err != nil {
		t.Fatalf("valid login failed: %v", err)
	}
	if !sess.IsAuthenticated() || sess.CurrentAccountName() != "Alice" {
		t.Errorf("session state after login: auth=%v name=%q", sess.IsAuthenticated(), sess.CurrentAccountName())
	}
	if balance, ok := sess.CurrentBalance(); !ok || balance != 100 {
		t.Errorf("CurrentBalance = %v, %v", balance, ok)
	}
	if day, ok := sess.CurrentDayIndex(); !ok || day != 1 {
		t.Errorf("CurrentDayIndex = %v, %v", day, ok)
	}
}

func TestAuthenticate_AlreadyLoggedIn(t *testing.T) {
	sess := newTestSession(t, newEnv(t))
	login(t, sess, "alice", "a1")

	// Credentials are not re-checked once an account is held, even
	// nonsense ones.
	if err := sess.Authenticate(context.Background(), "nobody", "nope"); !errors.Is(err, ErrAlreadyLoggedIn) {
		t.Fatalf("second login: err = %v, want ErrAlreadyLoggedIn", err)
	}
	if sess.CurrentAccountName() != "Alice" {
		t.Errorf("second login changed the account to %q", sess.CurrentAccountName())
	}
}

func TestDeauthenticate(t *testing.T) {
	sess := newTestSession(t, newEnv(t))
	login(t, sess, "alice", "a1")

	sess.Deauthenticate()
	if sess.IsAuthenticated() {
		t.Fatal("still authenticated after sign out")
	}
	if _, ok := sess.CurrentBalance(); ok {
		t.Error("guest session reported a balance")
	}

	// Signing out twice is a no-op.
	sess.Deauthenticate()

	if err := sess.Authenticate(context.Background(), "bob", "b2"); err != nil {
		t.Fatalf("re-login after sign out: %v", err)
	}
}

func TestAuthenticate_LazyLoad(t *testing.T) {
	// Authenticate on a session that never called Refresh loads the
	// snapshot itself.
	sess := New(newEnv(t), testSlot, common.NewSilentLogger())
	if err := sess.Authenticate(context.Background(), "alice", "a1"); err != nil {
		t.Fatalf("login on unloaded session: %v", err)
	}
}

func TestRefresh_ReResolvesAccount(t *testing.T) {
	store := newEnv(t)
	sess := newTestSession(t, store)
	login(t, sess, "alice", "a1")
	ctx := context.Background()

	// Another party changes alice's password in the slot. The next
	// refresh can no longer resolve the held credentials and the
	// session silently drops to guest.
	ledger, err := store.Load(ctx, testSlot)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ledger.AccountByName("alice").Password = "rotated"
	if err := store.Save(ctx, testSlot, ledger); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := sess.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if sess.IsAuthenticated() {
		t.Fatal("session kept an account whose credentials no longer match")
	}
}

func TestRefresh_LoadFailureKeepsState(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewFileStore(common.NewSilentLogger(), dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()
	if err := store.Save(ctx, testSlot, seedLedger(t)); err != nil {
		t.Fatalf("seed save: %v", err)
	}
	sess := newTestSession(t, store)
	login(t, sess, "alice", "a1")

	if err := os.WriteFile(filepath.Join(dir, testSlot+".json"), []byte("garbage"), 0644); err != nil {
		t.Fatalf("corrupt slot: %v", err)
	}

	if err := sess.Refresh(ctx); err == nil {
		t.Fatal("refresh over a corrupt slot succeeded")
	}
	if !sess.IsAuthenticated() {
		t.Error("failed refresh dropped the account")
	}
	if balance, ok := sess.CurrentBalance(); !ok || balance != 100 {
		t.Errorf("failed refresh disturbed the snapshot: balance = %v, %v", balance, ok)
	}
}

func TestVirtualTime(t *testing.T) {
	now := time.Date(2026, time.March, 1, 9, 30, 0, 0, time.UTC)
	store := newEnv(t)
	ctx := context.Background()

	ledger, err := store.Load(ctx, testSlot)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ledger.Day = 3
	if err := store.Save(ctx, testSlot, ledger); err != nil {
		t.Fatalf("save: %v", err)
	}

	sess := newTestSession(t, store, WithClock(func() time.Time { return now }))
	want := now.AddDate(0, 0, 2)
	if got := sess.VirtualTime(); !got.Equal(want) {
		t.Errorf("VirtualTime = %v, want %v", got, want)
	}
	if got := sess.ServerTimeDisplay(); got != want.Format(time.UnixDate) {
		t.Errorf("ServerTimeDisplay = %q", got)
	}
}

func TestListings(t *testing.T) {
	sess := newTestSession(t, newEnv(t))
	ctx := context.Background()

	if _, err := sess.ListStocks(ctx); !errors.Is(err, models.ErrAccessDenied) {
		t.Fatalf("guest ListStocks err = %v, want ErrAccessDenied", err)
	}

	login(t, sess, "bob", "b2")

	stocks, err := sess.ListStocks(ctx)
	if err != nil {
		t.Fatalf("ListStocks: %v", err)
	}
	if !strings.HasPrefix(stocks, "last update at: ") {
		t.Errorf("listing missing header: %q", stocks)
	}
	for _, want := range []string{"ACME", "GLOBX", "acme corp"} {
		if !strings.Contains(stocks, want) {
			t.Errorf("stock listing missing %q:\n%s", want, stocks)
		}
	}

	positions, err := sess.ListPositions(ctx)
	if err != nil {
		t.Fatalf("ListPositions: %v", err)
	}
	if !strings.Contains(positions, "acme corp") {
		t.Errorf("position listing missing lot:\n%s", positions)
	}

	track, err := sess.TrackPositions(ctx)
	if err != nil {
		t.Fatalf("TrackPositions: %v", err)
	}
	// 5 units bought at 8, current price 10.
	if !strings.Contains(track, "10") {
		t.Errorf("track report missing current price:\n%s", track)
	}
}

func TestSessionID_Unique(t *testing.T) {
	store := newEnv(t)
	a := newTestSession(t, store)
	b := newTestSession(t, store)
	if a.SessionID() == "" || a.SessionID() == b.SessionID() {
		t.Errorf("session ids not unique: %q vs %q", a.SessionID(), b.SessionID())
	}
}
