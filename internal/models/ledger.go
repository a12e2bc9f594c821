package models

import "time"

// BootstrapEditor is the sentinel editor identity written by the
// bootstrap seeder. It can never collide with a real account because
// usernames are alphanumeric only. A slot carrying this editor has
// never been edited by a real session, so no snapshot of it is stale.
const BootstrapEditor = "__bootstrap__"

// Meta is the conflict-detection tuple of a persisted ledger: when it
// was last written and by whom.
type Meta struct {
	LastEdit time.Time `json:"last_edit"`
	Editor   string    `json:"editor"`
}

// Ledger is the full persisted state of the shared trading ledger and
// the unit of persistence. Sessions hold one in memory and rewrite the
// slot wholesale on every committed mutation.
type Ledger struct {
	LastEdit time.Time  `json:"last_edit"`
	Editor   string     `json:"editor"`
	Accounts []*Account `json:"accounts"`
	Stocks   []*Stock   `json:"stocks"`
	Day      int        `json:"day"`
}

// Meta returns the ledger's conflict-detection tuple.
func (l *Ledger) Meta() Meta {
	return Meta{LastEdit: l.LastEdit, Editor: l.Editor}
}

// StockByID returns the ledger's stock with the given ID, or nil.
func (l *Ledger) StockByID(id string) *Stock {
	for _, s := range l.Stocks {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// AccountByName returns the account with the given username, or nil.
func (l *Ledger) AccountByName(userName string) *Account {
	for _, a := range l.Accounts {
		if a.UserName == userName {
			return a
		}
	}
	return nil
}

// FindAccount returns the account matching both username and password
// by exact equality, or nil.
func (l *Ledger) FindAccount(userName, password string) *Account {
	a := l.AccountByName(userName)
	if a == nil || a.Password != password {
		return nil
	}
	return a
}

// Validate checks the ledger rep invariant: a positive day counter,
// unique valid accounts, valid stocks, and every position referencing
// a stock present in the ledger.
func (l *Ledger) Validate() error {
	if l.Day < 1 {
		return newValidationError("ledger", "day", l.Day)
	}
	if l.Editor == "" {
		return newValidationError("ledger", "editor", l.Editor)
	}

	ids := make(map[string]bool, len(l.Stocks))
	for _, s := range l.Stocks {
		if err := s.Validate(); err != nil {
			return err
		}
		ids[s.ID] = true
	}

	names := make(map[string]bool, len(l.Accounts))
	for _, a := range l.Accounts {
		if err := a.Validate(); err != nil {
			return err
		}
		if names[a.UserName] {
			return newValidationError("ledger", "username", a.UserName)
		}
		names[a.UserName] = true
		for _, p := range a.Positions {
			if !ids[p.StockID] {
				return newValidationError("ledger", "position stock", p.StockID)
			}
		}
	}
	return nil
}
