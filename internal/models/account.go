package models

import "regexp"

var userNamePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// Account is one trading account in the shared ledger. Credentials are
// plaintext and compared by exact equality. Profit is derived from the
// account's lots against current market prices and persisted
// opportunistically by the leaderboard computation.
type Account struct {
	UserName    string      `json:"username"`
	Password    string      `json:"password"`
	DisplayName string      `json:"display_name"`
	Balance     float64     `json:"balance"`
	Positions   []*Position `json:"positions"`
	Day         int         `json:"day"`
	Profit      float64     `json:"profit"`
}

// NewAccount validates and constructs an Account with no positions.
func NewAccount(userName, password, displayName string, balance float64, day int) (*Account, error) {
	a := &Account{
		UserName:    userName,
		Password:    password,
		DisplayName: displayName,
		Balance:     balance,
		Positions:   []*Position{},
		Day:         day,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the Account rep invariant, including every held lot.
func (a *Account) Validate() error {
	if !userNamePattern.MatchString(a.UserName) {
		return newValidationError("account", "username", a.UserName)
	}
	if a.Password == "" {
		return newValidationError("account", "password", a.Password)
	}
	if a.DisplayName == "" {
		return newValidationError("account", "display_name", a.DisplayName)
	}
	if a.Balance < 0 {
		return newValidationError("account", "balance", a.Balance)
	}
	if a.Day < 1 {
		return newValidationError("account", "day", a.Day)
	}
	for _, p := range a.Positions {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ProfitAgainst sums quantity*(currentPrice-purchasePrice) over the
// account's lots at the given market prices. Lots of the same stock
// are aggregated for this derived figure even though they remain
// separate positions.
func (a *Account) ProfitAgainst(stocks []*Stock) float64 {
	prices := make(map[string]float64, len(stocks))
	for _, s := range stocks {
		prices[s.ID] = s.CurrentPrice
	}

	perStock := make(map[string]float64)
	for _, p := range a.Positions {
		current, ok := prices[p.StockID]
		if !ok {
			continue
		}
		perStock[p.StockID] += float64(p.Quantity) * (current - p.PurchasePrice)
	}

	var total float64
	for _, profit := range perStock {
		total += profit
	}
	return total
}
