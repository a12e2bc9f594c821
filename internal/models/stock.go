// Package models defines data structures for tradeledger
package models

// Stock represents one tradable listing in the shared ledger.
// Identity is the ID; price and available quantity are the only
// mutable fields and are adjusted by transactions and day advances.
type Stock struct {
	ID                string  `json:"id"`
	CompanyName       string  `json:"company_name"`
	CurrentPrice      float64 `json:"current_price"`
	AvailableQuantity int     `json:"available_quantity"`
}

// NewStock validates and constructs a Stock.
func NewStock(id, companyName string, currentPrice float64, availableQuantity int) (*Stock, error) {
	s := &Stock{
		ID:                id,
		CompanyName:       companyName,
		CurrentPrice:      currentPrice,
		AvailableQuantity: availableQuantity,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the Stock rep invariant.
func (s *Stock) Validate() error {
	if len(s.ID) < 3 || len(s.ID) > 6 {
		return newValidationError("stock", "id", s.ID)
	}
	if len(s.CompanyName) < 1 || len(s.CompanyName) > 20 {
		return newValidationError("stock", "company_name", s.CompanyName)
	}
	if s.CurrentPrice < 0 {
		return newValidationError("stock", "current_price", s.CurrentPrice)
	}
	if s.AvailableQuantity < 0 {
		return newValidationError("stock", "available_quantity", s.AvailableQuantity)
	}
	return nil
}
