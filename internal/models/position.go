package models

import "time"

// minPurchaseTime is the epoch floor for purchase timestamps.
var minPurchaseTime = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// Position is one purchase lot. Lots of the same stock are never
// merged: every purchase appends a new Position, and a sale reduces or
// removes one specific lot. The lot references its stock by ID and
// resolves the current market price through the ledger's stock list.
type Position struct {
	StockID       string    `json:"stock_id"`
	CompanyName   string    `json:"company_name"`
	Quantity      int       `json:"quantity"`
	PurchasePrice float64   `json:"purchase_price"`
	PurchasedAt   time.Time `json:"purchased_at"`
	PurchaseDay   int       `json:"purchase_day"`
}

// NewPosition validates and constructs a purchase lot for the given stock.
func NewPosition(stock *Stock, quantity int, purchasePrice float64, purchasedAt time.Time, purchaseDay int) (*Position, error) {
	if stock == nil {
		return nil, newValidationError("position", "stock", nil)
	}
	p := &Position{
		StockID:       stock.ID,
		CompanyName:   stock.CompanyName,
		Quantity:      quantity,
		PurchasePrice: purchasePrice,
		PurchasedAt:   purchasedAt,
		PurchaseDay:   purchaseDay,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the Position rep invariant.
func (p *Position) Validate() error {
	if p.StockID == "" {
		return newValidationError("position", "stock_id", p.StockID)
	}
	if p.Quantity <= 0 {
		return newValidationError("position", "quantity", p.Quantity)
	}
	if p.PurchasePrice < 0 {
		return newValidationError("position", "purchase_price", p.PurchasePrice)
	}
	if !p.PurchasedAt.After(minPurchaseTime) {
		return newValidationError("position", "purchased_at", p.PurchasedAt)
	}
	if p.PurchaseDay < 1 {
		return newValidationError("position", "purchase_day", p.PurchaseDay)
	}
	return nil
}
