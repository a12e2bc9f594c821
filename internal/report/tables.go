// Package report renders tabular text views over ledger entities. It
// consumes plain entity fields and holds no business logic.
package report

import (
	"fmt"
	"strings"
	"time"

	"tradeledger/internal/models"
)

// rule returns a horizontal rule matching the width of a header row.
func rule(header string) string {
	return strings.Repeat("-", len(header)-1) + "\n"
}

// StockTable renders the market listing. Row numbers are the 1-based
// stock numbers quoted to Purchase.
func StockTable(stocks []*models.Stock) string {
	var sb strings.Builder

	header := fmt.Sprintf("| %3.3s | %10.10s | %20.20s | %14.14s | %8.8s |\n",
		"No.", "Stock ID", "Company", "Price", "Quantity")
	sb.WriteString(rule(header))
	sb.WriteString(header)
	sb.WriteString(rule(header))

	for i, s := range stocks {
		sb.WriteString(fmt.Sprintf("| %3d | %10.10s | %20.20s | %14.2f | %8d |\n",
			i+1, s.ID, s.CompanyName, s.CurrentPrice, s.AvailableQuantity))
	}
	sb.WriteString(rule(header))
	return sb.String()
}

// PositionTable renders an account's lots. Row numbers are the 1-based
// position numbers quoted to Sell.
func PositionTable(positions []*models.Position) string {
	var sb strings.Builder

	header := fmt.Sprintf("| %3.3s | %10.10s | %20.20s | %14.14s | %8.8s | %42.42s |\n",
		"No.", "Stock ID", "Company", "Purchase price", "Quantity", "Purchased at")
	sb.WriteString(rule(header))
	sb.WriteString(header)
	sb.WriteString(rule(header))

	for i, p := range positions {
		when := fmt.Sprintf("(Day %d) %s", p.PurchaseDay, p.PurchasedAt.Format(time.UnixDate))
		sb.WriteString(fmt.Sprintf("| %3d | %10.10s | %20.20s | %14.2f | %8d | %42.42s |\n",
			i+1, p.StockID, p.CompanyName, p.PurchasePrice, p.Quantity, when))
	}
	sb.WriteString(rule(header))
	return sb.String()
}

// TrackTable renders current price against purchase price per lot,
// with the lot's profit at current market prices.
func TrackTable(positions []*models.Position, stocks []*models.Stock) string {
	prices := make(map[string]float64, len(stocks))
	for _, s := range stocks {
		prices[s.ID] = s.CurrentPrice
	}

	var sb strings.Builder

	header := fmt.Sprintf("| %3.3s | %10.10s | %20.20s | %14.14s | %14.14s | %14.14s |\n",
		"No.", "Stock ID", "Company", "Current price", "Purchase price", "Profit")
	sb.WriteString(rule(header))
	sb.WriteString(header)
	sb.WriteString(rule(header))

	for i, p := range positions {
		current := prices[p.StockID]
		profit := float64(p.Quantity) * (current - p.PurchasePrice)
		sb.WriteString(fmt.Sprintf("| %3d | %10.10s | %20.20s | %14.2f | %14.2f | %14.2f |\n",
			i+1, p.StockID, p.CompanyName, current, p.PurchasePrice, profit))
	}
	sb.WriteString(rule(header))
	return sb.String()
}

// LeaderboardTable renders accounts in the order given (already ranked
// by the caller).
func LeaderboardTable(accounts []*models.Account) string {
	var sb strings.Builder

	header := fmt.Sprintf("| %3.3s | %12.12s | %14.14s | %14.14s | %6.6s |\n",
		"No.", "User", "Balance", "Profit", "Days")
	sb.WriteString(rule(header))
	sb.WriteString(header)
	sb.WriteString(rule(header))

	for i, a := range accounts {
		sb.WriteString(fmt.Sprintf("| %3d | %12.12s | %14.2f | %14.2f | %6d |\n",
			i+1, a.UserName, a.Balance, a.Profit, a.Day))
	}
	sb.WriteString(rule(header))
	return sb.String()
}
