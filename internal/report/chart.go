package report

import (
	"bytes"
	"errors"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"

	"tradeledger/internal/models"
)

// LeaderboardChart renders account balances as a PNG bar chart, in the
// order given by the caller.
func LeaderboardChart(accounts []*models.Account) ([]byte, error) {
	if len(accounts) == 0 {
		return nil, errors.New("no accounts to chart")
	}

	bars := make([]chart.Value, 0, len(accounts))
	for _, a := range accounts {
		bars = append(bars, chart.Value{
			Label: a.UserName,
			Value: a.Balance,
		})
	}

	bc := chart.BarChart{
		Title:    "Account balances",
		Width:    1024,
		Height:   512,
		BarWidth: 60,
		Bars:     bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render leaderboard chart: %w", err)
	}
	return buf.Bytes(), nil
}
