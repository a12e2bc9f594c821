package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/banner"
)

// PrintBanner displays the application startup banner to stderr.
func PrintBanner(config *Config, logger *Logger) {
	version := GetVersion()
	slot := config.Storage.Slot
	dataPath := config.Storage.Path

	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	width := 64
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	art := []string{
		` 88888888888 888       8888888888 888888b.  .d8888b.  8888888b.`,
		`     888     888       888        888  "88b d88P  Y88b 888   Y88b`,
		`     888     888       888        888  .88P 888    888 888    888`,
		`     888     888       8888888    8888888K. 888        888   d88P`,
		`     888     888       888        888  "Y88b 888  8888 8888888P"`,
		`     888     888       888        888    888 888    888 888 T88b`,
		`     888     888       888        888   d88P Y88b  d88P 888  T88b`,
		`     888     88888888  8888888888 8888888P"   "Y8888P"  888   T88b`,
	}

	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)
	for _, line := range art {
		fmt.Fprintf(os.Stderr, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(os.Stderr, "\n%s  Shared-Ledger Paper Trading%s\n", textColor, banner.ColorReset)
	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)

	kvPad := 14
	kvLines := [][2]string{
		{"Version", version},
		{"Build", GetBuild()},
		{"Environment", config.Environment},
		{"Data Path", dataPath},
		{"Slot", slot},
	}
	for _, kv := range kvLines {
		fmt.Fprintf(os.Stderr, "%s  %-*s %s%s\n", textColor, kvPad, kv[0], kv[1], banner.ColorReset)
	}

	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)

	logger.Info().
		Str("version", version).
		Str("environment", config.Environment).
		Str("data_path", dataPath).
		Str("slot", slot).
		Msg("Application started")
}
