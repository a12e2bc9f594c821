package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tradeledger/internal/bootstrap"
	"tradeledger/internal/common"
	"tradeledger/internal/interfaces"
	"tradeledger/internal/report"
	"tradeledger/internal/session"
	"tradeledger/internal/storage"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "tradeledger",
	Short: "Shared-ledger paper trading over a single slot file",
	Long: `tradeledger is a paper-trading ledger persisted to a shared file slot.
Independent sessions read and rewrite the slot with optimistic
conflict detection: a session whose snapshot has gone stale has its
commit rejected and is refreshed to the current state.`,
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Seed the ledger slot with the initial accounts and stocks",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, logger, err := loadApp()
		if err != nil {
			return err
		}
		store, err := storage.NewFileStore(logger, config.Storage.Path)
		if err != nil {
			return err
		}
		return bootstrap.Seed(cmd.Context(), store, config.Storage.Slot, logger)
	},
}

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Run the interactive trading console",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, logger, err := loadApp()
		if err != nil {
			return err
		}
		common.PrintBanner(config, logger)

		store, err := storage.NewFileStore(logger, config.Storage.Path)
		if err != nil {
			return err
		}
		sess := session.New(store, config.Storage.Slot, logger)
		if err := sess.Refresh(cmd.Context()); err != nil {
			return fmt.Errorf("cannot open ledger slot (run `tradeledger setup` first): %w", err)
		}
		return runConsole(cmd.Context(), sess)
	},
}

var topCmd = &cobra.Command{
	Use:   "top [username] [password]",
	Short: "Print the account leaderboard",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, _, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		if err := sess.Authenticate(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		text, err := sess.RankAccounts(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Print(text)
		return nil
	},
}

var chartOut string

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render the leaderboard as a PNG bar chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, logger, err := loadApp()
		if err != nil {
			return err
		}
		store, err := storage.NewFileStore(logger, config.Storage.Path)
		if err != nil {
			return err
		}
		ledger, err := store.Load(cmd.Context(), config.Storage.Slot)
		if err != nil {
			return err
		}
		png, err := report.LeaderboardChart(ledger.Accounts)
		if err != nil {
			return err
		}
		if err := store.WriteRaw("charts", chartOut, png); err != nil {
			return err
		}
		fmt.Printf("chart written to %s\n", filepath.Join(config.Storage.Path, "charts", chartOut))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(common.GetFullVersion())
	},
}

// loadApp loads config and builds the logger.
func loadApp() (*common.Config, *common.Logger, error) {
	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := common.NewLogger(config.Logging.Level)
	return config, logger, nil
}

// openSession builds a FileStore-backed session and loads the slot.
func openSession(ctx context.Context) (interfaces.TradingSession, *common.Config, error) {
	config, logger, err := loadApp()
	if err != nil {
		return nil, nil, err
	}
	store, err := storage.NewFileStore(logger, config.Storage.Path)
	if err != nil {
		return nil, nil, err
	}
	sess := session.New(store, config.Storage.Slot, logger)
	if err := sess.Refresh(ctx); err != nil {
		return nil, nil, fmt.Errorf("cannot open ledger slot (run `tradeledger setup` first): %w", err)
	}
	return sess, config, nil
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "tradeledger.toml", "path to config file")
	chartCmd.Flags().StringVarP(&chartOut, "out", "o", "leaderboard.png", "chart output filename")

	rootCmd.AddCommand(setupCmd, consoleCmd, topCmd, chartCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
