package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "swapd",
		Short:        "Constant-product exchange engine",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	applyCmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply an operation log through the engine",
		RunE:  runApply,
	}

	applyCmd.Flags().String("in", "", "input operations JSONL")
	applyCmd.Flags().String("events-out", "./data/events.jsonl", "output events JSONL path")
	applyCmd.Flags().String("checkpoint", "./data/checkpoint.json", "checkpoint file path")
	applyCmd.Flags().Bool("checkpoint-enabled", true, "enable checkpointing")
	applyCmd.Flags().Int("batch-size", 500, "operations per batch")
	applyCmd.Flags().String("pg-dsn", "", "Postgres DSN for state snapshots (optional)")
	applyCmd.Flags().String("state-name", "replay", "state name for Postgres snapshots")
	applyCmd.Flags().String("custody-address", "0x0000000000000000000000000000000000000001", "ledger custody address")
	applyCmd.Flags().Int("max-retries", 5, "maximum retry attempts for snapshot writes")
	applyCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	applyCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(applyCmd)

	poolIDCmd := &cobra.Command{
		Use:   "pool-id",
		Short: "Compute the canonical pool id for an asset pair and fee",
		RunE:  runPoolID,
	}

	poolIDCmd.Flags().String("asset-a", "", "first asset (\"native\" or hex address)")
	poolIDCmd.Flags().String("asset-b", "", "second asset (\"native\" or hex address)")
	poolIDCmd.Flags().Uint32("fee", 0, "fee in parts per ten thousand")

	root.AddCommand(poolIDCmd)

	quoteSwapCmd := &cobra.Command{
		Use:   "quote-swap",
		Short: "Quote a swap against given reserves",
		RunE:  runQuoteSwap,
	}

	quoteSwapCmd.Flags().String("reserve-in", "", "input-side reserve")
	quoteSwapCmd.Flags().String("reserve-out", "", "output-side reserve")
	quoteSwapCmd.Flags().Uint32("fee", 0, "fee in parts per ten thousand")
	quoteSwapCmd.Flags().String("input", "", "input amount")

	root.AddCommand(quoteSwapCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
