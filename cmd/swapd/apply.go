package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"swapEngine/internal/asset"
	"swapEngine/internal/config"
	"swapEngine/internal/engine"
	"swapEngine/internal/replay"
	"swapEngine/internal/storage"
	"swapEngine/internal/storage/postgres"
)

func runApply(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.In == "" {
		return fmt.Errorf("input path is required")
	}
	if !common.IsHexAddress(cfg.CustodyAddress) {
		return fmt.Errorf("invalid custody address: %s", cfg.CustodyAddress)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ledger := asset.NewLedger(common.HexToAddress(cfg.CustodyAddress))
	buffer := replay.NewEventBuffer()
	eng := engine.New(ledger, buffer, logger)
	storageSink := storage.NewJsonlStorage(cfg.EventsOut)

	var snapshots replay.SnapshotStore
	if cfg.PgDSN != "" {
		pgStore, err := postgres.NewStore(ctx, cfg.PgDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pgStore.Close()
		snapshots = pgStore
	}

	runner := replay.NewRunner(replay.RunConfig{
		InputPath:         cfg.In,
		BatchSize:         cfg.BatchSize,
		CheckpointPath:    cfg.Checkpoint,
		CheckpointEnabled: cfg.CheckpointEnabled,
		MaxRetries:        cfg.MaxRetries,
		RetryBackoff:      cfg.RetryBackoff,
		StateName:         cfg.StateName,
	}, eng, ledger, buffer, storageSink, snapshots, logger)

	logger.Info("apply start",
		zap.String("in", cfg.In),
		zap.String("events_out", cfg.EventsOut),
		zap.Int("batch_size", cfg.BatchSize),
		zap.Bool("checkpoint_enabled", cfg.CheckpointEnabled),
		zap.String("checkpoint", cfg.Checkpoint),
		zap.Bool("pg_snapshots", snapshots != nil),
	)

	return runner.Run(ctx)
}
