package replay

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"swapEngine/internal/asset"
	"swapEngine/internal/engine"
	"swapEngine/internal/model"
	"swapEngine/internal/storage"
)

// RunConfig holds runtime settings for the replay runner.
type RunConfig struct {
	InputPath         string
	BatchSize         int
	CheckpointPath    string
	CheckpointEnabled bool
	MaxRetries        int
	RetryBackoff      time.Duration
	StateName         string
}

// SnapshotStore persists engine state snapshots after a run.
type SnapshotStore interface {
	UpsertPools(ctx context.Context, pools []model.PoolRecord) error
	UpsertPositions(ctx context.Context, positions []model.PositionRecord) error
	SaveState(ctx context.Context, name string, seq uint64) error
}

// EventBuffer collects committed engine events until the runner flushes
// them to storage.
type EventBuffer struct {
	events []model.EngineEvent
}

func NewEventBuffer() *EventBuffer {
	return &EventBuffer{}
}

// Record implements engine.EventSink.
func (b *EventBuffer) Record(event model.EngineEvent) {
	b.events = append(b.events, event)
}

// Drain returns the buffered events and resets the buffer.
func (b *EventBuffer) Drain() []model.EngineEvent {
	events := b.events
	b.events = nil
	return events
}

// Runner applies an operation log to the engine in order: the host commits
// calls sequentially, so replaying the log reproduces the state. The engine
// is in-memory, so resuming from a checkpoint still applies the ops at or
// below it to rebuild state deterministically; only their events are
// discarded instead of being emitted again.
type Runner struct {
	cfg        RunConfig
	engine     *engine.Engine
	ledger     *asset.Ledger
	buffer     *EventBuffer
	storage    storage.Storage
	snapshots  SnapshotStore
	logger     *zap.Logger
	checkpoint *CheckpointStore
}

// NewRunner builds a Runner with its dependencies. snapshots may be nil.
func NewRunner(cfg RunConfig, eng *engine.Engine, ledger *asset.Ledger, buffer *EventBuffer, storageSink storage.Storage, snapshots SnapshotStore, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 500 * time.Millisecond
	}
	return &Runner{
		cfg:        cfg,
		engine:     eng,
		ledger:     ledger,
		buffer:     buffer,
		storage:    storageSink,
		snapshots:  snapshots,
		logger:     logger,
		checkpoint: NewCheckpointStore(cfg.CheckpointPath, cfg.CheckpointEnabled),
	}
}

// Run executes the replay loop.
func (r *Runner) Run(ctx context.Context) error {
	if r.engine == nil {
		return fmt.Errorf("engine is nil")
	}
	if r.storage == nil {
		return fmt.Errorf("storage is nil")
	}
	if r.cfg.BatchSize <= 0 {
		return fmt.Errorf("batch size must be greater than zero")
	}

	var resumeFrom uint64
	if r.checkpoint != nil {
		cp, ok, err := r.checkpoint.Load()
		if err != nil {
			return err
		}
		if ok {
			resumeFrom = cp.LastAppliedSeq
			r.logger.Info("resume from checkpoint", zap.Uint64("last_applied", resumeFrom))
		}
	}

	file, err := os.Open(r.cfg.InputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	var (
		lineNo   uint64
		applied  int
		rejected int
		rebuilt  int
		inBatch  int
	)
	lastSeq := resumeFrom

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var op model.Operation
		if err := json.Unmarshal(line, &op); err != nil {
			return fmt.Errorf("parse line %d: %w", lineNo, err)
		}
		if op.Seq == 0 {
			op.Seq = lineNo
		}

		call, err := ParseOperation(op)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}

		if op.Seq <= resumeFrom {
			// Already persisted: re-apply for state, drop the events. An op
			// rejected now was rejected in the original run as well.
			if err := r.apply(call); err != nil {
				r.logger.Debug("operation rejected during rebuild",
					zap.Uint64("seq", call.Seq),
					zap.String("op", call.Op),
					zap.Error(err),
				)
			}
			if r.buffer != nil {
				r.buffer.Drain()
			}
			rebuilt++
			continue
		}

		if err := r.apply(call); err != nil {
			// A failed call leaves no effects; the log continues like the
			// host would with the next transaction.
			rejected++
			r.logger.Warn("operation rejected",
				zap.Uint64("seq", call.Seq),
				zap.String("op", call.Op),
				zap.Error(err),
			)
		} else {
			applied++
		}
		lastSeq = op.Seq
		inBatch++

		if inBatch >= r.cfg.BatchSize {
			if err := r.flush(lastSeq); err != nil {
				return err
			}
			inBatch = 0
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	if inBatch > 0 || lineNo == 0 {
		if err := r.flush(lastSeq); err != nil {
			return err
		}
	}

	if err := r.persistSnapshots(ctx, lastSeq); err != nil {
		return err
	}

	r.logger.Info("replay complete",
		zap.Uint64("lines", lineNo),
		zap.Int("applied", applied),
		zap.Int("rejected", rejected),
		zap.Int("rebuilt", rebuilt),
	)
	return nil
}

func (r *Runner) apply(call Call) error {
	switch call.Op {
	case model.OpFund:
		if r.ledger == nil {
			return fmt.Errorf("fund op without a ledger")
		}
		r.ledger.Mint(call.Sender, call.AssetA, call.Amount)
		r.ledger.DiscardSnapshots()
		return nil
	case model.OpCreatePool:
		_, err := r.engine.CreatePool(call.Sender, call.AssetA, call.AssetB, call.Fee)
		return err
	case model.OpAddLiquidity:
		_, err := r.engine.AddLiquidity(call.Sender, call.PoolID,
			call.Amount0Desired, call.Amount1Desired, call.Amount0Min, call.Amount1Min, call.NativeValue)
		return err
	case model.OpRemoveLiquidity:
		_, _, err := r.engine.RemoveLiquidity(call.Sender, call.PoolID, call.Liquidity)
		return err
	case model.OpSwap:
		_, err := r.engine.Swap(call.Sender, call.PoolID,
			call.InputAmount, call.MinOutputAmount, call.ZeroForOne, call.NativeValue)
		return err
	default:
		return fmt.Errorf("unknown op %q", call.Op)
	}
}

func (r *Runner) flush(lastSeq uint64) error {
	var events []model.EngineEvent
	if r.buffer != nil {
		events = r.buffer.Drain()
	}
	if err := r.storage.PutEventBatch(events); err != nil {
		return fmt.Errorf("store events: %w", err)
	}
	if r.checkpoint != nil && lastSeq > 0 {
		if err := r.checkpoint.Save(lastSeq); err != nil {
			return err
		}
	}
	r.logger.Info("batch complete", zap.Int("events", len(events)), zap.Uint64("last_seq", lastSeq))
	return nil
}

func (r *Runner) persistSnapshots(ctx context.Context, lastSeq uint64) error {
	if r.snapshots == nil {
		return nil
	}

	pools, positions := r.engine.ExportState()
	err := r.withRetry(ctx, func(ctx context.Context) error {
		if err := r.snapshots.UpsertPools(ctx, pools); err != nil {
			return fmt.Errorf("upsert pools: %w", err)
		}
		if err := r.snapshots.UpsertPositions(ctx, positions); err != nil {
			return fmt.Errorf("upsert positions: %w", err)
		}
		name := r.cfg.StateName
		if name == "" {
			name = "replay"
		}
		return r.snapshots.SaveState(ctx, name, lastSeq)
	})
	if err != nil {
		return fmt.Errorf("persist snapshots: %w", err)
	}

	r.logger.Info("snapshots persisted",
		zap.Int("pools", len(pools)),
		zap.Int("positions", len(positions)),
		zap.Uint64("last_seq", lastSeq),
	)
	return nil
}

var _ engine.EventSink = (*EventBuffer)(nil)
