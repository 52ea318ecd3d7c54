// Package engine implements the constant-product pool engine: pool
// creation, liquidity deposits and withdrawals, and swaps, executed as
// atomic all-or-nothing state transitions over an engine-owned store.
package engine

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"swapEngine/internal/amm"
	"swapEngine/internal/asset"
	"swapEngine/internal/model"
)

var (
	// ErrIncorrectNativeValue is returned when the attached native value
	// does not exactly match the native-side amount of the call.
	ErrIncorrectNativeValue = errors.New("incorrect native value")
	// ErrInvalidFeeTier is returned when the fee is zero or at least the
	// fee denominator.
	ErrInvalidFeeTier = errors.New("invalid fee tier")
)

// EventSink receives the typed events of committed operations.
type EventSink interface {
	Record(event model.EngineEvent)
}

// Engine orchestrates pool identity, registry, math, positions, and asset
// custody. Calls execute sequentially; a call that fails leaves no trace in
// the store, the asset adapter, or the event stream, including the effects
// of any nested call it triggered through an asset transfer.
type Engine struct {
	store  *Store
	assets asset.Adapter
	sink   EventSink
	logger *zap.Logger

	depth   int
	seq     uint64
	pending []model.EngineEvent
}

// New builds an engine with its own empty store.
func New(assets asset.Adapter, sink EventSink, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:  NewStore(),
		assets: assets,
		sink:   sink,
		logger: logger,
	}
}

type frame struct {
	store  int
	assets int
	events int
}

func (e *Engine) begin() frame {
	e.depth++
	return frame{store: e.store.Snapshot(), assets: e.assets.Snapshot(), events: len(e.pending)}
}

// end commits or unwinds a call frame. A failed frame reverts store, asset,
// and event effects recorded after begin — nested committed frames
// included, matching host all-or-nothing semantics.
func (e *Engine) end(f frame, err error) {
	if err != nil {
		e.assets.RevertToSnapshot(f.assets)
		e.store.RevertToSnapshot(f.store)
		e.pending = e.pending[:f.events]
	}
	e.depth--
	if e.depth == 0 && err == nil {
		e.store.DiscardSnapshots()
		e.assets.DiscardSnapshots()
		e.flushEvents()
	}
}

func (e *Engine) flushEvents() {
	for _, event := range e.pending {
		e.seq++
		event.Seq = e.seq
		if e.sink != nil {
			e.sink.Record(event)
		}
	}
	e.pending = e.pending[:0]
}

func (e *Engine) emit(name string, poolID common.Hash, decoded interface{}) {
	e.pending = append(e.pending, model.EngineEvent{
		EventName: name,
		PoolID:    poolID.Hex(),
		Decoded:   decoded,
	})
}

// PoolID computes the canonical pool ID and sorted token assignment without
// touching state.
func (e *Engine) PoolID(assetA, assetB model.Asset, fee uint32) (common.Hash, model.Asset, model.Asset, error) {
	return model.ComputePoolID(assetA, assetB, fee)
}

// PositionLiquidity returns the owner's liquidity units in the pool, zero
// when no position exists.
func (e *Engine) PositionLiquidity(poolID common.Hash, owner common.Address) *uint256.Int {
	return e.store.PositionLiquidity(poolID, owner)
}

// Pool returns a copy of the pool record.
func (e *Engine) Pool(poolID common.Hash) (*model.Pool, error) {
	return e.store.Pool(poolID)
}

// CreatePool registers a new pool for the asset pair at the given fee tier.
// No assets move.
func (e *Engine) CreatePool(sender common.Address, assetA, assetB model.Asset, fee uint32) (id common.Hash, err error) {
	f := e.begin()
	defer func() { e.end(f, err) }()

	if fee == 0 || fee >= amm.FeeDenominator {
		return common.Hash{}, fmt.Errorf("%w: %d not in (0, %d)", ErrInvalidFeeTier, fee, amm.FeeDenominator)
	}

	id, token0, token1, err := model.ComputePoolID(assetA, assetB, fee)
	if err != nil {
		return common.Hash{}, err
	}
	if _, err = e.store.CreatePool(id, token0, token1, fee); err != nil {
		return common.Hash{}, err
	}

	e.emit("PoolCreated", id, model.PoolCreatedData{
		Token0: token0.String(),
		Token1: token1.String(),
		Fee:    fee,
	})
	e.logger.Debug("pool created",
		zap.String("pool_id", id.Hex()),
		zap.String("token0", token0.String()),
		zap.String("token1", token1.String()),
		zap.Uint32("fee", fee),
		zap.String("sender", sender.Hex()),
	)
	return id, nil
}

// AddLiquidity deposits up to the desired amounts into the pool and credits
// the sender's position. Returns the liquidity units credited to the
// sender; on the first deposit the pool total additionally grows by the
// permanently locked minimum.
func (e *Engine) AddLiquidity(sender common.Address, poolID common.Hash, amount0Desired, amount1Desired, amount0Min, amount1Min, nativeValue *uint256.Int) (minted *uint256.Int, err error) {
	f := e.begin()
	defer func() { e.end(f, err) }()

	pool, err := e.store.Pool(poolID)
	if err != nil {
		return nil, err
	}

	quote, err := amm.QuoteMint(pool.Reserve0, pool.Reserve1, pool.TotalLiquidity,
		amount0Desired, amount1Desired, amount0Min, amount1Min)
	if err != nil {
		return nil, err
	}

	if err = e.checkNativeValue(nativeValue, nativeAmount(pool, quote.Amount0, quote.Amount1)); err != nil {
		return nil, err
	}

	reserve0, err := addChecked(pool.Reserve0, quote.Amount0)
	if err != nil {
		return nil, err
	}
	reserve1, err := addChecked(pool.Reserve1, quote.Amount1)
	if err != nil {
		return nil, err
	}
	poolMint, err := addChecked(quote.Liquidity, quote.Locked)
	if err != nil {
		return nil, err
	}
	totalLiquidity, err := addChecked(pool.TotalLiquidity, poolMint)
	if err != nil {
		return nil, err
	}

	// Effects strictly before interactions.
	if err = e.store.UpdatePoolState(poolID, reserve0, reserve1, totalLiquidity); err != nil {
		return nil, err
	}
	owned := e.store.PositionLiquidity(poolID, sender)
	e.store.SetPositionLiquidity(poolID, sender, new(uint256.Int).Add(owned, quote.Liquidity))

	if err = e.assets.Pull(sender, pool.Token0, quote.Amount0); err != nil {
		return nil, err
	}
	if err = e.assets.Pull(sender, pool.Token1, quote.Amount1); err != nil {
		return nil, err
	}

	e.emit("LiquidityMinted", poolID, model.LiquidityMintedData{
		Owner:     sender.Hex(),
		Liquidity: poolMint.Dec(),
		Amount0:   quote.Amount0.Dec(),
		Amount1:   quote.Amount1.Dec(),
	})
	e.logger.Debug("liquidity minted",
		zap.String("pool_id", poolID.Hex()),
		zap.String("owner", sender.Hex()),
		zap.String("liquidity", quote.Liquidity.Dec()),
	)
	return quote.Liquidity, nil
}

// RemoveLiquidity burns liquidity units from the sender's position and pays
// out the proportional share of both reserves.
func (e *Engine) RemoveLiquidity(sender common.Address, poolID common.Hash, liquidityToRemove *uint256.Int) (amount0, amount1 *uint256.Int, err error) {
	f := e.begin()
	defer func() { e.end(f, err) }()

	pool, err := e.store.Pool(poolID)
	if err != nil {
		return nil, nil, err
	}
	owned := e.store.PositionLiquidity(poolID, sender)

	amount0, amount1, err = amm.QuoteBurn(pool.Reserve0, pool.Reserve1, pool.TotalLiquidity, owned, liquidityToRemove)
	if err != nil {
		return nil, nil, err
	}

	reserve0 := new(uint256.Int).Sub(pool.Reserve0, amount0)
	reserve1 := new(uint256.Int).Sub(pool.Reserve1, amount1)
	totalLiquidity := new(uint256.Int).Sub(pool.TotalLiquidity, liquidityToRemove)

	// Effects strictly before interactions.
	if err = e.store.UpdatePoolState(poolID, reserve0, reserve1, totalLiquidity); err != nil {
		return nil, nil, err
	}
	e.store.SetPositionLiquidity(poolID, sender, new(uint256.Int).Sub(owned, liquidityToRemove))

	if err = e.assets.Push(sender, pool.Token0, amount0); err != nil {
		return nil, nil, err
	}
	if err = e.assets.Push(sender, pool.Token1, amount1); err != nil {
		return nil, nil, err
	}

	e.emit("LiquidityBurned", poolID, model.LiquidityBurnedData{
		Owner:     sender.Hex(),
		Liquidity: liquidityToRemove.Dec(),
		Amount0:   amount0.Dec(),
		Amount1:   amount1.Dec(),
	})
	e.logger.Debug("liquidity burned",
		zap.String("pool_id", poolID.Hex()),
		zap.String("owner", sender.Hex()),
		zap.String("liquidity", liquidityToRemove.Dec()),
	)
	return amount0, amount1, nil
}

// Swap trades inputAmount of one side of the pool for the other side's
// output, subject to the caller's slippage bound.
func (e *Engine) Swap(sender common.Address, poolID common.Hash, inputAmount, minOutputAmount *uint256.Int, zeroForOne bool, nativeValue *uint256.Int) (out *uint256.Int, err error) {
	f := e.begin()
	defer func() { e.end(f, err) }()

	pool, err := e.store.Pool(poolID)
	if err != nil {
		return nil, err
	}

	inputAsset, outputAsset := pool.Token0, pool.Token1
	reserveIn, reserveOut := pool.Reserve0, pool.Reserve1
	if !zeroForOne {
		inputAsset, outputAsset = pool.Token1, pool.Token0
		reserveIn, reserveOut = pool.Reserve1, pool.Reserve0
	}

	out, err = amm.QuoteSwap(reserveIn, reserveOut, pool.Fee, inputAmount, minOutputAmount)
	if err != nil {
		return nil, err
	}

	required := new(uint256.Int)
	if inputAsset.IsNative() {
		required.Set(inputAmount)
	}
	if err = e.checkNativeValue(nativeValue, required); err != nil {
		return nil, err
	}

	newIn, err := addChecked(reserveIn, inputAmount)
	if err != nil {
		return nil, err
	}
	newOut := new(uint256.Int).Sub(reserveOut, out)

	reserve0, reserve1 := newIn, newOut
	if !zeroForOne {
		reserve0, reserve1 = newOut, newIn
	}

	// Effects strictly before interactions.
	if err = e.store.UpdatePoolState(poolID, reserve0, reserve1, pool.TotalLiquidity); err != nil {
		return nil, err
	}

	if err = e.assets.Pull(sender, inputAsset, inputAmount); err != nil {
		return nil, err
	}
	if err = e.assets.Push(sender, outputAsset, out); err != nil {
		return nil, err
	}

	e.emit("Swap", poolID, model.SwapData{
		Sender:       sender.Hex(),
		InputAmount:  inputAmount.Dec(),
		OutputAmount: out.Dec(),
		ZeroForOne:   zeroForOne,
	})
	e.logger.Debug("swap",
		zap.String("pool_id", poolID.Hex()),
		zap.String("sender", sender.Hex()),
		zap.String("input", inputAmount.Dec()),
		zap.String("output", out.Dec()),
		zap.Bool("zero_for_one", zeroForOne),
	)
	return out, nil
}

// ExportState snapshots all pools and positions for storage.
func (e *Engine) ExportState() ([]model.PoolRecord, []model.PositionRecord) {
	poolIDs := e.store.PoolIDs()
	pools := make([]model.PoolRecord, 0, len(poolIDs))
	for _, id := range poolIDs {
		pool, err := e.store.Pool(id)
		if err != nil {
			continue
		}
		pools = append(pools, model.PoolRecord{
			PoolID:         id.Hex(),
			Token0:         pool.Token0.String(),
			Token1:         pool.Token1.String(),
			Fee:            pool.Fee,
			Reserve0:       pool.Reserve0.Dec(),
			Reserve1:       pool.Reserve1.Dec(),
			TotalLiquidity: pool.TotalLiquidity.Dec(),
		})
	}

	var positions []model.PositionRecord
	e.store.eachPosition(func(poolID common.Hash, p *model.Position) {
		positions = append(positions, model.PositionRecord{
			PoolID:    poolID.Hex(),
			Owner:     p.Owner.Hex(),
			Liquidity: p.Liquidity.Dec(),
		})
	})
	return pools, positions
}

// nativeAmount returns the native-side deposit amount, zero for pure token
// pools. Only one side can be native: pool identity forbids equal canonical
// addresses.
func nativeAmount(pool *model.Pool, amount0, amount1 *uint256.Int) *uint256.Int {
	switch {
	case pool.Token0.IsNative():
		return amount0
	case pool.Token1.IsNative():
		return amount1
	default:
		return new(uint256.Int)
	}
}

// checkNativeValue enforces the exact-attachment rule: the attached value
// must equal the native amount the call needs, with nil meaning zero.
func (e *Engine) checkNativeValue(attached, required *uint256.Int) error {
	value := attached
	if value == nil {
		value = new(uint256.Int)
	}
	if !value.Eq(required) {
		return fmt.Errorf("%w: attached %s, need %s", ErrIncorrectNativeValue, value.Dec(), required.Dec())
	}
	return nil
}

func addChecked(x, y *uint256.Int) (*uint256.Int, error) {
	sum, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, fmt.Errorf("%w: %s + %s", amm.ErrAmountOverflow, x.Dec(), y.Dec())
	}
	return sum, nil
}
