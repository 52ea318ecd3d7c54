package engine

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"swapEngine/internal/amm"
	"swapEngine/internal/asset"
	"swapEngine/internal/model"
)

var (
	custody = common.HexToAddress("0x00000000000000000000000000000000000000ee")
	alice   = common.HexToAddress("0x0000000000000000000000000000000000000a11")
	bob     = common.HexToAddress("0x0000000000000000000000000000000000000b22")

	tokenA = model.TokenAsset(common.HexToAddress("0x0000000000000000000000000000000000000101"))
	tokenB = model.TokenAsset(common.HexToAddress("0x0000000000000000000000000000000000000202"))
)

type eventCollector struct {
	events []model.EngineEvent
}

func (c *eventCollector) Record(event model.EngineEvent) {
	c.events = append(c.events, event)
}

func newTestEngine() (*Engine, *asset.Ledger, *eventCollector) {
	ledger := asset.NewLedger(custody)
	sink := &eventCollector{}
	return New(ledger, sink, nil), ledger, sink
}

func fund(ledger *asset.Ledger, owner common.Address, a model.Asset, amount uint64) {
	ledger.Mint(owner, a, uint256.NewInt(amount))
	ledger.DiscardSnapshots()
}

func u(v uint64) *uint256.Int { return uint256.NewInt(v) }

func TestPoolIDCommutative(t *testing.T) {
	eng, _, _ := newTestEngine()

	idAB, token0, token1, err := eng.PoolID(tokenA, tokenB, 1_000)
	if err != nil {
		t.Fatalf("pool id: %v", err)
	}
	idBA, token0Rev, token1Rev, err := eng.PoolID(tokenB, tokenA, 1_000)
	if err != nil {
		t.Fatalf("pool id reversed: %v", err)
	}

	if idAB != idBA {
		t.Fatalf("pool id not commutative: %s != %s", idAB.Hex(), idBA.Hex())
	}
	if token0 != token0Rev || token1 != token1Rev {
		t.Fatalf("token assignment depends on argument order")
	}
	if token0.Address().Cmp(token1.Address()) >= 0 {
		t.Fatalf("token0 %s not below token1 %s", token0, token1)
	}

	idOtherFee, _, _, err := eng.PoolID(tokenA, tokenB, 3_000)
	if err != nil {
		t.Fatalf("pool id other fee: %v", err)
	}
	if idOtherFee == idAB {
		t.Fatalf("fee tier not part of pool identity")
	}
}

func TestPoolIDIdenticalAssets(t *testing.T) {
	eng, _, _ := newTestEngine()
	if _, _, _, err := eng.PoolID(tokenA, tokenA, 1_000); !errors.Is(err, model.ErrIdenticalAssets) {
		t.Fatalf("expected ErrIdenticalAssets, got %v", err)
	}
	if _, _, _, err := eng.PoolID(model.NativeAsset(), model.NativeAsset(), 1_000); !errors.Is(err, model.ErrIdenticalAssets) {
		t.Fatalf("expected ErrIdenticalAssets for native pair, got %v", err)
	}
}

func TestCreatePool(t *testing.T) {
	eng, _, sink := newTestEngine()

	id, err := eng.CreatePool(alice, tokenA, tokenB, 1_000)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	pool, err := eng.Pool(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !pool.Reserve0.IsZero() || !pool.Reserve1.IsZero() || !pool.TotalLiquidity.IsZero() {
		t.Fatalf("new pool not empty: %s/%s liquidity %s",
			pool.Reserve0.Dec(), pool.Reserve1.Dec(), pool.TotalLiquidity.Dec())
	}

	// Same pair, swapped argument order: same pool.
	if _, err := eng.CreatePool(alice, tokenB, tokenA, 1_000); !errors.Is(err, ErrPoolAlreadyExists) {
		t.Fatalf("expected ErrPoolAlreadyExists, got %v", err)
	}

	if len(sink.events) != 1 || sink.events[0].EventName != "PoolCreated" {
		t.Fatalf("expected one PoolCreated event, got %+v", sink.events)
	}
}

func TestCreatePoolInvalidFee(t *testing.T) {
	eng, _, _ := newTestEngine()
	for _, fee := range []uint32{0, amm.FeeDenominator, amm.FeeDenominator + 1} {
		if _, err := eng.CreatePool(alice, tokenA, tokenB, fee); !errors.Is(err, ErrInvalidFeeTier) {
			t.Fatalf("fee %d: expected ErrInvalidFeeTier, got %v", fee, err)
		}
	}
}

func TestCreatePoolIdenticalAssets(t *testing.T) {
	eng, _, _ := newTestEngine()
	if _, err := eng.CreatePool(alice, tokenA, tokenA, 1_000); !errors.Is(err, model.ErrIdenticalAssets) {
		t.Fatalf("expected ErrIdenticalAssets, got %v", err)
	}
}

// The reference scenario: two tokens, 10% fee. Deposit 100k/100k, swap 10,
// withdraw everything. All amounts are pinned by the integer rounding rules.
func TestReferenceScenario(t *testing.T) {
	eng, ledger, _ := newTestEngine()
	fund(ledger, alice, tokenA, 1_000_000)
	fund(ledger, alice, tokenB, 1_000_000)
	fund(ledger, bob, tokenA, 1_000)

	id, err := eng.CreatePool(alice, tokenA, tokenB, 1_000)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	minted, err := eng.AddLiquidity(alice, id, u(100_000), u(100_000), u(0), u(0), nil)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !minted.Eq(u(99_000)) {
		t.Fatalf("minted %s, want 99000", minted.Dec())
	}
	if got := eng.PositionLiquidity(id, alice); !got.Eq(u(99_000)) {
		t.Fatalf("position %s, want 99000", got.Dec())
	}

	pool, _ := eng.Pool(id)
	if !pool.TotalLiquidity.Eq(u(100_000)) {
		t.Fatalf("total liquidity %s, want 100000", pool.TotalLiquidity.Dec())
	}

	out, err := eng.Swap(bob, id, u(10), u(0), true, nil)
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	if !out.Eq(u(9)) {
		t.Fatalf("swap output %s, want 9", out.Dec())
	}

	amount0, amount1, err := eng.RemoveLiquidity(alice, id, u(99_000))
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !amount0.Eq(u(99_009)) || !amount1.Eq(u(98_991)) {
		t.Fatalf("redeemed %s/%s, want 99009/98991", amount0.Dec(), amount1.Dec())
	}

	// The locked minimum stays behind with its share of the reserves.
	pool, _ = eng.Pool(id)
	if !pool.TotalLiquidity.Eq(u(1_000)) {
		t.Fatalf("total liquidity %s after exit, want 1000", pool.TotalLiquidity.Dec())
	}
	if !pool.Reserve0.Eq(u(1_001)) || !pool.Reserve1.Eq(u(1_000)) {
		t.Fatalf("reserves %s/%s after exit, want 1001/1000", pool.Reserve0.Dec(), pool.Reserve1.Dec())
	}
	if got := eng.PositionLiquidity(id, alice); !got.IsZero() {
		t.Fatalf("alice still owns %s", got.Dec())
	}

	// No owner can touch the locked units.
	if _, _, err := eng.RemoveLiquidity(alice, id, u(1)); !errors.Is(err, amm.ErrInsufficientLiquidityOwned) {
		t.Fatalf("expected ErrInsufficientLiquidityOwned, got %v", err)
	}

	assertConservation(t, eng, ledger, id)
}

func TestOperationsOnMissingPool(t *testing.T) {
	eng, _, _ := newTestEngine()
	missing := common.HexToHash("0xdeadbeef")

	if _, err := eng.AddLiquidity(alice, missing, u(1), u(1), u(0), u(0), nil); !errors.Is(err, ErrPoolDoesNotExist) {
		t.Fatalf("add: expected ErrPoolDoesNotExist, got %v", err)
	}
	if _, _, err := eng.RemoveLiquidity(alice, missing, u(1)); !errors.Is(err, ErrPoolDoesNotExist) {
		t.Fatalf("remove: expected ErrPoolDoesNotExist, got %v", err)
	}
	if _, err := eng.Swap(alice, missing, u(1), u(0), true, nil); !errors.Is(err, ErrPoolDoesNotExist) {
		t.Fatalf("swap: expected ErrPoolDoesNotExist, got %v", err)
	}
	if got := eng.PositionLiquidity(missing, alice); !got.IsZero() {
		t.Fatalf("position on missing pool: %s", got.Dec())
	}
}

func TestAddLiquiditySlippage(t *testing.T) {
	eng, ledger, _ := newTestEngine()
	fund(ledger, alice, tokenA, 1_000_000)
	fund(ledger, alice, tokenB, 1_000_000)

	id, _ := eng.CreatePool(alice, tokenA, tokenB, 30)
	if _, err := eng.AddLiquidity(alice, id, u(100_000), u(200_000), u(0), u(0), nil); err != nil {
		t.Fatalf("add: %v", err)
	}

	// Ratio is 1:2; asking to use all 100k of token1 against 20k of token0
	// with a 90k floor on token1 cannot be satisfied.
	_, err := eng.AddLiquidity(alice, id, u(20_000), u(100_000), u(0), u(90_000), nil)
	if !errors.Is(err, amm.ErrSlippageExceeded) {
		t.Fatalf("expected ErrSlippageExceeded, got %v", err)
	}
}

func TestSwapSlippage(t *testing.T) {
	eng, ledger, _ := newTestEngine()
	fund(ledger, alice, tokenA, 1_000_000)
	fund(ledger, alice, tokenB, 1_000_000)

	id, _ := eng.CreatePool(alice, tokenA, tokenB, 1_000)
	if _, err := eng.AddLiquidity(alice, id, u(100_000), u(100_000), u(0), u(0), nil); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := eng.Swap(alice, id, u(10), u(10), true, nil); !errors.Is(err, amm.ErrInsufficientOutputAmount) {
		t.Fatalf("expected ErrInsufficientOutputAmount, got %v", err)
	}
}

func TestNativePool(t *testing.T) {
	eng, ledger, _ := newTestEngine()
	native := model.NativeAsset()
	fund(ledger, alice, native, 1_000_000)
	fund(ledger, alice, tokenA, 1_000_000)
	fund(ledger, bob, native, 1_000)

	id, err := eng.CreatePool(alice, tokenA, native, 1_000)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	pool, _ := eng.Pool(id)
	if !pool.Token0.IsNative() {
		t.Fatalf("native should sort as token0, got %s", pool.Token0)
	}

	// Missing and mismatched attachment both fail.
	if _, err := eng.AddLiquidity(alice, id, u(100_000), u(100_000), u(0), u(0), nil); !errors.Is(err, ErrIncorrectNativeValue) {
		t.Fatalf("expected ErrIncorrectNativeValue, got %v", err)
	}
	if _, err := eng.AddLiquidity(alice, id, u(100_000), u(100_000), u(0), u(0), u(99_999)); !errors.Is(err, ErrIncorrectNativeValue) {
		t.Fatalf("expected ErrIncorrectNativeValue, got %v", err)
	}

	if _, err := eng.AddLiquidity(alice, id, u(100_000), u(100_000), u(0), u(0), u(100_000)); err != nil {
		t.Fatalf("add with exact value: %v", err)
	}

	// Selling native requires the exact input as attached value.
	if _, err := eng.Swap(bob, id, u(10), u(0), true, nil); !errors.Is(err, ErrIncorrectNativeValue) {
		t.Fatalf("expected ErrIncorrectNativeValue, got %v", err)
	}
	out, err := eng.Swap(bob, id, u(10), u(0), true, u(10))
	if err != nil {
		t.Fatalf("swap native in: %v", err)
	}
	if !out.Eq(u(9)) {
		t.Fatalf("output %s, want 9", out.Dec())
	}

	// Selling the token side must not carry a value.
	fund(ledger, bob, tokenA, 1_000)
	if _, err := eng.Swap(bob, id, u(10), u(0), false, u(10)); !errors.Is(err, ErrIncorrectNativeValue) {
		t.Fatalf("expected ErrIncorrectNativeValue for value on token swap, got %v", err)
	}
	if _, err := eng.Swap(bob, id, u(10), u(0), false, nil); err != nil {
		t.Fatalf("swap token in: %v", err)
	}

	assertConservation(t, eng, ledger, id)
}

func TestAtomicRollbackOnFailedPull(t *testing.T) {
	eng, ledger, sink := newTestEngine()
	// Alice can cover token0 but not token1.
	fund(ledger, alice, tokenA, 100_000)

	id, err := eng.CreatePool(alice, tokenA, tokenB, 30)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	created := len(sink.events)

	_, err = eng.AddLiquidity(alice, id, u(100_000), u(100_000), u(0), u(0), nil)
	if !errors.Is(err, asset.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	// Zero state mutation and zero asset movement.
	pool, _ := eng.Pool(id)
	if !pool.Reserve0.IsZero() || !pool.Reserve1.IsZero() || !pool.TotalLiquidity.IsZero() {
		t.Fatalf("pool mutated by failed deposit: %s/%s/%s",
			pool.Reserve0.Dec(), pool.Reserve1.Dec(), pool.TotalLiquidity.Dec())
	}
	if got := eng.PositionLiquidity(id, alice); !got.IsZero() {
		t.Fatalf("position credited by failed deposit: %s", got.Dec())
	}
	if got := ledger.BalanceOf(alice, tokenA); !got.Eq(u(100_000)) {
		t.Fatalf("alice token0 balance %s, want 100000", got.Dec())
	}
	if got := ledger.BalanceOf(custody, tokenA); !got.IsZero() {
		t.Fatalf("custody holds %s after failed deposit", got.Dec())
	}
	if len(sink.events) != created {
		t.Fatalf("failed deposit emitted events: %+v", sink.events[created:])
	}
}

func TestRoundTripNeverProfits(t *testing.T) {
	eng, ledger, _ := newTestEngine()
	fund(ledger, bob, tokenA, 1_000_000)
	fund(ledger, bob, tokenB, 1_000_000)
	fund(ledger, alice, tokenA, 1_000_000)
	fund(ledger, alice, tokenB, 1_000_000)

	id, _ := eng.CreatePool(alice, tokenA, tokenB, 30)
	if _, err := eng.AddLiquidity(alice, id, u(333_333), u(111_111), u(0), u(0), nil); err != nil {
		t.Fatalf("seed: %v", err)
	}

	before0 := ledger.BalanceOf(bob, tokenA)
	before1 := ledger.BalanceOf(bob, tokenB)

	minted, err := eng.AddLiquidity(bob, id, u(10_007), u(3_341), u(0), u(0), nil)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, _, err := eng.RemoveLiquidity(bob, id, minted); err != nil {
		t.Fatalf("remove: %v", err)
	}

	after0 := ledger.BalanceOf(bob, tokenA)
	after1 := ledger.BalanceOf(bob, tokenB)
	if after0.Gt(before0) || after1.Gt(before1) {
		t.Fatalf("round trip profited: %s/%s -> %s/%s",
			before0.Dec(), before1.Dec(), after0.Dec(), after1.Dec())
	}
}

func TestLopsidedPoolSwapCannotDrainReserve(t *testing.T) {
	eng, ledger, _ := newTestEngine()
	fund(ledger, alice, tokenA, 1)
	fund(ledger, alice, tokenB, 2_000_000)
	fund(ledger, bob, tokenB, 5_000_000)

	id, _ := eng.CreatePool(alice, tokenA, tokenB, 30)
	minted, err := eng.AddLiquidity(alice, id, u(1), u(2_000_000), u(0), u(0), nil)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	// A huge token1 input quotes zero token0 rather than the last unit of
	// the reserve; asking for at least one unit fails the slippage bound.
	if _, err := eng.Swap(bob, id, u(5_000_000), u(1), false, nil); !errors.Is(err, amm.ErrInsufficientOutputAmount) {
		t.Fatalf("expected ErrInsufficientOutputAmount, got %v", err)
	}

	out, err := eng.Swap(bob, id, u(5_000_000), u(0), false, nil)
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	if !out.IsZero() {
		t.Fatalf("output %s, want 0", out.Dec())
	}
	pool, _ := eng.Pool(id)
	if pool.Reserve0.IsZero() {
		t.Fatalf("token0 reserve drained to zero")
	}

	// The LP's exit still works: the token0 side floors to zero but the
	// token1 share pays out.
	amount0, amount1, err := eng.RemoveLiquidity(alice, id, minted)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !amount0.IsZero() || amount1.IsZero() {
		t.Fatalf("redeemed %s/%s, want 0/nonzero", amount0.Dec(), amount1.Dec())
	}

	assertConservation(t, eng, ledger, id)
}

func TestConstantProductMonotonic(t *testing.T) {
	eng, ledger, _ := newTestEngine()
	fund(ledger, alice, tokenA, 10_000_000)
	fund(ledger, alice, tokenB, 10_000_000)
	fund(ledger, bob, tokenA, 1_000_000)
	fund(ledger, bob, tokenB, 1_000_000)

	id, _ := eng.CreatePool(alice, tokenA, tokenB, 30)
	if _, err := eng.AddLiquidity(alice, id, u(1_000_000), u(2_500_000), u(0), u(0), nil); err != nil {
		t.Fatalf("seed: %v", err)
	}

	product := func() *uint256.Int {
		pool, err := eng.Pool(id)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		return new(uint256.Int).Mul(pool.Reserve0, pool.Reserve1)
	}

	k := product()
	swaps := []struct {
		amount     uint64
		zeroForOne bool
	}{
		{13, true}, {50_000, false}, {1, true}, {777, false}, {250_000, true}, {9_999, false},
	}
	for _, s := range swaps {
		if _, err := eng.Swap(bob, id, u(s.amount), u(0), s.zeroForOne, nil); err != nil {
			t.Fatalf("swap %d zeroForOne=%v: %v", s.amount, s.zeroForOne, err)
		}
		next := product()
		if next.Lt(k) {
			t.Fatalf("product decreased: %s -> %s", k.Dec(), next.Dec())
		}
		k = next
	}

	assertConservation(t, eng, ledger, id)
}

// reentrantAdapter wraps the ledger and triggers a callback on the first
// outbound transfer, simulating a malicious asset whose receive hook calls
// back into the engine.
type reentrantAdapter struct {
	*asset.Ledger
	onFirstPush func()
	rejectPush  bool
	fired       bool
}

func (r *reentrantAdapter) Push(to common.Address, a model.Asset, amount *uint256.Int) error {
	if !r.fired {
		r.fired = true
		if r.onFirstPush != nil {
			r.onFirstPush()
		}
		if r.rejectPush {
			return errors.New("transfer rejected by token hook")
		}
	}
	return r.Ledger.Push(to, a, amount)
}

func TestReentrantSwapSeesConsistentState(t *testing.T) {
	ledger := asset.NewLedger(custody)
	adapter := &reentrantAdapter{Ledger: ledger}
	sink := &eventCollector{}
	eng := New(adapter, sink, nil)

	fund(ledger, alice, tokenA, 10_000_000)
	fund(ledger, alice, tokenB, 10_000_000)
	fund(ledger, bob, tokenA, 1_000_000)
	fund(ledger, bob, tokenB, 1_000_000)

	id, _ := eng.CreatePool(alice, tokenA, tokenB, 30)
	if _, err := eng.AddLiquidity(alice, id, u(1_000_000), u(1_000_000), u(0), u(0), nil); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var innerErr error
	adapter.onFirstPush = func() {
		// Re-enter mid-payout: reserves must already reflect the outer swap.
		_, innerErr = eng.Swap(bob, id, u(500), u(0), false, nil)
	}

	if _, err := eng.Swap(bob, id, u(10_000), u(0), true, nil); err != nil {
		t.Fatalf("outer swap: %v", err)
	}
	if innerErr != nil {
		t.Fatalf("inner swap: %v", innerErr)
	}

	assertConservation(t, eng, ledger, id)
}

func TestReentrantFrameRevertsWithOuterFailure(t *testing.T) {
	ledger := asset.NewLedger(custody)
	adapter := &reentrantAdapter{Ledger: ledger, rejectPush: true}
	sink := &eventCollector{}
	eng := New(adapter, sink, nil)

	fund(ledger, alice, tokenA, 10_000_000)
	fund(ledger, alice, tokenB, 10_000_000)
	fund(ledger, bob, tokenA, 1_000_000)
	fund(ledger, bob, tokenB, 1_000_000)

	id, _ := eng.CreatePool(alice, tokenA, tokenB, 30)
	if _, err := eng.AddLiquidity(alice, id, u(1_000_000), u(1_000_000), u(0), u(0), nil); err != nil {
		t.Fatalf("seed: %v", err)
	}

	poolBefore, _ := eng.Pool(id)
	bobBefore0 := ledger.BalanceOf(bob, tokenA)
	bobBefore1 := ledger.BalanceOf(bob, tokenB)
	eventsBefore := len(sink.events)

	adapter.onFirstPush = func() {
		// This nested swap commits, then the outer payout is rejected.
		if _, err := eng.Swap(bob, id, u(500), u(0), false, nil); err != nil {
			t.Fatalf("inner swap: %v", err)
		}
	}

	if _, err := eng.Swap(bob, id, u(10_000), u(0), true, nil); err == nil {
		t.Fatalf("outer swap should fail on rejected transfer")
	}

	// The outer revert unwinds the nested committed frame as well.
	poolAfter, _ := eng.Pool(id)
	if !poolAfter.Reserve0.Eq(poolBefore.Reserve0) || !poolAfter.Reserve1.Eq(poolBefore.Reserve1) {
		t.Fatalf("reserves changed across reverted call: %s/%s -> %s/%s",
			poolBefore.Reserve0.Dec(), poolBefore.Reserve1.Dec(),
			poolAfter.Reserve0.Dec(), poolAfter.Reserve1.Dec())
	}
	if got := ledger.BalanceOf(bob, tokenA); !got.Eq(bobBefore0) {
		t.Fatalf("bob token0 balance changed: %s -> %s", bobBefore0.Dec(), got.Dec())
	}
	if got := ledger.BalanceOf(bob, tokenB); !got.Eq(bobBefore1) {
		t.Fatalf("bob token1 balance changed: %s -> %s", bobBefore1.Dec(), got.Dec())
	}
	if len(sink.events) != eventsBefore {
		t.Fatalf("reverted call emitted events: %+v", sink.events[eventsBefore:])
	}

	assertConservation(t, eng, ledger, id)
}

func TestEventSequence(t *testing.T) {
	eng, ledger, sink := newTestEngine()
	fund(ledger, alice, tokenA, 1_000_000)
	fund(ledger, alice, tokenB, 1_000_000)

	id, _ := eng.CreatePool(alice, tokenA, tokenB, 30)
	if _, err := eng.AddLiquidity(alice, id, u(100_000), u(100_000), u(0), u(0), nil); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := eng.Swap(alice, id, u(100), u(0), true, nil); err != nil {
		t.Fatalf("swap: %v", err)
	}

	want := []string{"PoolCreated", "LiquidityMinted", "Swap"}
	if len(sink.events) != len(want) {
		t.Fatalf("got %d events, want %d", len(sink.events), len(want))
	}
	for i, event := range sink.events {
		if event.EventName != want[i] {
			t.Fatalf("event %d is %s, want %s", i, event.EventName, want[i])
		}
		if event.Seq != uint64(i+1) {
			t.Fatalf("event %d has seq %d", i, event.Seq)
		}
	}
}

// assertConservation checks that custody matches the pool's reserves for
// both sides: assets pulled minus pushed equals book reserves.
func assertConservation(t *testing.T, eng *Engine, ledger *asset.Ledger, id common.Hash) {
	t.Helper()
	pool, err := eng.Pool(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := ledger.BalanceOf(custody, pool.Token0); !got.Eq(pool.Reserve0) {
		t.Fatalf("token0 custody %s != reserve %s", got.Dec(), pool.Reserve0.Dec())
	}
	if got := ledger.BalanceOf(custody, pool.Token1); !got.Eq(pool.Reserve1) {
		t.Fatalf("token1 custody %s != reserve %s", got.Dec(), pool.Reserve1.Dec())
	}
}
