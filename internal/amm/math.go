// Package amm holds the pure constant-product math. All functions work on
// 256-bit unsigned integers, never mutate their arguments, and fail with a
// sentinel error instead of wrapping around on overflow.
package amm

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

const (
	// FeeDenominator is the fee-tier denominator: fees are expressed in
	// parts per ten thousand of the input amount.
	FeeDenominator uint32 = 10_000

	// MinimumLiquidity is the number of liquidity units permanently locked
	// on the first deposit into a pool. It defends against the zero-supply
	// rounding attack: no owner is ever credited these units.
	MinimumLiquidity uint64 = 1_000
)

var (
	ErrInsufficientInitialLiquidity = errors.New("insufficient initial liquidity")
	ErrInsufficientLiquidityMinted  = errors.New("insufficient liquidity minted")
	ErrInsufficientLiquidityOwned   = errors.New("insufficient liquidity owned")
	ErrInsufficientLiquidity        = errors.New("insufficient liquidity")
	ErrInsufficientInputAmount      = errors.New("insufficient input amount")
	ErrInsufficientOutputAmount     = errors.New("insufficient output amount")
	ErrSlippageExceeded             = errors.New("slippage exceeded")
	ErrAmountOverflow               = errors.New("amount overflow")
)

var (
	minLiquidity = uint256.NewInt(MinimumLiquidity)
	feeDenom     = uint256.NewInt(uint64(FeeDenominator))
)

// MintQuote is the outcome of a deposit quote.
type MintQuote struct {
	Amount0   *uint256.Int
	Amount1   *uint256.Int
	Liquidity *uint256.Int
	// Locked is the extra liquidity credited to no owner; non-zero only on
	// the first deposit into a pool.
	Locked *uint256.Int
}

// QuoteMint computes the amounts actually used and the liquidity minted for
// a deposit of (amount0Desired, amount1Desired) against the given reserves.
//
// On the first deposit both desired amounts are used in full and the mint is
// isqrt(amount0*amount1) minus the locked minimum. Later deposits use the
// tighter proportional constraint so neither desired amount is exceeded, and
// mint min(amount0*L/reserve0, amount1*L/reserve1).
func QuoteMint(reserve0, reserve1, totalLiquidity, amount0Desired, amount1Desired, amount0Min, amount1Min *uint256.Int) (MintQuote, error) {
	amount0 := new(uint256.Int).Set(amount0Desired)
	amount1 := new(uint256.Int).Set(amount1Desired)

	if !totalLiquidity.IsZero() {
		// amount1Optimal = amount0Desired * reserve1 / reserve0
		amount1Optimal, err := mulDiv(amount0Desired, reserve1, reserve0)
		if err != nil {
			return MintQuote{}, err
		}
		if amount1Optimal.Cmp(amount1Desired) <= 0 {
			amount1 = amount1Optimal
		} else {
			amount0, err = mulDiv(amount1Desired, reserve0, reserve1)
			if err != nil {
				return MintQuote{}, err
			}
		}
	}

	if amount0.Lt(amount0Min) || amount1.Lt(amount1Min) {
		return MintQuote{}, fmt.Errorf("%w: amounts %s/%s below minimums %s/%s",
			ErrSlippageExceeded, amount0.Dec(), amount1.Dec(), amount0Min.Dec(), amount1Min.Dec())
	}

	if totalLiquidity.IsZero() {
		product, overflow := new(uint256.Int).MulOverflow(amount0, amount1)
		if overflow {
			return MintQuote{}, fmt.Errorf("%w: %s * %s", ErrAmountOverflow, amount0.Dec(), amount1.Dec())
		}
		root := isqrt(product)
		if root.Cmp(minLiquidity) <= 0 {
			return MintQuote{}, fmt.Errorf("%w: isqrt(%s*%s) = %s <= %d",
				ErrInsufficientInitialLiquidity, amount0.Dec(), amount1.Dec(), root.Dec(), MinimumLiquidity)
		}
		minted := new(uint256.Int).Sub(root, minLiquidity)
		return MintQuote{
			Amount0:   amount0,
			Amount1:   amount1,
			Liquidity: minted,
			Locked:    new(uint256.Int).Set(minLiquidity),
		}, nil
	}

	liquidity0, err := mulDiv(amount0, totalLiquidity, reserve0)
	if err != nil {
		return MintQuote{}, err
	}
	liquidity1, err := mulDiv(amount1, totalLiquidity, reserve1)
	if err != nil {
		return MintQuote{}, err
	}
	minted := liquidity0
	if liquidity1.Lt(minted) {
		minted = liquidity1
	}
	if minted.IsZero() {
		return MintQuote{}, fmt.Errorf("%w: deposit %s/%s mints zero units",
			ErrInsufficientLiquidityMinted, amount0.Dec(), amount1.Dec())
	}

	return MintQuote{
		Amount0:   amount0,
		Amount1:   amount1,
		Liquidity: minted,
		Locked:    new(uint256.Int),
	}, nil
}

// QuoteBurn computes the proportional payout for removing liquidityToRemove
// units from a position that owns positionLiquidity units. Floor division;
// any dust stays in the pool for the remaining owners.
func QuoteBurn(reserve0, reserve1, totalLiquidity, positionLiquidity, liquidityToRemove *uint256.Int) (*uint256.Int, *uint256.Int, error) {
	if totalLiquidity.IsZero() || liquidityToRemove.Gt(positionLiquidity) {
		return nil, nil, fmt.Errorf("%w: removing %s, own %s",
			ErrInsufficientLiquidityOwned, liquidityToRemove.Dec(), positionLiquidity.Dec())
	}

	amount0, err := mulDiv(reserve0, liquidityToRemove, totalLiquidity)
	if err != nil {
		return nil, nil, err
	}
	amount1, err := mulDiv(reserve1, liquidityToRemove, totalLiquidity)
	if err != nil {
		return nil, nil, err
	}
	// A lopsided pool can floor one side to zero; only a payout of nothing
	// at all is rejected, so a position can always be exited.
	if amount0.IsZero() && amount1.IsZero() {
		return nil, nil, fmt.Errorf("%w: %s units redeem %s/%s",
			ErrInsufficientLiquidityOwned, liquidityToRemove.Dec(), amount0.Dec(), amount1.Dec())
	}
	return amount0, amount1, nil
}

// QuoteSwap computes the output for swapping inputAmount against
// (reserveIn, reserveOut) at the given fee tier. The fee is taken on the
// input side and stays in the pool:
//
//	afterFee = in * (FeeDenominator - fee) / FeeDenominator
//	out      = reserveOut - reserveIn*reserveOut/(reserveIn + afterFee)
//
// The quotient rounds down, and the overpaid fraction of a unit that floor
// rounding hands the caller normally stays covered by the fee. In a pool
// lopsided enough that it is not — up to draining reserveOut outright —
// the output is rounded one unit toward the pool, so
// reserveIn'*reserveOut' >= reserveIn*reserveOut holds for every quote.
func QuoteSwap(reserveIn, reserveOut *uint256.Int, fee uint32, inputAmount, minOutputAmount *uint256.Int) (*uint256.Int, error) {
	if inputAmount.IsZero() {
		return nil, fmt.Errorf("%w: zero input", ErrInsufficientInputAmount)
	}
	if reserveIn.IsZero() || reserveOut.IsZero() {
		return nil, fmt.Errorf("%w: reserves %s/%s", ErrInsufficientLiquidity, reserveIn.Dec(), reserveOut.Dec())
	}

	feeFactor := uint256.NewInt(uint64(FeeDenominator - fee))
	afterFee, err := mulDiv(inputAmount, feeFactor, feeDenom)
	if err != nil {
		return nil, err
	}

	product, overflow := new(uint256.Int).MulOverflow(reserveIn, reserveOut)
	if overflow {
		return nil, fmt.Errorf("%w: %s * %s", ErrAmountOverflow, reserveIn.Dec(), reserveOut.Dec())
	}
	denominator, overflow := new(uint256.Int).AddOverflow(reserveIn, afterFee)
	if overflow {
		return nil, fmt.Errorf("%w: %s + %s", ErrAmountOverflow, reserveIn.Dec(), afterFee.Dec())
	}

	out := new(uint256.Int).Div(product, denominator)
	out.Sub(reserveOut, out)

	newReserveIn, overflow := new(uint256.Int).AddOverflow(reserveIn, inputAmount)
	if overflow {
		return nil, fmt.Errorf("%w: %s + %s", ErrAmountOverflow, reserveIn.Dec(), inputAmount.Dec())
	}
	newReserveOut := new(uint256.Int).Sub(reserveOut, out)
	newProduct, overflow := new(uint256.Int).MulOverflow(newReserveIn, newReserveOut)
	if !overflow && newProduct.Lt(product) {
		out.SubUint64(out, 1)
	}

	if out.Lt(minOutputAmount) {
		return nil, fmt.Errorf("%w: output %s below minimum %s",
			ErrInsufficientOutputAmount, out.Dec(), minOutputAmount.Dec())
	}
	return out, nil
}

// mulDiv returns x*y/d with overflow-checked multiplication.
func mulDiv(x, y, d *uint256.Int) (*uint256.Int, error) {
	product, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, fmt.Errorf("%w: %s * %s", ErrAmountOverflow, x.Dec(), y.Dec())
	}
	return product.Div(product, d), nil
}

// isqrt is the Babylonian integer square root: the largest z with z*z <= x.
func isqrt(x *uint256.Int) *uint256.Int {
	if x.IsZero() {
		return new(uint256.Int)
	}
	one := uint256.NewInt(1)
	z := new(uint256.Int).Add(x, one)
	z.Rsh(z, 1)
	y := new(uint256.Int).Set(x)

	for z.Lt(y) {
		y.Set(z)
		z.Div(x, y)
		z.Add(z, y)
		z.Rsh(z, 1)
	}
	return y
}
