package replay

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"swapEngine/internal/model"
)

// Call is a validated, typed operation ready to apply against the engine.
type Call struct {
	Seq    uint64
	Op     string
	Sender common.Address

	AssetA model.Asset
	AssetB model.Asset
	Fee    uint32
	Amount *uint256.Int

	PoolID common.Hash

	Amount0Desired *uint256.Int
	Amount1Desired *uint256.Int
	Amount0Min     *uint256.Int
	Amount1Min     *uint256.Int

	Liquidity *uint256.Int

	InputAmount     *uint256.Int
	MinOutputAmount *uint256.Int
	ZeroForOne      bool

	NativeValue *uint256.Int
}

// ParseOperation validates an operation-log record and converts it into a
// typed Call.
func ParseOperation(op model.Operation) (Call, error) {
	call := Call{Seq: op.Seq, Op: op.Op, ZeroForOne: op.ZeroForOne}

	sender, err := parseAddress(op.Sender)
	if err != nil {
		return Call{}, fmt.Errorf("op %d: sender: %w", op.Seq, err)
	}
	call.Sender = sender

	switch op.Op {
	case model.OpFund:
		if call.AssetA, err = model.ParseAsset(op.AssetA); err != nil {
			return Call{}, fmt.Errorf("op %d: %w", op.Seq, err)
		}
		if call.Amount, err = parseAmount(op.Amount); err != nil {
			return Call{}, fmt.Errorf("op %d: amount: %w", op.Seq, err)
		}
		if call.Amount.IsZero() {
			return Call{}, fmt.Errorf("op %d: fund amount must be positive", op.Seq)
		}

	case model.OpCreatePool:
		if call.AssetA, err = model.ParseAsset(op.AssetA); err != nil {
			return Call{}, fmt.Errorf("op %d: %w", op.Seq, err)
		}
		if call.AssetB, err = model.ParseAsset(op.AssetB); err != nil {
			return Call{}, fmt.Errorf("op %d: %w", op.Seq, err)
		}
		call.Fee = op.Fee

	case model.OpAddLiquidity:
		if call.PoolID, err = parsePoolID(op.PoolID); err != nil {
			return Call{}, fmt.Errorf("op %d: %w", op.Seq, err)
		}
		if call.Amount0Desired, err = parseAmount(op.Amount0Desired); err != nil {
			return Call{}, fmt.Errorf("op %d: amount0_desired: %w", op.Seq, err)
		}
		if call.Amount1Desired, err = parseAmount(op.Amount1Desired); err != nil {
			return Call{}, fmt.Errorf("op %d: amount1_desired: %w", op.Seq, err)
		}
		if call.Amount0Min, err = parseAmount(op.Amount0Min); err != nil {
			return Call{}, fmt.Errorf("op %d: amount0_min: %w", op.Seq, err)
		}
		if call.Amount1Min, err = parseAmount(op.Amount1Min); err != nil {
			return Call{}, fmt.Errorf("op %d: amount1_min: %w", op.Seq, err)
		}
		if call.NativeValue, err = parseAmount(op.NativeValue); err != nil {
			return Call{}, fmt.Errorf("op %d: native_value: %w", op.Seq, err)
		}

	case model.OpRemoveLiquidity:
		if call.PoolID, err = parsePoolID(op.PoolID); err != nil {
			return Call{}, fmt.Errorf("op %d: %w", op.Seq, err)
		}
		if call.Liquidity, err = parseAmount(op.Liquidity); err != nil {
			return Call{}, fmt.Errorf("op %d: liquidity: %w", op.Seq, err)
		}

	case model.OpSwap:
		if call.PoolID, err = parsePoolID(op.PoolID); err != nil {
			return Call{}, fmt.Errorf("op %d: %w", op.Seq, err)
		}
		if call.InputAmount, err = parseAmount(op.InputAmount); err != nil {
			return Call{}, fmt.Errorf("op %d: input_amount: %w", op.Seq, err)
		}
		if call.MinOutputAmount, err = parseAmount(op.MinOutputAmount); err != nil {
			return Call{}, fmt.Errorf("op %d: min_output_amount: %w", op.Seq, err)
		}
		if call.NativeValue, err = parseAmount(op.NativeValue); err != nil {
			return Call{}, fmt.Errorf("op %d: native_value: %w", op.Seq, err)
		}

	default:
		return Call{}, fmt.Errorf("op %d: unknown op %q", op.Seq, op.Op)
	}

	return call, nil
}

func parseAddress(input string) (common.Address, error) {
	input = strings.TrimSpace(input)
	if !common.IsHexAddress(input) {
		return common.Address{}, fmt.Errorf("invalid address: %s", input)
	}
	return common.HexToAddress(input), nil
}

func parsePoolID(input string) (common.Hash, error) {
	data, err := hexutil.Decode(strings.TrimSpace(input))
	if err != nil {
		return common.Hash{}, fmt.Errorf("invalid pool id: %s", input)
	}
	if len(data) != 32 {
		return common.Hash{}, fmt.Errorf("invalid pool id length: %s", input)
	}
	return common.BytesToHash(data), nil
}

// parseAmount decodes a decimal amount; an empty field means zero.
func parseAmount(input string) (*uint256.Int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return new(uint256.Int), nil
	}
	value, err := uint256.FromDecimal(input)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", input, err)
	}
	return value, nil
}
