package model

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// ErrIdenticalAssets is returned when a pool identity is requested for a
// pair of equal assets.
var ErrIdenticalAssets = errors.New("identical assets")

// Pool is one isolated pair of reserves trading at a fixed fee tier.
// Reserves track the custody actually held for the pool; TotalLiquidity
// includes the permanently locked minimum once the first deposit happened.
type Pool struct {
	Token0         Asset
	Token1         Asset
	Fee            uint32
	Reserve0       *uint256.Int
	Reserve1       *uint256.Int
	TotalLiquidity *uint256.Int
}

// Position is one owner's share of a pool's liquidity.
type Position struct {
	Owner     common.Address
	Liquidity *uint256.Int
}

// ComputePoolID canonicalizes an (assetA, assetB, fee) triple into an
// order-independent pool ID plus the sorted (token0, token1) assignment:
// keccak256 of the abi-encoded (address, address, uint24) sequence.
func ComputePoolID(assetA, assetB Asset, fee uint32) (common.Hash, Asset, Asset, error) {
	addrA, addrB := assetA.Address(), assetB.Address()
	if addrA == addrB {
		return common.Hash{}, Asset{}, Asset{}, fmt.Errorf("%w: %s", ErrIdenticalAssets, assetA)
	}

	token0, token1 := assetA, assetB
	if addrB.Cmp(addrA) < 0 {
		token0, token1 = assetB, assetA
	}

	encoded := make([]byte, 0, 96)
	encoded = append(encoded, common.LeftPadBytes(token0.Address().Bytes(), 32)...)
	encoded = append(encoded, common.LeftPadBytes(token1.Address().Bytes(), 32)...)
	encoded = append(encoded, common.LeftPadBytes(feeBytes(fee), 32)...)

	return crypto.Keccak256Hash(encoded), token0, token1, nil
}

// PositionID derives the position key for an owner within a pool:
// keccak256(poolID || pad32(owner)).
func PositionID(poolID common.Hash, owner common.Address) common.Hash {
	encoded := make([]byte, 0, 64)
	encoded = append(encoded, poolID.Bytes()...)
	encoded = append(encoded, common.LeftPadBytes(owner.Bytes(), 32)...)
	return crypto.Keccak256Hash(encoded)
}

// feeBytes encodes the fee tier as a big-endian uint24.
func feeBytes(fee uint32) []byte {
	return []byte{byte(fee >> 16), byte(fee >> 8), byte(fee)}
}

// Clone deep-copies the pool record.
func (p *Pool) Clone() *Pool {
	return &Pool{
		Token0:         p.Token0,
		Token1:         p.Token1,
		Fee:            p.Fee,
		Reserve0:       new(uint256.Int).Set(p.Reserve0),
		Reserve1:       new(uint256.Int).Set(p.Reserve1),
		TotalLiquidity: new(uint256.Int).Set(p.TotalLiquidity),
	}
}
