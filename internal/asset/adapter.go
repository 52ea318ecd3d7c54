// Package asset provides the uniform custody interface over the native
// currency and fungible tokens, plus the in-memory ledger implementation.
package asset

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"swapEngine/internal/model"
)

// ErrInsufficientBalance is returned when a transfer exceeds the holder's
// balance.
var ErrInsufficientBalance = errors.New("insufficient balance")

// Adapter moves assets between external owners and the pool custody
// account. Snapshot/RevertToSnapshot let a caller discard every movement
// made since a snapshot, so a failed engine call leaves no asset effects.
type Adapter interface {
	// BalanceOf returns the owner's balance of the asset. Never nil.
	BalanceOf(owner common.Address, a model.Asset) *uint256.Int
	// Pull moves amount of the asset from the owner into pool custody.
	Pull(from common.Address, a model.Asset, amount *uint256.Int) error
	// Push moves amount of the asset from pool custody to the owner.
	Push(to common.Address, a model.Asset, amount *uint256.Int) error

	Snapshot() int
	RevertToSnapshot(id int)
	// DiscardSnapshots drops accumulated undo state after a committed call.
	DiscardSnapshots()
}
