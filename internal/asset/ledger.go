package asset

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"swapEngine/internal/model"
)

type balanceKey struct {
	asset common.Address
	owner common.Address
}

// Ledger is an in-memory asset ledger with a designated custody account.
// Native balances live under the zero-address asset key, so both variants
// move through the same book-keeping. Every mutation is journaled for
// snapshot/revert.
type Ledger struct {
	custody  common.Address
	balances map[balanceKey]*uint256.Int
	journal  []func()
}

// NewLedger creates a ledger whose pool custody is held by the given account.
func NewLedger(custody common.Address) *Ledger {
	return &Ledger{
		custody:  custody,
		balances: make(map[balanceKey]*uint256.Int),
	}
}

// Custody returns the custody account address.
func (l *Ledger) Custody() common.Address {
	return l.custody
}

// Mint credits an owner with amount of the asset. Used to seed fixtures;
// journaled like any other mutation.
func (l *Ledger) Mint(owner common.Address, a model.Asset, amount *uint256.Int) {
	key := balanceKey{asset: a.Address(), owner: owner}
	l.set(key, new(uint256.Int).Add(l.get(key), amount))
}

// BalanceOf returns the owner's balance of the asset.
func (l *Ledger) BalanceOf(owner common.Address, a model.Asset) *uint256.Int {
	return new(uint256.Int).Set(l.get(balanceKey{asset: a.Address(), owner: owner}))
}

// Pull moves amount from the owner into custody.
func (l *Ledger) Pull(from common.Address, a model.Asset, amount *uint256.Int) error {
	return l.transfer(from, l.custody, a, amount)
}

// Push moves amount from custody to the owner.
func (l *Ledger) Push(to common.Address, a model.Asset, amount *uint256.Int) error {
	return l.transfer(l.custody, to, a, amount)
}

func (l *Ledger) transfer(from, to common.Address, a model.Asset, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	fromKey := balanceKey{asset: a.Address(), owner: from}
	toKey := balanceKey{asset: a.Address(), owner: to}

	fromBalance := l.get(fromKey)
	if fromBalance.Lt(amount) {
		return fmt.Errorf("%w: %s has %s of %s, moving %s",
			ErrInsufficientBalance, from.Hex(), fromBalance.Dec(), a, amount.Dec())
	}

	l.set(fromKey, new(uint256.Int).Sub(fromBalance, amount))
	l.set(toKey, new(uint256.Int).Add(l.get(toKey), amount))
	return nil
}

// Snapshot marks the current journal position.
func (l *Ledger) Snapshot() int {
	return len(l.journal)
}

// RevertToSnapshot unwinds every mutation recorded after the snapshot.
func (l *Ledger) RevertToSnapshot(id int) {
	for i := len(l.journal) - 1; i >= id; i-- {
		l.journal[i]()
	}
	l.journal = l.journal[:id]
}

// DiscardSnapshots drops the undo journal after a committed call.
func (l *Ledger) DiscardSnapshots() {
	l.journal = l.journal[:0]
}

func (l *Ledger) get(key balanceKey) *uint256.Int {
	if b, ok := l.balances[key]; ok {
		return b
	}
	return new(uint256.Int)
}

func (l *Ledger) set(key balanceKey, value *uint256.Int) {
	prev, existed := l.balances[key]
	l.journal = append(l.journal, func() {
		if existed {
			l.balances[key] = prev
		} else {
			delete(l.balances, key)
		}
	})
	l.balances[key] = value
}
