package engine

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"swapEngine/internal/model"
)

var (
	// ErrPoolAlreadyExists is returned on a second creation for the same
	// canonical pool ID.
	ErrPoolAlreadyExists = errors.New("pool already exists")
	// ErrPoolDoesNotExist is returned when an operation targets an unknown
	// pool ID.
	ErrPoolDoesNotExist = errors.New("pool does not exist")
)

// Store holds all pool and position state for one engine instance. Every
// mutation is journaled so a frame can be unwound with RevertToSnapshot.
type Store struct {
	pools     map[common.Hash]*model.Pool
	positions map[common.Hash]*positionEntry
	journal   []func()
}

// positionEntry keeps the pool ID next to the position so state can be
// exported without inverting the position-ID hash.
type positionEntry struct {
	poolID   common.Hash
	position *model.Position
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		pools:     make(map[common.Hash]*model.Pool),
		positions: make(map[common.Hash]*positionEntry),
	}
}

// CreatePool inserts a zero-reserve pool under the given ID.
func (s *Store) CreatePool(id common.Hash, token0, token1 model.Asset, fee uint32) (*model.Pool, error) {
	if _, exists := s.pools[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrPoolAlreadyExists, id.Hex())
	}
	pool := &model.Pool{
		Token0:         token0,
		Token1:         token1,
		Fee:            fee,
		Reserve0:       new(uint256.Int),
		Reserve1:       new(uint256.Int),
		TotalLiquidity: new(uint256.Int),
	}
	s.journal = append(s.journal, func() { delete(s.pools, id) })
	s.pools[id] = pool
	return pool.Clone(), nil
}

// Pool returns a copy of the pool record.
func (s *Store) Pool(id common.Hash) (*model.Pool, error) {
	pool, ok := s.pools[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPoolDoesNotExist, id.Hex())
	}
	return pool.Clone(), nil
}

// UpdatePoolState replaces the pool's reserves and total liquidity.
func (s *Store) UpdatePoolState(id common.Hash, reserve0, reserve1, totalLiquidity *uint256.Int) error {
	pool, ok := s.pools[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPoolDoesNotExist, id.Hex())
	}
	prev0, prev1, prevTotal := pool.Reserve0, pool.Reserve1, pool.TotalLiquidity
	s.journal = append(s.journal, func() {
		pool.Reserve0, pool.Reserve1, pool.TotalLiquidity = prev0, prev1, prevTotal
	})
	pool.Reserve0 = new(uint256.Int).Set(reserve0)
	pool.Reserve1 = new(uint256.Int).Set(reserve1)
	pool.TotalLiquidity = new(uint256.Int).Set(totalLiquidity)
	return nil
}

// PositionLiquidity returns the owner's liquidity in the pool, zero when the
// position is absent.
func (s *Store) PositionLiquidity(poolID common.Hash, owner common.Address) *uint256.Int {
	if entry, ok := s.positions[model.PositionID(poolID, owner)]; ok {
		return new(uint256.Int).Set(entry.position.Liquidity)
	}
	return new(uint256.Int)
}

// SetPositionLiquidity sets the owner's liquidity in the pool, removing the
// record entirely at zero so empty positions stay logically absent.
func (s *Store) SetPositionLiquidity(poolID common.Hash, owner common.Address, liquidity *uint256.Int) {
	id := model.PositionID(poolID, owner)
	prev, existed := s.positions[id]
	s.journal = append(s.journal, func() {
		if existed {
			s.positions[id] = prev
		} else {
			delete(s.positions, id)
		}
	})
	if liquidity.IsZero() {
		delete(s.positions, id)
		return
	}
	s.positions[id] = &positionEntry{
		poolID:   poolID,
		position: &model.Position{Owner: owner, Liquidity: new(uint256.Int).Set(liquidity)},
	}
}

// Snapshot marks the current journal position.
func (s *Store) Snapshot() int {
	return len(s.journal)
}

// RevertToSnapshot unwinds every mutation recorded after the snapshot.
func (s *Store) RevertToSnapshot(id int) {
	for i := len(s.journal) - 1; i >= id; i-- {
		s.journal[i]()
	}
	s.journal = s.journal[:id]
}

// DiscardSnapshots drops the undo journal after a committed call.
func (s *Store) DiscardSnapshots() {
	s.journal = s.journal[:0]
}

// PoolIDs returns all pool IDs in lexical order.
func (s *Store) PoolIDs() []common.Hash {
	ids := make([]common.Hash, 0, len(s.pools))
	for id := range s.pools {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Hex() < ids[j].Hex() })
	return ids
}

// eachPosition visits all positions in a deterministic order.
func (s *Store) eachPosition(fn func(poolID common.Hash, p *model.Position)) {
	ids := make([]common.Hash, 0, len(s.positions))
	for id := range s.positions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Hex() < ids[j].Hex() })
	for _, id := range ids {
		entry := s.positions[id]
		fn(entry.poolID, entry.position)
	}
}
