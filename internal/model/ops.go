package model

// Operation op kinds accepted by the replay pipeline.
const (
	OpFund            = "fund"
	OpCreatePool      = "create_pool"
	OpAddLiquidity    = "add_liquidity"
	OpRemoveLiquidity = "remove_liquidity"
	OpSwap            = "swap"
)

// Operation is one line of an operation log. Amount fields are decimal
// strings; asset fields are "native" or hex addresses. Which fields are
// required depends on Op.
type Operation struct {
	Seq    uint64 `json:"seq"`
	Op     string `json:"op"`
	Sender string `json:"sender"`

	// create_pool / fund
	AssetA string `json:"asset_a,omitempty"`
	AssetB string `json:"asset_b,omitempty"`
	Fee    uint32 `json:"fee,omitempty"`
	Amount string `json:"amount,omitempty"`

	// pool-scoped operations
	PoolID string `json:"pool_id,omitempty"`

	// add_liquidity
	Amount0Desired string `json:"amount0_desired,omitempty"`
	Amount1Desired string `json:"amount1_desired,omitempty"`
	Amount0Min     string `json:"amount0_min,omitempty"`
	Amount1Min     string `json:"amount1_min,omitempty"`

	// remove_liquidity
	Liquidity string `json:"liquidity,omitempty"`

	// swap
	InputAmount     string `json:"input_amount,omitempty"`
	MinOutputAmount string `json:"min_output_amount,omitempty"`
	ZeroForOne      bool   `json:"zero_for_one,omitempty"`

	// native value attached to add_liquidity / swap
	NativeValue string `json:"native_value,omitempty"`
}

// PoolRecord is a pool snapshot for storage.
type PoolRecord struct {
	PoolID         string `json:"pool_id"`
	Token0         string `json:"token0"`
	Token1         string `json:"token1"`
	Fee            uint32 `json:"fee"`
	Reserve0       string `json:"reserve0"`
	Reserve1       string `json:"reserve1"`
	TotalLiquidity string `json:"total_liquidity"`
}

// PositionRecord is a position snapshot for storage.
type PositionRecord struct {
	PoolID    string `json:"pool_id"`
	Owner     string `json:"owner"`
	Liquidity string `json:"liquidity"`
}
