package model

// EngineEvent wraps a typed event payload with its position in the stream.
type EngineEvent struct {
	Seq       uint64      `json:"seq"`
	EventName string      `json:"event_name"`
	PoolID    string      `json:"pool_id"`
	Decoded   interface{} `json:"decoded"`
}

// PoolCreatedData is the payload emitted when a pool is created.
type PoolCreatedData struct {
	Token0 string `json:"token0"`
	Token1 string `json:"token1"`
	Fee    uint32 `json:"fee"`
}

// LiquidityMintedData is the payload emitted when liquidity is deposited.
// Liquidity is the amount added to the pool total, which on the first
// deposit exceeds the owner's credit by the locked minimum.
type LiquidityMintedData struct {
	Owner     string `json:"owner"`
	Liquidity string `json:"liquidity"`
	Amount0   string `json:"amount0"`
	Amount1   string `json:"amount1"`
}

// LiquidityBurnedData is the payload emitted when liquidity is withdrawn.
type LiquidityBurnedData struct {
	Owner     string `json:"owner"`
	Liquidity string `json:"liquidity"`
	Amount0   string `json:"amount0"`
	Amount1   string `json:"amount1"`
}

// SwapData is the payload emitted when a swap executes.
type SwapData struct {
	Sender       string `json:"sender"`
	InputAmount  string `json:"input_amount"`
	OutputAmount string `json:"output_amount"`
	ZeroForOne   bool   `json:"zero_for_one"`
}
