package model

// Position represents a held position, refreshed each cycle from the broker.
// Read-only to the decision engine.
type Position struct {
	Symbol      string  `json:"symbol"`
	Volume      int64   `json:"volume"`       // shares held
	AvgPrice    float64 `json:"avg_price"`    // yuan
	MarketValue float64 `json:"market_value"` // yuan
}

// AccountState is the broker's account snapshot for one cycle.
// Read-only to the decision engine.
type AccountState struct {
	Cash          float64 `json:"cash"`
	AvailableCash float64 `json:"available_cash"`
	TotalAsset    float64 `json:"total_asset"`
}
