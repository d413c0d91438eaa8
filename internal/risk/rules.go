// Package risk gates candidate trade intents through ordered capital and
// exposure checks before they reach the execution collaborator.
package risk

// Rules defines configurable risk limits.
type Rules struct {
	MaxPositionRatio float64  `json:"max_position_ratio"` // max position value / total asset, per symbol
	MaxDailyTrades   int      `json:"max_daily_trades"`   // accepted trades per calendar day
	MaxOrderValue    float64  `json:"max_order_value"`    // yuan per order
	Blacklist        []string `json:"blacklist"`
}

// DefaultRules returns conservative default limits.
func DefaultRules() Rules {
	return Rules{
		MaxPositionRatio: 0.1,
		MaxDailyTrades:   10,
		MaxOrderValue:    50000,
	}
}
