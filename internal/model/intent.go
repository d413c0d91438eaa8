package model

import "fmt"

// Side is the direction of a trade intent.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// TradeIntent is a candidate trade produced by a signal generator.
// Quantity is always a positive multiple of the lot size; zero-quantity
// intents are never emitted. The risk gate classifies intents but never
// mutates them.
type TradeIntent struct {
	Symbol     string  `json:"symbol"`
	Side       Side    `json:"side"`
	Price      float64 `json:"price"`
	Quantity   int64   `json:"quantity"`
	Reason     string  `json:"reason"`
	SignalType string  `json:"signal_type"`
}

// Value returns the notional order value in yuan.
func (t *TradeIntent) Value() float64 {
	return t.Price * float64(t.Quantity)
}

func (t *TradeIntent) String() string {
	return fmt.Sprintf("%s %s %d@%.2f (%s)", t.Side, t.Symbol, t.Quantity, t.Price, t.SignalType)
}
