// Package execution handles order placement for accepted trade intents.
//
// The paper executor simulates fills locally and doubles as the account
// and position source in paper mode. Live trading goes through the broker
// gateway client instead.
package execution

import (
	"time"

	"signal-enginev1/internal/model"
)

// Order status values.
const (
	StatusFilled   = "FILLED"
	StatusRejected = "REJECTED"
	StatusError    = "ERROR"
)

// OrderResult is the outcome of submitting a trade intent.
type OrderResult struct {
	OrderID int64             `json:"order_id"`
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Intent  model.TradeIntent `json:"intent"`
}

// Fill is a simulated execution of a trade intent.
type Fill struct {
	OrderID   int64             `json:"order_id"`
	Intent    model.TradeIntent `json:"intent"`
	FillPrice float64           `json:"fill_price"`
	FillQty   int64             `json:"fill_qty"`
	FilledAt  time.Time         `json:"filled_at"`
	Slippage  float64           `json:"slippage"`
}
