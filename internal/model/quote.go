package model

import (
	"encoding/json"
	"time"
)

// Quote is the latest traded price snapshot for a single symbol.
type Quote struct {
	Symbol string    `json:"symbol"`
	Price  float64   `json:"price"` // yuan
	TS     time.Time `json:"ts"`
}

// JSON returns the JSON-encoded quote (ignoring errors for hot-path usage).
func (q *Quote) JSON() []byte {
	b, _ := json.Marshal(q)
	return b
}

// PriceSeries is a chronological sequence of daily closing prices for one
// symbol, oldest first.
type PriceSeries []float64

// WithLast returns a copy of the series with the final element replaced,
// forming a synthetic "as-of-now" bar. The stored history is not mutated.
func (s PriceSeries) WithLast(price float64) PriceSeries {
	out := make(PriceSeries, len(s))
	copy(out, s)
	if len(out) > 0 {
		out[len(out)-1] = price
	}
	return out
}
