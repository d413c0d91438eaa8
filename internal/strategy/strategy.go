// Package strategy provides the signal generators of the decision engine.
//
// A Generator evaluates the watch list once per cycle against read-only
// market, account, and position snapshots and emits candidate trade
// intents. Per-symbol failures are collected as Results so that one bad
// symbol never aborts the batch.
package strategy

import (
	"context"

	"signal-enginev1/internal/model"
)

// Result is the outcome of evaluating a single symbol: a candidate intent,
// an error, or (for symbols with nothing to say) neither — those are not
// reported at all.
type Result struct {
	Symbol string
	Intent *model.TradeIntent
	Err    error
}

// Generator is the interface all signal generators implement.
type Generator interface {
	// Name returns a stable generator identifier, e.g. "ema_std".
	Name() string

	// Evaluate runs one pass over the watch list. At most one intent is
	// emitted per symbol per cycle. Evaluate must not mutate positions.
	Evaluate(ctx context.Context, md model.MarketData, positions map[string]model.Position, watchList []string) []Result
}

// lotFloor rounds shares down to a whole number of lots.
// Returns 0 when shares is below one lot.
func lotFloor(shares float64, lotSize int64) int64 {
	if lotSize <= 0 || shares <= 0 {
		return 0
	}
	return int64(shares) / lotSize * lotSize
}
