package model

import "context"

// These interfaces decouple the decision engine from the external
// collaborators that own networking and persistence (market data store,
// broker session, order gateway). Each implementation satisfies one or
// more of these ports.

// MarketData supplies per-symbol price history and live quotes.
type MarketData interface {
	// History returns the daily close series for a symbol, oldest first.
	History(ctx context.Context, symbol string) (PriceSeries, error)

	// LivePrice returns the latest traded price for a symbol.
	// Returns an error if no quote is available.
	LivePrice(ctx context.Context, symbol string) (float64, error)
}

// Broker supplies read-only account and position snapshots.
type Broker interface {
	// Account returns the current account state.
	Account(ctx context.Context) (AccountState, error)

	// Positions returns current positions keyed by symbol.
	Positions(ctx context.Context) (map[string]Position, error)
}

// OrderSubmitter hands an accepted intent to the execution collaborator.
// Submission is fire-and-forget: the returned sequence number acknowledges
// that the request was sent, not that it filled. Fills arrive out-of-band
// and are reflected in the next cycle's snapshots.
type OrderSubmitter interface {
	Submit(ctx context.Context, intent TradeIntent) (int64, error)
}
