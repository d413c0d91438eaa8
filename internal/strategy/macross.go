package strategy

import (
	"context"
	"fmt"
	"log"

	"signal-enginev1/internal/model"
)

// MACrossConfig holds the MA-crossover generator parameters.
type MACrossConfig struct {
	FastPeriod int   // fast SMA window
	SlowPeriod int   // slow SMA window
	Volume     int64 // fixed buy volume, shares
}

// MACrossConfigDefaults returns the stock parameter set.
func MACrossConfigDefaults() MACrossConfig {
	return MACrossConfig{FastPeriod: 5, SlowPeriod: 20, Volume: 100}
}

// MACross is the simple fast/slow SMA crossover generator.
//
// Buy on a golden cross when flat, sell the held volume on a death cross.
// lastSignal remembers the side of this generator's own last emission per
// symbol and suppresses re-emission until the opposite cross; it is never
// reconciled against externally observed fills, so a position closed by an
// outside event does not re-arm the buy side until a fresh cross.
// Designed for single-goroutine usage — no locks needed.
type MACross struct {
	cfg        MACrossConfig
	lastSignal map[string]model.Side
}

// NewMACross creates the generator.
func NewMACross(cfg MACrossConfig) *MACross {
	return &MACross{
		cfg:        cfg,
		lastSignal: make(map[string]model.Side),
	}
}

func (s *MACross) Name() string { return "ma_cross" }

// Evaluate runs one pass over the watch list. At most one signal per
// symbol per cycle; the buy side is checked first.
func (s *MACross) Evaluate(ctx context.Context, md model.MarketData, positions map[string]model.Position, watchList []string) []Result {
	var results []Result

	for _, symbol := range watchList {
		closes, err := md.History(ctx, symbol)
		if err != nil {
			results = append(results, Result{Symbol: symbol, Err: fmt.Errorf("history: %w", err)})
			continue
		}
		// Need the slow window plus one prior value for crossover detection.
		if len(closes) < s.cfg.SlowPeriod+1 {
			continue
		}

		currFast := trailingMean(closes, len(closes)-1, s.cfg.FastPeriod)
		currSlow := trailingMean(closes, len(closes)-1, s.cfg.SlowPeriod)
		prevFast := trailingMean(closes, len(closes)-2, s.cfg.FastPeriod)
		prevSlow := trailingMean(closes, len(closes)-2, s.cfg.SlowPeriod)

		price := closes[len(closes)-1]
		pos, hasPosition := positions[symbol]
		hasPosition = hasPosition && pos.Volume > 0

		// Golden cross buy.
		if prevFast <= prevSlow && currFast > currSlow && !hasPosition {
			if s.lastSignal[symbol] != model.SideBuy {
				log.Printf("[macross] %s golden cross: fast %.2f above slow %.2f", symbol, currFast, currSlow)
				s.lastSignal[symbol] = model.SideBuy
				results = append(results, Result{Symbol: symbol, Intent: &model.TradeIntent{
					Symbol:     symbol,
					Side:       model.SideBuy,
					Price:      price,
					Quantity:   s.cfg.Volume,
					Reason:     "MA golden cross",
					SignalType: "ma_golden_cross",
				}})
			}
			continue
		}

		// Death cross sell — uses the actual held volume.
		if prevFast >= prevSlow && currFast < currSlow && hasPosition {
			if s.lastSignal[symbol] != model.SideSell {
				log.Printf("[macross] %s death cross: fast %.2f below slow %.2f", symbol, currFast, currSlow)
				s.lastSignal[symbol] = model.SideSell
				results = append(results, Result{Symbol: symbol, Intent: &model.TradeIntent{
					Symbol:     symbol,
					Side:       model.SideSell,
					Price:      price,
					Quantity:   pos.Volume,
					Reason:     "MA death cross",
					SignalType: "ma_death_cross",
				}})
			}
		}
	}
	return results
}

// trailingMean averages the window of values ending at index end inclusive.
func trailingMean(vals model.PriceSeries, end, window int) float64 {
	sum := 0.0
	for i := end - window + 1; i <= end; i++ {
		sum += vals[i]
	}
	return sum / float64(window)
}
