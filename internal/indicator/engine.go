// Package indicator computes EMA and rolling-deviation state from daily
// close series. All computations are pure functions of their inputs; the
// decision engine recomputes per cycle rather than carrying streaming state.
package indicator

import (
	"errors"
	"math"

	"signal-enginev1/internal/model"
)

// ErrInsufficientHistory is returned when the close series is too short for
// the requested EMA spans and deviation window.
var ErrInsufficientHistory = errors.New("insufficient history for EMA/std computation")

// Snapshot holds the indicator state for one symbol at one evaluation
// instant. It is owned by a single cycle and never persisted.
type Snapshot struct {
	Symbol string

	EMAShortToday float64
	EMALongToday  float64
	DiffToday     float64 // EMAShortToday − EMALongToday
	StdToday      float64 // NaN until the deviation window has filled

	EMAShortYesterday float64
	EMALongYesterday  float64
}

// StdReady reports whether StdToday is defined. Rules gated on the rolling
// deviation are disabled while it is false.
func (s Snapshot) StdReady() bool {
	return !math.IsNaN(s.StdToday)
}

// Compute evaluates EMA short/long and the rolling deviation of their
// difference over a working series equal to history with its last close
// replaced by livePrice. Today's values come from the last index,
// yesterday's EMAs from the second-to-last.
//
// Requires len(history) ≥ max(longSpan, stdWindow) + 2, otherwise
// ErrInsufficientHistory.
func Compute(symbol string, history model.PriceSeries, livePrice float64, shortSpan, longSpan, stdWindow int) (Snapshot, error) {
	need := longSpan
	if stdWindow > need {
		need = stdWindow
	}
	if len(history) < need+2 {
		return Snapshot{}, ErrInsufficientHistory
	}

	work := history.WithLast(livePrice)

	emaShort := EMASeries(work, shortSpan)
	emaLong := EMASeries(work, longSpan)

	diff := make([]float64, len(work))
	for i := range work {
		diff[i] = emaShort[i] - emaLong[i]
	}
	std := RollingStd(diff, stdWindow)

	last := len(work) - 1
	return Snapshot{
		Symbol:            symbol,
		EMAShortToday:     emaShort[last],
		EMALongToday:      emaLong[last],
		DiffToday:         diff[last],
		StdToday:          std[last],
		EMAShortYesterday: emaShort[last-1],
		EMALongYesterday:  emaLong[last-1],
	}, nil
}
