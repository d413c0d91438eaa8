package strategy

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"signal-enginev1/internal/indicator"
	"signal-enginev1/internal/model"
)

// Signal type keys for the EMA/std generator. Each carries its own daily
// throttle budget per symbol.
const (
	SignalExtremeBuy  = "extreme_buy"
	SignalTrendBuy    = "trend_buy"
	SignalPartialSell = "partial_sell"
	SignalFullSell    = "full_sell"
)

// EMAStdConfig holds the EMA/std generator parameters.
type EMAStdConfig struct {
	ShortTerm int     // short EMA span
	LongTerm  int     // long EMA span
	StdTerm   int     // rolling deviation window
	StdTimes  float64 // deviation multiplier for the extreme rules

	OrderAmount float64 // target notional per buy, yuan
	SellRatio   float64 // fraction of position to trim on partial sell
	LotSize     int64   // board lot, shares

	MaxSignalTriggers int // per-day throttle budget per (signal, symbol)
}

// EMAStdConfigDefaults returns the stock parameter set.
func EMAStdConfigDefaults() EMAStdConfig {
	return EMAStdConfig{
		ShortTerm:         5,
		LongTerm:          21,
		StdTerm:           21,
		StdTimes:          3,
		OrderAmount:       50000,
		SellRatio:         0.5,
		LotSize:           100,
		MaxSignalTriggers: 1,
	}
}

// EMAStd evaluates four rules per symbol in fixed priority: extreme buy,
// trend buy (golden cross), partial sell, full sell (death cross). Buy
// rules run first and a buy intent short-circuits the sell rules for that
// symbol this cycle. Sell rules require a positive position.
//
// The throttle budget is consumed when a rule's condition passes, before
// the quantity check: a rule whose quantity rounds down to zero emits
// nothing but still spends its daily trigger.
type EMAStd struct {
	cfg      EMAStdConfig
	throttle *Throttle
}

// NewEMAStd creates the generator. A nil now clock defaults to time.Now;
// the clock drives the throttle's daily reset.
func NewEMAStd(cfg EMAStdConfig, now func() time.Time) *EMAStd {
	return &EMAStd{
		cfg:      cfg,
		throttle: NewThrottle(cfg.MaxSignalTriggers, now),
	}
}

func (s *EMAStd) Name() string { return "ema_std" }

// Evaluate runs one pass over the watch list.
func (s *EMAStd) Evaluate(ctx context.Context, md model.MarketData, positions map[string]model.Position, watchList []string) []Result {
	var results []Result

	for _, symbol := range watchList {
		price, err := md.LivePrice(ctx, symbol)
		if err != nil {
			results = append(results, Result{Symbol: symbol, Err: fmt.Errorf("live price: %w", err)})
			continue
		}
		if price == 0 {
			results = append(results, Result{Symbol: symbol, Err: fmt.Errorf("zero live price")})
			continue
		}

		history, err := md.History(ctx, symbol)
		if err != nil {
			results = append(results, Result{Symbol: symbol, Err: fmt.Errorf("history: %w", err)})
			continue
		}

		snap, err := indicator.Compute(symbol, history, price, s.cfg.ShortTerm, s.cfg.LongTerm, s.cfg.StdTerm)
		if err != nil {
			results = append(results, Result{Symbol: symbol, Err: err})
			continue
		}

		var volume int64
		if pos, ok := positions[symbol]; ok {
			volume = pos.Volume
		}

		if intent := s.checkBuy(snap, price); intent != nil {
			results = append(results, Result{Symbol: symbol, Intent: intent})
			continue
		}
		if intent := s.checkSell(snap, price, volume); intent != nil {
			results = append(results, Result{Symbol: symbol, Intent: intent})
		}
	}
	return results
}

func (s *EMAStd) checkBuy(snap indicator.Snapshot, price float64) *model.TradeIntent {
	// Rule 1: extreme deviation below the long EMA.
	if snap.EMAShortToday < snap.EMALongToday &&
		math.Abs(snap.DiffToday) > s.cfg.StdTimes*snap.StdToday &&
		s.throttle.CheckAndConsume(SignalExtremeBuy, snap.Symbol) {

		qty := lotFloor(s.cfg.OrderAmount/price, s.cfg.LotSize)
		if qty > 0 {
			log.Printf("[emastd] %s extreme buy: price=%.2f emaShort=%.4f emaLong=%.4f diff=%.4f std=%.4f",
				snap.Symbol, price, snap.EMAShortToday, snap.EMALongToday, snap.DiffToday, snap.StdToday)
			return &model.TradeIntent{
				Symbol:     snap.Symbol,
				Side:       model.SideBuy,
				Price:      price,
				Quantity:   qty,
				Reason:     "extreme deviation buy",
				SignalType: SignalExtremeBuy,
			}
		}
	}

	// Rule 2: golden cross.
	if snap.EMAShortYesterday < snap.EMALongYesterday &&
		snap.EMAShortToday > snap.EMALongToday &&
		s.throttle.CheckAndConsume(SignalTrendBuy, snap.Symbol) {

		qty := lotFloor(s.cfg.OrderAmount/price, s.cfg.LotSize)
		if qty > 0 {
			log.Printf("[emastd] %s trend buy (golden cross): price=%.2f emaShortYd=%.4f emaLongYd=%.4f emaShort=%.4f emaLong=%.4f",
				snap.Symbol, price, snap.EMAShortYesterday, snap.EMALongYesterday, snap.EMAShortToday, snap.EMALongToday)
			return &model.TradeIntent{
				Symbol:     snap.Symbol,
				Side:       model.SideBuy,
				Price:      price,
				Quantity:   qty,
				Reason:     "trend reversal buy",
				SignalType: SignalTrendBuy,
			}
		}
	}

	return nil
}

func (s *EMAStd) checkSell(snap indicator.Snapshot, price float64, volume int64) *model.TradeIntent {
	if volume <= 0 {
		return nil
	}

	// Rule 3: extreme deviation above the long EMA — trim the position.
	if snap.EMAShortToday > snap.EMALongToday &&
		math.Abs(snap.DiffToday) > s.cfg.StdTimes*snap.StdToday &&
		s.throttle.CheckAndConsume(SignalPartialSell, snap.Symbol) {

		qty := lotFloor(float64(volume)*s.cfg.SellRatio, s.cfg.LotSize)
		if qty > 0 {
			log.Printf("[emastd] %s partial sell: price=%.2f diff=%.4f std=%.4f qty=%d",
				snap.Symbol, price, snap.DiffToday, snap.StdToday, qty)
			return &model.TradeIntent{
				Symbol:     snap.Symbol,
				Side:       model.SideSell,
				Price:      price,
				Quantity:   qty,
				Reason:     "partial take-profit",
				SignalType: SignalPartialSell,
			}
		}
	}

	// Rule 4: death cross — exit the position.
	if snap.EMAShortYesterday > snap.EMALongYesterday &&
		snap.EMAShortToday < snap.EMALongToday &&
		s.throttle.CheckAndConsume(SignalFullSell, snap.Symbol) {

		qty := lotFloor(float64(volume), s.cfg.LotSize)
		if qty > 0 {
			log.Printf("[emastd] %s full sell (death cross): price=%.2f emaShortYd=%.4f emaLongYd=%.4f qty=%d",
				snap.Symbol, price, snap.EMAShortYesterday, snap.EMALongYesterday, qty)
			return &model.TradeIntent{
				Symbol:     snap.Symbol,
				Side:       model.SideSell,
				Price:      price,
				Quantity:   qty,
				Reason:     "full liquidation",
				SignalType: SignalFullSell,
			}
		}
	}

	return nil
}
