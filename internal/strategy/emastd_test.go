package strategy

import (
	"context"
	"testing"
	"time"

	"signal-enginev1/internal/model"
)

func testClock() func() time.Time {
	return fixedClock(time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local))
}

// Small spans so hand-built series stay readable: short=2, long=3, std=3,
// requiring history length ≥ 5.
func smallSpanConfig() EMAStdConfig {
	cfg := EMAStdConfigDefaults()
	cfg.ShortTerm = 2
	cfg.LongTerm = 3
	cfg.StdTerm = 3
	return cfg
}

func TestEMAStd_TrendBuyGoldenCross(t *testing.T) {
	// Declining closes with a strong live jump: working series
	// [10,9,8,7,12] gives emaShortYd=7.4815 < emaLongYd=7.875 and
	// emaShortToday=10.4938 > emaLongToday=9.9375.
	md := &fakeMarketData{
		histories: map[string]model.PriceSeries{"600000.SH": {10, 9, 8, 7, 6}},
		prices:    map[string]float64{"600000.SH": 12},
	}
	gen := NewEMAStd(smallSpanConfig(), testClock())

	results := gen.Evaluate(context.Background(), md, nil, []string{"600000.SH"})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	intent := results[0].Intent
	if intent == nil {
		t.Fatalf("expected an intent, got error %v", results[0].Err)
	}
	if intent.Side != model.SideBuy || intent.SignalType != SignalTrendBuy {
		t.Errorf("expected trend_buy, got %s/%s", intent.Side, intent.SignalType)
	}
	// 50000 / 12 = 4166.67 shares → 4100 after lot flooring.
	if intent.Quantity != 4100 {
		t.Errorf("expected quantity 4100, got %d", intent.Quantity)
	}
	if intent.Price != 12 {
		t.Errorf("intent must carry the live price, got %.2f", intent.Price)
	}
}

func TestEMAStd_ExtremeBuy(t *testing.T) {
	// Flat history with a live collapse: emaShortToday=6.67 < emaLongToday=7.5,
	// |diff|=0.833, sample std of trailing diffs ≈ 0.481. stdTimes=0.5 keeps
	// the deviation gate open for the small series.
	cfg := smallSpanConfig()
	cfg.StdTimes = 0.5
	md := &fakeMarketData{
		histories: map[string]model.PriceSeries{"000001.SZ": {10, 10, 10, 10, 10}},
		prices:    map[string]float64{"000001.SZ": 5},
	}
	gen := NewEMAStd(cfg, testClock())

	results := gen.Evaluate(context.Background(), md, nil, []string{"000001.SZ"})
	if len(results) != 1 || results[0].Intent == nil {
		t.Fatalf("expected 1 intent, got %+v", results)
	}
	intent := results[0].Intent
	if intent.SignalType != SignalExtremeBuy || intent.Side != model.SideBuy {
		t.Errorf("expected extreme_buy, got %s/%s", intent.Side, intent.SignalType)
	}
	if intent.Quantity != 10000 { // 50000 / 5 = 10000 shares
		t.Errorf("expected quantity 10000, got %d", intent.Quantity)
	}
}

func TestEMAStd_PartialSellRequiresPosition(t *testing.T) {
	// Flat history with a live spike: emaShortToday > emaLongToday and the
	// deviation gate open at stdTimes=0.5.
	cfg := smallSpanConfig()
	cfg.StdTimes = 0.5
	md := &fakeMarketData{
		histories: map[string]model.PriceSeries{"600519.SH": {10, 10, 10, 10, 10}},
		prices:    map[string]float64{"600519.SH": 15},
	}

	// Without a position nothing fires.
	gen := NewEMAStd(cfg, testClock())
	if res := gen.Evaluate(context.Background(), md, nil, []string{"600519.SH"}); len(res) != 0 {
		t.Fatalf("flat book must not sell, got %+v", res)
	}

	// With 500 shares held, sell half rounded to the lot: 200.
	gen = NewEMAStd(cfg, testClock())
	positions := map[string]model.Position{"600519.SH": {Symbol: "600519.SH", Volume: 500}}
	results := gen.Evaluate(context.Background(), md, positions, []string{"600519.SH"})
	if len(results) != 1 || results[0].Intent == nil {
		t.Fatalf("expected 1 intent, got %+v", results)
	}
	intent := results[0].Intent
	if intent.SignalType != SignalPartialSell || intent.Side != model.SideSell {
		t.Errorf("expected partial_sell, got %s/%s", intent.Side, intent.SignalType)
	}
	if intent.Quantity != 200 { // floor(500·0.5/100)·100
		t.Errorf("expected quantity 200, got %d", intent.Quantity)
	}
}

func TestEMAStd_FullSellDeathCross(t *testing.T) {
	// Rising closes with a live drop: working series [7,8,9,10,6] gives
	// emaShortYd=9.5185 > emaLongYd=9.125 and emaShortToday=7.1728 <
	// emaLongToday=7.5625. stdTimes large enough to keep the deviation
	// rules quiet so the cross rule is isolated.
	cfg := smallSpanConfig()
	cfg.StdTimes = 100
	md := &fakeMarketData{
		histories: map[string]model.PriceSeries{"600000.SH": {7, 8, 9, 10, 11}},
		prices:    map[string]float64{"600000.SH": 6},
	}
	gen := NewEMAStd(cfg, testClock())
	positions := map[string]model.Position{"600000.SH": {Symbol: "600000.SH", Volume: 500}}

	results := gen.Evaluate(context.Background(), md, positions, []string{"600000.SH"})
	if len(results) != 1 || results[0].Intent == nil {
		t.Fatalf("expected 1 intent, got %+v", results)
	}
	intent := results[0].Intent
	if intent.SignalType != SignalFullSell || intent.Side != model.SideSell {
		t.Errorf("expected full_sell, got %s/%s", intent.Side, intent.SignalType)
	}
	if intent.Quantity != 500 {
		t.Errorf("expected the full 500 shares, got %d", intent.Quantity)
	}
}

func TestEMAStd_ThrottleConsumedBeforeQuantityCheck(t *testing.T) {
	// Extreme-buy condition holds but the order amount rounds below one
	// lot: nothing is emitted, yet the daily trigger is already spent.
	cfg := smallSpanConfig()
	cfg.StdTimes = 0.5
	cfg.OrderAmount = 50 // 50 / 5 = 10 shares → floors to 0
	md := &fakeMarketData{
		histories: map[string]model.PriceSeries{"000001.SZ": {10, 10, 10, 10, 10}},
		prices:    map[string]float64{"000001.SZ": 5},
	}
	gen := NewEMAStd(cfg, testClock())

	if res := gen.Evaluate(context.Background(), md, nil, []string{"000001.SZ"}); len(res) != 0 {
		t.Fatalf("zero-lot quantity must suppress emission, got %+v", res)
	}
	if gen.throttle.CheckAndConsume(SignalExtremeBuy, "000001.SZ") {
		t.Error("budget must already be consumed by the suppressed evaluation")
	}
}

func TestEMAStd_ThrottleSuppressesRepeat(t *testing.T) {
	md := &fakeMarketData{
		histories: map[string]model.PriceSeries{"600000.SH": {10, 9, 8, 7, 6}},
		prices:    map[string]float64{"600000.SH": 12},
	}
	gen := NewEMAStd(smallSpanConfig(), testClock())

	first := gen.Evaluate(context.Background(), md, nil, []string{"600000.SH"})
	if len(first) != 1 || first[0].Intent == nil {
		t.Fatalf("first cycle must emit, got %+v", first)
	}
	second := gen.Evaluate(context.Background(), md, nil, []string{"600000.SH"})
	if len(second) != 0 {
		t.Errorf("same-day repeat must be throttled, got %+v", second)
	}
}

func TestEMAStd_BadSymbolsDoNotAbortBatch(t *testing.T) {
	md := &fakeMarketData{
		histories: map[string]model.PriceSeries{
			"SHORT":     {10, 9},          // insufficient history
			"600000.SH": {10, 9, 8, 7, 6}, // healthy golden-cross setup
		},
		prices: map[string]float64{
			"SHORT":     10,
			"NOQUOTE":   0, // zero live price
			"600000.SH": 12,
		},
	}
	gen := NewEMAStd(smallSpanConfig(), testClock())

	results := gen.Evaluate(context.Background(), md, nil, []string{"SHORT", "NOQUOTE", "MISSING", "600000.SH"})

	var intents, errs int
	for _, r := range results {
		if r.Intent != nil {
			intents++
			if r.Symbol != "600000.SH" {
				t.Errorf("intent from unexpected symbol %s", r.Symbol)
			}
		}
		if r.Err != nil {
			errs++
		}
	}
	if intents != 1 {
		t.Errorf("expected 1 intent from the healthy symbol, got %d", intents)
	}
	if errs != 3 {
		t.Errorf("expected 3 per-symbol errors, got %d", errs)
	}
}
