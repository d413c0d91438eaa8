package strategy

import (
	"context"
	"testing"

	"signal-enginev1/internal/model"
)

func smallMACross() *MACross {
	return NewMACross(MACrossConfig{FastPeriod: 2, SlowPeriod: 3, Volume: 100})
}

func TestMACross_GoldenCrossBuysWhenFlat(t *testing.T) {
	// closes [10,10,10,9,12]: prevFast=9.5 ≤ prevSlow=9.667,
	// currFast=10.5 > currSlow=10.333 → golden cross.
	md := &fakeMarketData{histories: map[string]model.PriceSeries{"000002.SZ": {10, 10, 10, 9, 12}}}
	gen := smallMACross()

	results := gen.Evaluate(context.Background(), md, nil, []string{"000002.SZ"})
	if len(results) != 1 || results[0].Intent == nil {
		t.Fatalf("expected 1 intent, got %+v", results)
	}
	intent := results[0].Intent
	if intent.Side != model.SideBuy || intent.Quantity != 100 {
		t.Errorf("expected buy of the fixed 100 shares, got %s %d", intent.Side, intent.Quantity)
	}
	if intent.Price != 12 {
		t.Errorf("expected last close 12 as price, got %.2f", intent.Price)
	}

	// Same cross again: lastSignal suppresses re-emission.
	if res := gen.Evaluate(context.Background(), md, nil, []string{"000002.SZ"}); len(res) != 0 {
		t.Errorf("repeated golden cross must be suppressed, got %+v", res)
	}
}

func TestMACross_GoldenCrossIgnoredWhileHoldingPosition(t *testing.T) {
	md := &fakeMarketData{histories: map[string]model.PriceSeries{"000002.SZ": {10, 10, 10, 9, 12}}}
	gen := smallMACross()
	positions := map[string]model.Position{"000002.SZ": {Symbol: "000002.SZ", Volume: 100}}

	if res := gen.Evaluate(context.Background(), md, positions, []string{"000002.SZ"}); len(res) != 0 {
		t.Errorf("golden cross with a position must not buy, got %+v", res)
	}
}

func TestMACross_DeathCrossSellsHeldVolume(t *testing.T) {
	// closes [10,10,10,11,8]: prevFast=10.5 ≥ prevSlow=10.333,
	// currFast=9.5 < currSlow=9.667 → death cross.
	md := &fakeMarketData{histories: map[string]model.PriceSeries{"600036.SH": {10, 10, 10, 11, 8}}}
	gen := smallMACross()
	positions := map[string]model.Position{"600036.SH": {Symbol: "600036.SH", Volume: 500}}

	results := gen.Evaluate(context.Background(), md, positions, []string{"600036.SH"})
	if len(results) != 1 || results[0].Intent == nil {
		t.Fatalf("expected 1 intent, got %+v", results)
	}
	intent := results[0].Intent
	if intent.Side != model.SideSell {
		t.Errorf("expected sell, got %s", intent.Side)
	}
	if intent.Quantity != 500 {
		t.Errorf("death cross must sell the actual held volume, got %d", intent.Quantity)
	}

	if res := gen.Evaluate(context.Background(), md, positions, []string{"600036.SH"}); len(res) != 0 {
		t.Errorf("repeated death cross must be suppressed, got %+v", res)
	}
}

func TestMACross_DeathCrossIgnoredWhenFlat(t *testing.T) {
	md := &fakeMarketData{histories: map[string]model.PriceSeries{"600036.SH": {10, 10, 10, 11, 8}}}
	gen := smallMACross()

	if res := gen.Evaluate(context.Background(), md, nil, []string{"600036.SH"}); len(res) != 0 {
		t.Errorf("death cross without a position must not sell, got %+v", res)
	}
}

func TestMACross_TooLittleHistorySkipsSilently(t *testing.T) {
	md := &fakeMarketData{histories: map[string]model.PriceSeries{"X": {10, 11, 12}}}
	gen := smallMACross()

	if res := gen.Evaluate(context.Background(), md, nil, []string{"X"}); len(res) != 0 {
		t.Errorf("short series must be skipped without a result, got %+v", res)
	}
}
