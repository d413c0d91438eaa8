package risk

import (
	"strings"
	"testing"
	"time"

	"signal-enginev1/internal/model"
)

func testRules() Rules {
	return Rules{
		MaxPositionRatio: 0.1,
		MaxDailyTrades:   10,
		MaxOrderValue:    50000,
		Blacklist:        []string{"300001.SZ"},
	}
}

func ampleAccount() model.AccountState {
	return model.AccountState{Cash: 1000000, AvailableCash: 1000000, TotalAsset: 1000000}
}

func buyIntent(symbol string, price float64, qty int64) model.TradeIntent {
	return model.TradeIntent{Symbol: symbol, Side: model.SideBuy, Price: price, Quantity: qty}
}

func TestGate_AcceptIncrementsCounter(t *testing.T) {
	g := NewGate(testRules(), nil)

	ok, reason := g.Check(buyIntent("600000.SH", 10, 100), ampleAccount(), nil)
	if !ok {
		t.Fatalf("expected acceptance, got %q", reason)
	}
	if g.DailyTrades() != 1 {
		t.Errorf("expected dailyTrades=1, got %d", g.DailyTrades())
	}
}

func TestGate_BlacklistWinsOverLaterRules(t *testing.T) {
	g := NewGate(testRules(), nil)

	// Order value also exceeds the cap, but the blacklist rule fires first.
	ok, reason := g.Check(buyIntent("300001.SZ", 1000, 1000), ampleAccount(), nil)
	if ok {
		t.Fatal("blacklisted symbol must be rejected")
	}
	if !strings.Contains(reason, "blacklisted") {
		t.Errorf("expected blacklist reason, got %q", reason)
	}
	if g.DailyTrades() != 0 {
		t.Errorf("rejection must not advance the counter, got %d", g.DailyTrades())
	}
}

func TestGate_DailyTradeCap(t *testing.T) {
	rules := testRules()
	rules.MaxDailyTrades = 2
	g := NewGate(rules, nil)

	for i := 0; i < 2; i++ {
		if ok, reason := g.Check(buyIntent("600000.SH", 10, 100), ampleAccount(), nil); !ok {
			t.Fatalf("trade %d: expected acceptance, got %q", i+1, reason)
		}
	}
	ok, reason := g.Check(buyIntent("600000.SH", 10, 100), ampleAccount(), nil)
	if ok {
		t.Fatal("third trade must hit the daily cap")
	}
	if !strings.Contains(reason, "daily trade cap") {
		t.Errorf("expected daily cap reason, got %q", reason)
	}
}

func TestGate_OrderValueCap(t *testing.T) {
	g := NewGate(testRules(), nil)

	ok, reason := g.Check(buyIntent("600000.SH", 600, 100), ampleAccount(), nil) // 60000 > 50000
	if ok {
		t.Fatal("oversized order must be rejected")
	}
	if !strings.Contains(reason, "order value") {
		t.Errorf("expected order value reason, got %q", reason)
	}
}

func TestGate_PositionRatioCap(t *testing.T) {
	g := NewGate(testRules(), nil)
	positions := map[string]model.Position{
		"600000.SH": {Symbol: "600000.SH", Volume: 8000, MarketValue: 80000},
	}

	// (80000 + 30000) / 1000000 = 11% > 10%.
	ok, reason := g.Check(buyIntent("600000.SH", 300, 100), ampleAccount(), positions)
	if ok {
		t.Fatal("ratio-busting buy must be rejected")
	}
	if !strings.Contains(reason, "position ratio") {
		t.Errorf("expected position ratio reason, got %q", reason)
	}
}

func TestGate_InsufficientCash(t *testing.T) {
	g := NewGate(testRules(), nil)
	account := model.AccountState{Cash: 500, AvailableCash: 500, TotalAsset: 1000000}

	ok, reason := g.Check(buyIntent("600000.SH", 10, 100), account, nil) // needs 1000
	if ok {
		t.Fatal("underfunded buy must be rejected")
	}
	if !strings.Contains(reason, "insufficient cash") {
		t.Errorf("expected cash reason, got %q", reason)
	}
}

func TestGate_SellSkipsBuyOnlyRules(t *testing.T) {
	g := NewGate(testRules(), nil)
	// No cash, huge existing position — irrelevant for a sell.
	account := model.AccountState{Cash: 0, AvailableCash: 0, TotalAsset: 100}
	positions := map[string]model.Position{
		"600000.SH": {Symbol: "600000.SH", Volume: 500, MarketValue: 99999},
	}

	intent := model.TradeIntent{Symbol: "600000.SH", Side: model.SideSell, Price: 10, Quantity: 500}
	ok, reason := g.Check(intent, account, positions)
	if !ok {
		t.Fatalf("sell must skip cash/ratio checks, got %q", reason)
	}
}

func TestGate_DayRolloverResetsCounter(t *testing.T) {
	now := time.Date(2026, 3, 2, 14, 0, 0, 0, time.Local)
	rules := testRules()
	rules.MaxDailyTrades = 10
	g := NewGate(rules, func() time.Time { return now })

	for i := 0; i < 3; i++ {
		g.Check(buyIntent("600000.SH", 10, 100), ampleAccount(), nil)
	}
	if g.DailyTrades() != 3 {
		t.Fatalf("expected 3 trades, got %d", g.DailyTrades())
	}

	now = now.Add(24 * time.Hour)
	ok, _ := g.Check(buyIntent("600000.SH", 10, 100), ampleAccount(), nil)
	if !ok {
		t.Fatal("next-day trade must be accepted")
	}
	if g.DailyTrades() != 1 {
		t.Errorf("counter must restart at 1 after rollover, got %d", g.DailyTrades())
	}
}

func TestGate_NeverMutatesIntent(t *testing.T) {
	g := NewGate(testRules(), nil)
	intent := buyIntent("600000.SH", 10, 100)
	before := intent

	g.Check(intent, ampleAccount(), nil)
	if intent != before {
		t.Error("gate must not mutate the intent")
	}
}
