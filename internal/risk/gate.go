package risk

import (
	"fmt"
	"sync"
	"time"

	"signal-enginev1/internal/model"
)

// Gate validates trade intents against the configured limits and tracks an
// accepted-trade counter per calendar day. It classifies intents but never
// mutates them, and it never raises: rejection is a normal outcome carried
// in the reason string.
type Gate struct {
	mu        sync.Mutex
	rules     Rules
	blacklist map[string]struct{}

	dailyTrades int
	today       time.Time
	now         func() time.Time
}

// NewGate creates a gate with the given rules. A nil now defaults to
// time.Now; tests inject a clock to drive day rollover.
func NewGate(rules Rules, now func() time.Time) *Gate {
	if now == nil {
		now = time.Now
	}
	bl := make(map[string]struct{}, len(rules.Blacklist))
	for _, s := range rules.Blacklist {
		bl[s] = struct{}{}
	}
	return &Gate{
		rules:     rules,
		blacklist: bl,
		today:     now(),
		now:       now,
	}
}

// DailyTrades returns the accepted-trade count for the current day.
func (g *Gate) DailyTrades() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.dailyTrades
}

// Check evaluates the rules in order and returns the first failure's
// reason. Acceptance rolls the daily counter over if the calendar day has
// advanced, then increments it; rejections leave the counter untouched.
func (g *Gate) Check(intent model.TradeIntent, account model.AccountState, positions map[string]model.Position) (bool, string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	value := intent.Value()

	if _, ok := g.blacklist[intent.Symbol]; ok {
		return false, fmt.Sprintf("%s is blacklisted", intent.Symbol)
	}

	if g.dailyTrades >= g.rules.MaxDailyTrades {
		return false, "daily trade cap exceeded"
	}

	if value > g.rules.MaxOrderValue {
		return false, fmt.Sprintf("order value %.2f exceeds cap %.2f", value, g.rules.MaxOrderValue)
	}

	if intent.Side == model.SideBuy {
		var positionValue float64
		if pos, ok := positions[intent.Symbol]; ok {
			positionValue = pos.MarketValue
		}
		totalAsset := account.TotalAsset
		if totalAsset <= 0 {
			totalAsset = 1
		}
		ratio := (positionValue + value) / totalAsset
		if ratio > g.rules.MaxPositionRatio {
			return false, fmt.Sprintf("position ratio %.2f%% exceeds cap %.2f%%", ratio*100, g.rules.MaxPositionRatio*100)
		}

		if value > account.AvailableCash {
			return false, fmt.Sprintf("insufficient cash: need %.2f, available %.2f", value, account.AvailableCash)
		}
	}

	g.rollOverIfNewDay()
	g.dailyTrades++
	return true, "passed"
}

// rollOverIfNewDay resets the counter on the first acceptance after the
// local calendar date advances. Caller holds the lock.
func (g *Gate) rollOverIfNewDay() {
	now := g.now()
	y1, m1, d1 := g.today.Date()
	y2, m2, d2 := now.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return
	}
	g.dailyTrades = 0
	g.today = now
}
