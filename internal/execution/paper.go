package execution

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"signal-enginev1/internal/model"
)

// PaperExecutor simulates order execution without real broker calls and
// tracks the resulting cash and positions, so it also serves as the
// account and position source in paper mode.
type PaperExecutor struct {
	mu        sync.RWMutex
	cash      float64
	positions map[string]model.Position
	fills     []Fill
	orderSeq  int64

	slippageBps int64 // simulated slippage in basis points (5 = 0.05%)
}

// NewPaperExecutor creates a paper executor seeded with startingCash.
func NewPaperExecutor(startingCash float64, slippageBps int64) *PaperExecutor {
	return &PaperExecutor{
		cash:        startingCash,
		positions:   make(map[string]model.Position),
		fills:       make([]Fill, 0, 256),
		slippageBps: slippageBps,
	}
}

// Submit simulates an immediate full fill at the intent price adjusted for
// slippage. Returns the simulated order sequence number.
func (p *PaperExecutor) Submit(ctx context.Context, intent model.TradeIntent) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.orderSeq++
	orderID := p.orderSeq

	fillPrice := intent.Price
	var slippage float64
	if fillPrice > 0 && p.slippageBps > 0 {
		slippage = fillPrice * float64(p.slippageBps) / 10000
		if intent.Side == model.SideBuy {
			fillPrice += slippage // buy higher
		} else {
			fillPrice -= slippage // sell lower
		}
	}

	cost := fillPrice * float64(intent.Quantity)
	pos := p.positions[intent.Symbol]
	pos.Symbol = intent.Symbol

	switch intent.Side {
	case model.SideBuy:
		if cost > p.cash {
			return 0, fmt.Errorf("paper: insufficient cash for %s: need %.2f, have %.2f",
				intent.Symbol, cost, p.cash)
		}
		held := pos.AvgPrice * float64(pos.Volume)
		pos.Volume += intent.Quantity
		pos.AvgPrice = (held + cost) / float64(pos.Volume)
		p.cash -= cost
	case model.SideSell:
		if intent.Quantity > pos.Volume {
			return 0, fmt.Errorf("paper: oversell %s: have %d, want %d",
				intent.Symbol, pos.Volume, intent.Quantity)
		}
		pos.Volume -= intent.Quantity
		p.cash += cost
	default:
		return 0, fmt.Errorf("paper: unknown side %q", intent.Side)
	}

	pos.MarketValue = fillPrice * float64(pos.Volume)
	if pos.Volume == 0 {
		delete(p.positions, intent.Symbol)
	} else {
		p.positions[intent.Symbol] = pos
	}

	p.fills = append(p.fills, Fill{
		OrderID:   orderID,
		Intent:    intent,
		FillPrice: fillPrice,
		FillQty:   intent.Quantity,
		FilledAt:  time.Now(),
		Slippage:  slippage,
	})

	log.Printf("[paper] %s %s qty=%d price=%.3f (slip=%.4f) order=%d reason=%s",
		intent.Side, intent.Symbol, intent.Quantity, fillPrice, slippage, orderID, intent.Reason)

	return orderID, nil
}

// Account reports the simulated account state. Market values reflect the
// last fill price per position.
func (p *PaperExecutor) Account(ctx context.Context) (model.AccountState, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	total := p.cash
	for _, pos := range p.positions {
		total += pos.MarketValue
	}
	return model.AccountState{
		Cash:          p.cash,
		AvailableCash: p.cash,
		TotalAsset:    total,
	}, nil
}

// Positions returns a snapshot of the simulated holdings.
func (p *PaperExecutor) Positions(ctx context.Context) (map[string]model.Position, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make(map[string]model.Position, len(p.positions))
	for k, v := range p.positions {
		out[k] = v
	}
	return out, nil
}

// GetFills returns a snapshot of all simulated fills.
func (p *PaperExecutor) GetFills() []Fill {
	p.mu.RLock()
	defer p.mu.RUnlock()
	cp := make([]Fill, len(p.fills))
	copy(cp, p.fills)
	return cp
}
