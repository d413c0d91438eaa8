// Package engine runs the decision cycle: read account and positions,
// evaluate each signal generator over the watch list, pass resulting
// intents through the risk gate in order, and submit the survivors.
package engine

import (
	"context"
	"log"
	"log/slog"
	"time"

	"signal-enginev1/internal/execution"
	"signal-enginev1/internal/logger"
	"signal-enginev1/internal/markethours"
	"signal-enginev1/internal/metrics"
	"signal-enginev1/internal/model"
	"signal-enginev1/internal/notification"
	"signal-enginev1/internal/risk"
	"signal-enginev1/internal/strategy"
)

// Options wires the engine's dependencies. Journal, Metrics, and Notifier
// are optional; everything else is required.
type Options struct {
	MarketData model.MarketData
	Broker     model.Broker
	Submitter  model.OrderSubmitter
	Generators []strategy.Generator
	Gate       *risk.Gate
	Journal    *execution.Journal
	Metrics    *metrics.Metrics
	Notifier   notification.Notifier
	WatchList  []string

	// CheckTradingTime gates cycles on the exchange session. Off for
	// backtests and development against a simulated feed.
	CheckTradingTime bool

	// Now is injectable for tests. Nil defaults to time.Now.
	Now func() time.Time
}

// Engine orchestrates one decision cycle at a time.
type Engine struct {
	opts Options
	now  func() time.Time
}

// New creates an Engine from opts.
func New(opts Options) *Engine {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{opts: opts, now: now}
}

// RunCycle executes a single decision cycle and returns the accepted
// intents. A per-symbol evaluation failure is logged and skipped; only
// account or position lookup failures abort the cycle.
func (e *Engine) RunCycle(ctx context.Context) ([]model.TradeIntent, error) {
	start := e.now()

	if e.opts.CheckTradingTime && !markethours.IsTradingTime(start) {
		if e.opts.Metrics != nil {
			e.opts.Metrics.MarketState.Set(0)
		}
		return nil, nil
	}
	if e.opts.Metrics != nil {
		e.opts.Metrics.MarketState.Set(1)
		e.opts.Metrics.CyclesTotal.Inc()
	}

	ctx = logger.WithTraceID(ctx, logger.GenerateTraceID("cycle", start))

	account, err := e.opts.Broker.Account(ctx)
	if err != nil {
		return nil, err
	}
	positions, err := e.opts.Broker.Positions(ctx)
	if err != nil {
		return nil, err
	}

	var accepted []model.TradeIntent
	for _, gen := range e.opts.Generators {
		for _, res := range gen.Evaluate(ctx, e.opts.MarketData, positions, e.opts.WatchList) {
			if res.Err != nil {
				log.Printf("[engine] %s: %s evaluation failed: %v", gen.Name(), res.Symbol, res.Err)
				if e.opts.Metrics != nil {
					e.opts.Metrics.SignalErrors.Inc()
				}
				continue
			}
			if res.Intent == nil {
				continue
			}
			if intent, ok := e.process(ctx, *res.Intent, account, positions); ok {
				accepted = append(accepted, intent)
			}
		}
	}

	if e.opts.Metrics != nil {
		e.opts.Metrics.CycleDur.Observe(time.Since(start).Seconds())
	}
	if len(accepted) > 0 {
		slog.InfoContext(ctx, "cycle complete",
			append([]any{
				slog.Int("accepted", len(accepted)),
				slog.Duration("took", time.Since(start)),
			}, logger.LogWithTrace(ctx)...)...)
	}
	return accepted, nil
}

// process runs one intent through the gate and, if accepted, submits it.
func (e *Engine) process(ctx context.Context, intent model.TradeIntent, account model.AccountState, positions map[string]model.Position) (model.TradeIntent, bool) {
	if e.opts.Metrics != nil {
		e.opts.Metrics.SignalsTotal.WithLabelValues(intent.SignalType).Inc()
	}

	ok, reason := e.opts.Gate.Check(intent, account, positions)
	if !ok {
		log.Printf("[engine] rejected %s: %s", intent.String(), reason)
		if e.opts.Metrics != nil {
			e.opts.Metrics.RiskRejections.Inc()
		}
		e.record(intent, false, reason, 0)
		e.notify(ctx, notification.RejectionAlert(intent, reason))
		return intent, false
	}

	orderID, err := e.opts.Submitter.Submit(ctx, intent)
	if err != nil {
		log.Printf("[engine] submit failed for %s: %v", intent.String(), err)
		if e.opts.Metrics != nil {
			e.opts.Metrics.OrderErrors.Inc()
		}
		e.record(intent, false, "submit: "+err.Error(), 0)
		return intent, false
	}

	log.Printf("[engine] submitted order %d: %s", orderID, intent.String())
	if e.opts.Metrics != nil {
		e.opts.Metrics.OrdersSubmitted.Inc()
	}
	e.record(intent, true, reason, orderID)
	e.notify(ctx, notification.OrderAlert(intent, orderID))
	return intent, true
}

func (e *Engine) notify(ctx context.Context, alert notification.Alert) {
	if e.opts.Notifier == nil {
		return
	}
	if err := e.opts.Notifier.Send(ctx, alert); err != nil {
		log.Printf("[engine] notification failed: %v", err)
	}
}

func (e *Engine) record(intent model.TradeIntent, accepted bool, reason string, orderID int64) {
	if e.opts.Journal == nil {
		return
	}
	if err := e.opts.Journal.RecordDecision(intent, accepted, reason, orderID); err != nil {
		log.Printf("[engine] journal write failed: %v", err)
	}
}

// Run polls RunCycle every interval until ctx is cancelled, logging an
// account status line once a minute.
func (e *Engine) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	statusEvery := int(time.Minute / interval)
	if statusEvery < 1 {
		statusEvery = 1
	}

	for cycles := 0; ; cycles++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := e.RunCycle(ctx); err != nil {
				log.Printf("[engine] cycle failed: %v", err)
			}
			if cycles%statusEvery == 0 {
				e.logStatus(ctx)
			}
		}
	}
}

func (e *Engine) logStatus(ctx context.Context) {
	account, err := e.opts.Broker.Account(ctx)
	if err != nil {
		log.Printf("[engine] status: account unavailable: %v", err)
		return
	}
	log.Printf("[engine] status: cash=%.2f total=%.2f trades_today=%d, %s",
		account.AvailableCash, account.TotalAsset,
		e.opts.Gate.DailyTrades(), markethours.StatusString(e.now()))
}
