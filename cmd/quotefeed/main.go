package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"signal-enginev1/config"
	"signal-enginev1/internal/logger"
	"signal-enginev1/internal/marketdata/ws"
	"signal-enginev1/internal/metrics"
	"signal-enginev1/internal/model"
	"signal-enginev1/internal/store/redis"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	logger.Init("quotefeed", slog.LevelInfo)

	cfg := config.Load()
	symbols := cfg.ParseWatchList()
	log.Printf("[quotefeed] url=%s symbols=%v history_start=%s", cfg.QuoteWSURL, symbols, cfg.HistoryStart)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("[quotefeed] shutdown signal received")
		cancel()
	}()

	store, err := redis.New(redis.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		log.Fatalf("[quotefeed] redis init failed: %v", err)
	}
	defer store.Close()

	m := metrics.New()
	health := metrics.NewHealthStatus()
	health.SetSQLiteOK(true) // quotefeed has no SQLite dependency
	health.StartLivenessChecker(ctx, store.Client(), nil, 15*time.Second)
	srv := metrics.NewServer(cfg.MetricsAddr, health)
	srv.Start()
	defer srv.Stop(context.Background())

	cb := redis.NewCircuitBreaker(5, 10*time.Second)
	cb.OnStateChange = func(from, to redis.State) {
		log.Printf("[quotefeed] redis breaker %s -> %s", from, to)
	}
	writer := redis.NewBufferedQuoteWriter(ctx, store, cb, 10000)
	writer.OnBuffer = func() { m.BufferedWrites.Inc() }

	ing := ws.New(ws.Config{
		URL:          cfg.QuoteWSURL,
		Symbols:      symbols,
		HistoryStart: cfg.HistoryStart,
	})
	ing.OnConnect = func() { health.SetWSConnected(true) }
	ing.OnReconnect = func() {
		health.SetWSConnected(false)
		m.WSReconnects.Inc()
	}
	ing.OnDrop = func() { m.DroppedQuotes.Inc() }
	ing.OnHistory = func(symbol string, closes []float64) {
		if err := store.LoadHistory(ctx, symbol, closes); err != nil {
			log.Printf("[quotefeed] history backfill failed for %s: %v", symbol, err)
		}
	}

	quoteCh := make(chan model.Quote, 1024)
	eodCh := make(chan ws.EOD, 64)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case q := <-quoteCh:
				m.QuotesTotal.Inc()
				health.SetLastQuoteTime(q.TS)
				if err := writer.WriteQuote(q); err != nil {
					log.Printf("[quotefeed] quote write failed for %s: %v", q.Symbol, err)
				}
			case eod := <-eodCh:
				if err := store.AppendClose(ctx, eod.Symbol, eod.Close); err != nil {
					log.Printf("[quotefeed] close append failed for %s: %v", eod.Symbol, err)
				} else {
					log.Printf("[quotefeed] recorded close %.3f for %s", eod.Close, eod.Symbol)
				}
			}
		}
	}()

	if err := ing.Start(ctx, quoteCh, eodCh); err != nil {
		log.Fatalf("[quotefeed] fatal: %v", err)
	}
	log.Println("[quotefeed] stopped")
}
