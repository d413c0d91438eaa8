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
	"signal-enginev1/internal/engine"
	"signal-enginev1/internal/execution"
	"signal-enginev1/internal/logger"
	"signal-enginev1/internal/metrics"
	"signal-enginev1/internal/model"
	"signal-enginev1/internal/notification"
	"signal-enginev1/internal/risk"
	"signal-enginev1/internal/store/redis"
	"signal-enginev1/internal/strategy"
	"signal-enginev1/pkg/brokergw"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	logger.Init("sigengine", slog.LevelInfo)

	cfg := config.Load()
	watchList := cfg.ParseWatchList()
	log.Printf("[sigengine] strategy=%s watch=%v poll=%ds paper=%v",
		cfg.Strategy, watchList, cfg.PollIntervalS, cfg.PaperTrading)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("[sigengine] shutdown signal received")
		cancel()
	}()

	store, err := redis.New(redis.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		log.Fatalf("[sigengine] redis init failed: %v", err)
	}
	defer store.Close()

	journal, err := execution.NewJournal(cfg.SQLitePath)
	if err != nil {
		log.Fatalf("[sigengine] journal init failed: %v", err)
	}
	defer journal.Close()

	var broker model.Broker
	var submitter model.OrderSubmitter
	if cfg.PaperTrading {
		paper := execution.NewPaperExecutor(cfg.StartingCash, cfg.SlippageBps)
		broker, submitter = paper, paper
	} else {
		client := brokergw.New(brokergw.Config{
			BaseURL:    cfg.GWBaseURL,
			ClientCode: cfg.GWClientCode,
			Password:   cfg.GWPassword,
			TOTPSecret: cfg.GWTOTPSecret,
		})
		if err := client.Login(ctx); err != nil {
			log.Fatalf("[sigengine] broker login failed: %v", err)
		}
		defer client.Logout(context.Background())
		broker, submitter = client, client
	}

	generators := buildGenerators(cfg)
	gate := risk.NewGate(risk.Rules{
		MaxPositionRatio: cfg.MaxPositionRatio,
		MaxDailyTrades:   cfg.MaxDailyTrades,
		MaxOrderValue:    cfg.MaxOrderValue,
		Blacklist:        cfg.ParseBlacklist(),
	}, nil)

	var notifier notification.Notifier = notification.NewLogNotifier()
	if cfg.WebhookURL != "" {
		notifier = notification.NewWebhookNotifier(cfg.WebhookURL)
	}

	m := metrics.New()
	health := metrics.NewHealthStatus()
	health.SetWSConnected(true) // sigengine has no WS dependency
	health.StartLivenessChecker(ctx, store.Client(), journal.DB(), 15*time.Second)
	srv := metrics.NewServer(cfg.MetricsAddr, health)
	srv.Start()
	defer srv.Stop(context.Background())

	eng := engine.New(engine.Options{
		MarketData:       store,
		Broker:           broker,
		Submitter:        submitter,
		Generators:       generators,
		Gate:             gate,
		Journal:          journal,
		Metrics:          m,
		Notifier:         notifier,
		WatchList:        watchList,
		CheckTradingTime: cfg.CheckTradingTime,
	})

	if err := eng.Run(ctx, time.Duration(cfg.PollIntervalS)*time.Second); err != nil && err != context.Canceled {
		log.Fatalf("[sigengine] fatal: %v", err)
	}
	log.Println("[sigengine] stopped")
}

func buildGenerators(cfg *config.Config) []strategy.Generator {
	emastd := strategy.NewEMAStd(strategy.EMAStdConfig{
		ShortTerm:         cfg.ShortTerm,
		LongTerm:          cfg.LongTerm,
		StdTerm:           cfg.StdTerm,
		StdTimes:          cfg.StdTimes,
		OrderAmount:       cfg.OrderAmount,
		SellRatio:         cfg.SellRatio,
		LotSize:           cfg.LotSize,
		MaxSignalTriggers: cfg.MaxSignalTriggers,
	}, nil)
	macross := strategy.NewMACross(strategy.MACrossConfig{
		FastPeriod: cfg.FastPeriod,
		SlowPeriod: cfg.SlowPeriod,
		Volume:     cfg.Volume,
	})

	switch cfg.Strategy {
	case "emastd":
		return []strategy.Generator{emastd}
	case "ma_crossover":
		return []strategy.Generator{macross}
	case "both":
		return []strategy.Generator{emastd, macross}
	default:
		log.Fatalf("[sigengine] unknown strategy %q", cfg.Strategy)
		return nil
	}
}
