package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Universe and cadence
	WatchList     string // comma-separated symbols, e.g. "600000.SH,000001.SZ"
	PollIntervalS int
	Strategy      string // "emastd", "ma_crossover", or "both"

	// Session gate
	CheckTradingTime bool

	// EMA/std strategy
	ShortTerm         int
	LongTerm          int
	StdTerm           int
	StdTimes          float64
	OrderAmount       float64
	SellRatio         float64
	LotSize           int64
	MaxSignalTriggers int

	// MA crossover strategy
	FastPeriod int
	SlowPeriod int
	Volume     int64

	// Risk gate
	MaxPositionRatio float64
	MaxDailyTrades   int
	MaxOrderValue    float64
	Blacklist        string // comma-separated symbols

	// Execution
	PaperTrading bool
	StartingCash float64
	SlippageBps  int64

	// Broker gateway credentials (required when PaperTrading is off)
	GWBaseURL    string
	GWClientCode string
	GWPassword   string
	GWTOTPSecret string

	// Notifications (empty falls back to log-only alerts)
	WebhookURL string

	// Quote feed
	QuoteWSURL   string
	HistoryStart string // YYYYMMDD backfill start for close history

	// Infrastructure
	RedisAddr     string
	RedisPassword string
	SQLitePath    string
	MetricsAddr   string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	cfg := &Config{
		WatchList:     getEnv("WATCH_LIST", "600000.SH"),
		PollIntervalS: getEnvInt("POLL_INTERVAL_S", 3),
		Strategy:      getEnv("STRATEGY", "emastd"),

		CheckTradingTime: getEnvBool("CHECK_TRADING_TIME", true),

		ShortTerm:         getEnvInt("SHORT_TERM", 5),
		LongTerm:          getEnvInt("LONG_TERM", 21),
		StdTerm:           getEnvInt("STD_TERM", 21),
		StdTimes:          getEnvFloat("STD_TIMES", 3),
		OrderAmount:       getEnvFloat("ORDER_AMOUNT", 50000),
		SellRatio:         getEnvFloat("SELL_RATIO", 0.5),
		LotSize:           int64(getEnvInt("LOT_SIZE", 100)),
		MaxSignalTriggers: getEnvInt("MAX_SIGNAL_TRIGGERS", 1),

		FastPeriod: getEnvInt("FAST_PERIOD", 5),
		SlowPeriod: getEnvInt("SLOW_PERIOD", 20),
		Volume:     int64(getEnvInt("VOLUME", 100)),

		MaxPositionRatio: getEnvFloat("MAX_POSITION_RATIO", 0.1),
		MaxDailyTrades:   getEnvInt("MAX_DAILY_TRADES", 10),
		MaxOrderValue:    getEnvFloat("MAX_ORDER_VALUE", 50000),
		Blacklist:        getEnv("BLACKLIST", ""),

		PaperTrading: getEnvBool("PAPER_TRADING", true),
		StartingCash: getEnvFloat("STARTING_CASH", 1000000),
		SlippageBps:  int64(getEnvInt("SLIPPAGE_BPS", 5)),

		WebhookURL: getEnv("WEBHOOK_URL", ""),

		QuoteWSURL:   getEnv("QUOTE_WS_URL", "ws://localhost:8765/stream"),
		HistoryStart: getEnv("HISTORY_START", "20180101"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		SQLitePath:    getEnv("SQLITE_PATH", "data/decisions.db"),
		MetricsAddr:   getEnv("METRICS_ADDR", ":9090"),
	}

	if !cfg.PaperTrading {
		cfg.GWBaseURL = mustEnv("GW_BASE_URL")
		cfg.GWClientCode = mustEnv("GW_CLIENT_CODE")
		cfg.GWPassword = mustEnv("GW_PASSWORD")
		cfg.GWTOTPSecret = mustEnv("GW_TOTP_SECRET")
	}

	return cfg
}

// ParseWatchList splits the watch list into symbols.
func (c *Config) ParseWatchList() []string {
	return splitList(c.WatchList)
}

// ParseBlacklist splits the blacklist into symbols.
func (c *Config) ParseBlacklist() []string {
	return splitList(c.Blacklist)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("[config] required env var %s not set", key)
	}
	return v
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] invalid int for %s: %q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("[config] invalid float for %s: %q, using %g", key, v, fallback)
		return fallback
	}
	return f
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[config] invalid bool for %s: %q, using %v", key, v, fallback)
		return fallback
	}
	return b
}
