// Package redis stores market data in Redis: the latest quote per symbol
// in a hash and the daily close history in a list. The quote feed writes,
// the signal engine reads.
package redis

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"signal-enginev1/internal/model"

	goredis "github.com/go-redis/redis/v8"
)

const (
	// Keep enough closes for the longest EMA and std windows plus slack.
	maxCloseHistory = 500

	quoteKeyPrefix  = "quote:"
	closesKeyPrefix = "closes:"
	quotePubPrefix  = "pub:quote:"
)

// Config configures the Redis store.
type Config struct {
	Addr     string // e.g. "localhost:6379"
	Password string
	DB       int
}

// Store reads and writes quotes and close history.
type Store struct {
	client *goredis.Client
}

// New creates a Store and pings the server.
func New(cfg Config) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Printf("[redis] connected to %s", cfg.Addr)
	return &Store{client: client}, nil
}

// Client returns the underlying Redis client for health checks.
func (s *Store) Client() *goredis.Client { return s.client }

// History returns the stored daily close series for symbol, oldest first.
func (s *Store) History(ctx context.Context, symbol string) (model.PriceSeries, error) {
	vals, err := s.client.LRange(ctx, closesKeyPrefix+symbol, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange %s: %w", symbol, err)
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("no close history for %s", symbol)
	}

	series := make(model.PriceSeries, 0, len(vals))
	for _, v := range vals {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("bad close value %q for %s: %w", v, symbol, err)
		}
		series = append(series, f)
	}
	return series, nil
}

// LivePrice returns the latest quoted price for symbol.
func (s *Store) LivePrice(ctx context.Context, symbol string) (float64, error) {
	v, err := s.client.HGet(ctx, quoteKeyPrefix+symbol, "price").Result()
	if err != nil {
		if err == goredis.Nil {
			return 0, fmt.Errorf("no quote for %s", symbol)
		}
		return 0, fmt.Errorf("redis hget %s: %w", symbol, err)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("bad quote value %q for %s: %w", v, symbol, err)
	}
	return f, nil
}

// WriteQuote stores the latest quote and publishes it for subscribers.
func (s *Store) WriteQuote(ctx context.Context, q model.Quote) error {
	pipe := s.client.Pipeline()
	pipe.HSet(ctx, quoteKeyPrefix+q.Symbol, map[string]interface{}{
		"price": q.Price,
		"ts":    q.TS.Unix(),
	})
	pipe.Publish(ctx, quotePubPrefix+q.Symbol, string(q.JSON()))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis write quote %s: %w", q.Symbol, err)
	}
	return nil
}

// AppendClose appends a confirmed daily close and trims old history.
func (s *Store) AppendClose(ctx context.Context, symbol string, close float64) error {
	key := closesKeyPrefix + symbol
	pipe := s.client.Pipeline()
	pipe.RPush(ctx, key, strconv.FormatFloat(close, 'f', -1, 64))
	pipe.LTrim(ctx, key, -maxCloseHistory, -1)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis append close %s: %w", symbol, err)
	}
	return nil
}

// LoadHistory replaces the stored close series for symbol in one shot.
// Used for the initial backfill on feed startup.
func (s *Store) LoadHistory(ctx context.Context, symbol string, closes []float64) error {
	key := closesKeyPrefix + symbol
	args := make([]interface{}, len(closes))
	for i, c := range closes {
		args[i] = strconv.FormatFloat(c, 'f', -1, 64)
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, key)
	if len(args) > 0 {
		pipe.RPush(ctx, key, args...)
		pipe.LTrim(ctx, key, -maxCloseHistory, -1)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis load history %s: %w", symbol, err)
	}
	log.Printf("[redis] loaded %d closes for %s", len(closes), symbol)
	return nil
}

// Close closes the Redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
