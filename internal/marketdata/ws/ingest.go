// Package ws streams quotes from the upstream quote server over WebSocket
// and normalizes them into model.Quote values.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"signal-enginev1/internal/model"

	"github.com/gorilla/websocket"
)

// EOD is a confirmed end-of-day close for one symbol.
type EOD struct {
	Symbol string  `json:"symbol"`
	Close  float64 `json:"close"`
}

// Config holds the quote feed connection settings.
type Config struct {
	URL            string
	Symbols        []string
	HistoryStart   string // YYYYMMDD, requests a close backfill on subscribe
	ReconnectDelay time.Duration
}

// Ingest maintains the WebSocket connection and pushes quotes into a channel.
type Ingest struct {
	cfg Config

	// Optional hooks.
	OnConnect   func()
	OnReconnect func()
	OnDrop      func()
	OnHistory   func(symbol string, closes []float64)
}

// New creates an Ingest. The connection is established in Start.
func New(cfg Config) *Ingest {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 5 * time.Second
	}
	return &Ingest{cfg: cfg}
}

type subscribeMsg struct {
	Action  string   `json:"action"`
	Symbols []string `json:"symbols"`
	From    string   `json:"from,omitempty"`
}

type feedMsg struct {
	Type   string    `json:"type"` // quote, eod, history
	Symbol string    `json:"symbol"`
	Price  float64   `json:"price"`
	Close  float64   `json:"close"`
	TS     int64     `json:"ts"` // epoch milliseconds
	Closes []float64 `json:"closes"`
}

// Start connects and streams until ctx is cancelled, reconnecting on
// connection loss. Quotes go to quoteCh, confirmed closes to eodCh; both
// sends are non-blocking and drop when the consumer lags.
func (ing *Ingest) Start(ctx context.Context, quoteCh chan<- model.Quote, eodCh chan<- EOD) error {
	for {
		if err := ing.runOnce(ctx, quoteCh, eodCh); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Printf("[ws] connection lost: %v, reconnecting in %s", err, ing.cfg.ReconnectDelay)
			if ing.OnReconnect != nil {
				ing.OnReconnect()
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(ing.cfg.ReconnectDelay):
		}
	}
}

func (ing *Ingest) runOnce(ctx context.Context, quoteCh chan<- model.Quote, eodCh chan<- EOD) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, ing.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", ing.cfg.URL, err)
	}
	defer conn.Close()

	sub := subscribeMsg{
		Action:  "subscribe",
		Symbols: ing.cfg.Symbols,
		From:    ing.cfg.HistoryStart,
	}
	if err := conn.WriteJSON(sub); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	log.Printf("[ws] connected to %s, subscribed %d symbols", ing.cfg.URL, len(ing.cfg.Symbols))
	if ing.OnConnect != nil {
		ing.OnConnect()
	}

	// Close the connection when ctx is cancelled to unblock ReadMessage.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var msg feedMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[ws] bad message: %v", err)
			continue
		}

		switch msg.Type {
		case "quote":
			q, err := parseQuote(msg)
			if err != nil {
				log.Printf("[ws] parse error: %v", err)
				continue
			}
			select {
			case quoteCh <- q:
			default:
				log.Println("[ws] quoteCh full, dropping quote")
				if ing.OnDrop != nil {
					ing.OnDrop()
				}
			}
		case "eod":
			select {
			case eodCh <- EOD{Symbol: msg.Symbol, Close: msg.Close}:
			default:
				log.Printf("[ws] eodCh full, dropping close for %s", msg.Symbol)
			}
		case "history":
			if ing.OnHistory != nil {
				ing.OnHistory(msg.Symbol, msg.Closes)
			}
		}
	}
}

func parseQuote(msg feedMsg) (model.Quote, error) {
	if msg.Symbol == "" {
		return model.Quote{}, fmt.Errorf("missing symbol")
	}
	if msg.Price <= 0 {
		return model.Quote{}, fmt.Errorf("bad price %.4f for %s", msg.Price, msg.Symbol)
	}

	ts := time.Now().UTC()
	if msg.TS > 0 {
		ts = time.Unix(0, msg.TS*int64(time.Millisecond)).UTC()
	}

	return model.Quote{
		Symbol: msg.Symbol,
		Price:  msg.Price,
		TS:     ts,
	}, nil
}
