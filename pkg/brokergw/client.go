// Package brokergw is an HTTP client for the broker gateway that fronts
// the trading terminal. It handles TOTP login, session tokens, account and
// position queries, and order submission.
package brokergw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"signal-enginev1/internal/model"

	"github.com/pquerna/otp/totp"
)

var routes = map[string]string{
	"login":       "/api/v1/session/login",
	"logout":      "/api/v1/session/logout",
	"account":     "/api/v1/account",
	"positions":   "/api/v1/positions",
	"order.place": "/api/v1/orders",
}

// Config holds the gateway connection settings and credentials.
type Config struct {
	BaseURL    string
	ClientCode string
	Password   string
	TOTPSecret string

	Timeout time.Duration // default 7s
	Debug   bool
}

// Client talks to the broker gateway. Safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// New creates a Client. Call Login before issuing authenticated requests.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 7 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Login generates a TOTP code from the configured secret and opens a
// session. The returned token is attached to subsequent requests.
func (c *Client) Login(ctx context.Context) error {
	code, err := totp.GenerateCode(c.cfg.TOTPSecret, time.Now())
	if err != nil {
		return fmt.Errorf("brokergw: generate totp: %w", err)
	}

	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]string{
		"client_code": c.cfg.ClientCode,
		"password":    c.cfg.Password,
		"totp":        code,
	}
	if err := c.do(ctx, http.MethodPost, "login", body, &resp); err != nil {
		return fmt.Errorf("brokergw: login: %w", err)
	}
	if resp.Token == "" {
		return fmt.Errorf("brokergw: login returned empty token")
	}

	c.mu.Lock()
	c.token = resp.Token
	c.mu.Unlock()

	log.Printf("[brokergw] logged in as %s", c.cfg.ClientCode)
	return nil
}

// Logout terminates the session.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "logout", nil, nil)
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
	return err
}

// Account returns the current cash and asset figures.
func (c *Client) Account(ctx context.Context) (model.AccountState, error) {
	var resp struct {
		Cash          float64 `json:"cash"`
		AvailableCash float64 `json:"available_cash"`
		TotalAsset    float64 `json:"total_asset"`
	}
	if err := c.do(ctx, http.MethodGet, "account", nil, &resp); err != nil {
		return model.AccountState{}, fmt.Errorf("brokergw: account: %w", err)
	}
	return model.AccountState{
		Cash:          resp.Cash,
		AvailableCash: resp.AvailableCash,
		TotalAsset:    resp.TotalAsset,
	}, nil
}

// Positions returns current holdings keyed by symbol.
func (c *Client) Positions(ctx context.Context) (map[string]model.Position, error) {
	var resp struct {
		Positions []struct {
			Symbol      string  `json:"symbol"`
			Volume      int64   `json:"volume"`
			AvgPrice    float64 `json:"avg_price"`
			MarketValue float64 `json:"market_value"`
		} `json:"positions"`
	}
	if err := c.do(ctx, http.MethodGet, "positions", nil, &resp); err != nil {
		return nil, fmt.Errorf("brokergw: positions: %w", err)
	}

	out := make(map[string]model.Position, len(resp.Positions))
	for _, p := range resp.Positions {
		out[p.Symbol] = model.Position{
			Symbol:      p.Symbol,
			Volume:      p.Volume,
			AvgPrice:    p.AvgPrice,
			MarketValue: p.MarketValue,
		}
	}
	return out, nil
}

// Submit places an order for the intent and returns the broker's order
// sequence number. Submission is fire-and-forget: acceptance by the
// gateway says nothing about the eventual fill.
func (c *Client) Submit(ctx context.Context, intent model.TradeIntent) (int64, error) {
	var resp struct {
		OrderID int64 `json:"order_id"`
	}
	body := map[string]interface{}{
		"symbol":      intent.Symbol,
		"side":        string(intent.Side),
		"price":       intent.Price,
		"quantity":    intent.Quantity,
		"signal_type": intent.SignalType,
		"reason":      intent.Reason,
	}
	if err := c.do(ctx, http.MethodPost, "order.place", body, &resp); err != nil {
		return 0, fmt.Errorf("brokergw: place order %s: %w", intent.Symbol, err)
	}

	log.Printf("[brokergw] order %d: %s", resp.OrderID, intent.String())
	return resp.OrderID, nil
}

func (c *Client) do(ctx context.Context, method, route string, body interface{}, out interface{}) error {
	uri, ok := routes[route]
	if !ok {
		return fmt.Errorf("unknown route: %s", route)
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+uri, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	if c.cfg.Debug {
		log.Printf("[brokergw] %s %s", method, uri)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("status %d: %s", resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(raw))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
