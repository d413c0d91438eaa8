package redis

import (
	"context"
	"log"
	"sync"

	"signal-enginev1/internal/model"
)

// BufferedQuoteWriter wraps the Store with a circuit breaker. While the
// breaker is open, quotes are held locally and replayed once Redis
// recovers, so a short outage loses no data.
type BufferedQuoteWriter struct {
	store *Store
	cb    *CircuitBreaker
	ctx   context.Context

	mu     sync.Mutex
	buffer []model.Quote
	maxBuf int

	OnBuffer func()          // called when a quote is buffered
	OnFlush  func(count int) // called after replaying buffered quotes
}

// NewBufferedQuoteWriter wraps store with cb. maxBufferSize bounds the
// local buffer; the oldest quote is dropped when it fills.
func NewBufferedQuoteWriter(ctx context.Context, store *Store, cb *CircuitBreaker, maxBufferSize int) *BufferedQuoteWriter {
	if maxBufferSize <= 0 {
		maxBufferSize = 10000
	}
	bw := &BufferedQuoteWriter{
		store:  store,
		cb:     cb,
		ctx:    ctx,
		buffer: make([]model.Quote, 0, 256),
		maxBuf: maxBufferSize,
	}

	prev := cb.OnStateChange
	cb.OnStateChange = func(from, to State) {
		if prev != nil {
			prev(from, to)
		}
		if to == StateClosed {
			go bw.flush()
		}
	}

	return bw
}

// WriteQuote writes through the breaker, buffering while it is open.
func (bw *BufferedQuoteWriter) WriteQuote(q model.Quote) error {
	err := bw.cb.Execute(func() error {
		return bw.store.WriteQuote(bw.ctx, q)
	})
	if err == ErrCircuitOpen {
		bw.bufferQuote(q)
		return nil // buffered, not lost
	}
	return err
}

func (bw *BufferedQuoteWriter) bufferQuote(q model.Quote) {
	bw.mu.Lock()
	defer bw.mu.Unlock()

	if len(bw.buffer) >= bw.maxBuf {
		bw.buffer = bw.buffer[1:]
	}
	bw.buffer = append(bw.buffer, q)

	if bw.OnBuffer != nil {
		bw.OnBuffer()
	}
}

func (bw *BufferedQuoteWriter) flush() {
	bw.mu.Lock()
	if len(bw.buffer) == 0 {
		bw.mu.Unlock()
		return
	}
	toFlush := bw.buffer
	bw.buffer = make([]model.Quote, 0, 256)
	bw.mu.Unlock()

	for _, q := range toFlush {
		if err := bw.store.WriteQuote(bw.ctx, q); err != nil {
			log.Printf("[quote-buffer] replay write failed for %s: %v", q.Symbol, err)
		}
	}

	log.Printf("[quote-buffer] flushed %d buffered quotes", len(toFlush))
	if bw.OnFlush != nil {
		bw.OnFlush(len(toFlush))
	}
}

// PendingCount returns the number of quotes waiting for replay.
func (bw *BufferedQuoteWriter) PendingCount() int {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	return len(bw.buffer)
}
