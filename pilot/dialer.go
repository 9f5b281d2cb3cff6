// Package pilot is the headless client: it runs the full flight
// simulation locally and exchanges transforms with the relay.
package pilot

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sony/gobreaker"
)

const (
	dialTimeout  = 10 * time.Second
	maxRetries   = 3
	retryBackoff = time.Second
)

// Dialer opens relay connections through a circuit breaker so a dead
// relay fails fast instead of hammering the network.
type Dialer struct {
	breaker *gobreaker.CircuitBreaker
}

// NewDialer creates a Dialer
func NewDialer() *Dialer {
	settings := gobreaker.Settings{
		Name:    "relay-dial",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("dialer circuit %s: %s -> %s", name, from, to)
		},
	}
	return &Dialer{breaker: gobreaker.NewCircuitBreaker(settings)}
}

// Dial connects to the relay WebSocket endpoint, retrying with linear
// backoff while the circuit stays closed.
func (d *Dialer) Dial(ctx context.Context, url string) (*websocket.Conn, error) {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		conn, err := d.breaker.Execute(func() (interface{}, error) {
			dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
			defer cancel()
			c, _, err := websocket.DefaultDialer.DialContext(dialCtx, url, nil)
			return c, err
		})
		if err == nil {
			return conn.(*websocket.Conn), nil
		}
		lastErr = err

		if d.breaker.State() == gobreaker.StateOpen {
			return nil, fmt.Errorf("relay unreachable, circuit open: %w", err)
		}
		if attempt == maxRetries-1 {
			break
		}
		delay := time.Duration(attempt+1) * retryBackoff
		log.Printf("dial %s failed (attempt %d): %v, retrying in %s", url, attempt+1, err, delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("dial %s: %w", url, lastErr)
}

// State returns the current circuit state
func (d *Dialer) State() gobreaker.State {
	return d.breaker.State()
}
