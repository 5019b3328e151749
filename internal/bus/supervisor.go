package bus

import (
	"context"
	"fmt"
	"log"
	"time"
)

// DefaultRetryDelay is the pause between failed connection attempts.
const DefaultRetryDelay = 5 * time.Second

// State is the supervised connection state.
type State int

const (
	Disconnected State = iota
	Connected
)

func (s State) String() string {
	if s == Connected {
		return "connected"
	}
	return "disconnected"
}

// Supervisor owns reconnection. Subscriptions do not survive a reconnect, so
// every successful connect re-subscribes to all Filters.
type Supervisor struct {
	Client     Client
	Filters    []string
	RetryDelay time.Duration
	// Sleep waits between attempts; it returns early with ctx's error.
	Sleep func(ctx context.Context, d time.Duration) error

	state    State
	attempts int
}

// NewSupervisor creates a new Supervisor.
func NewSupervisor(c Client, retryDelay time.Duration, filters ...string) *Supervisor {
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}
	return &Supervisor{Client: c, Filters: filters, RetryDelay: retryDelay, Sleep: sleep}
}

// State returns the last observed connection state.
func (s *Supervisor) State() State { return s.state }

// Attempts returns the number of connection attempts made so far.
func (s *Supervisor) Attempts() int { return s.attempts }

// EnsureConnected returns at once when the client is connected. Otherwise it
// blocks, retrying connect-and-subscribe every RetryDelay until it succeeds
// or ctx is done.
func (s *Supervisor) EnsureConnected(ctx context.Context) error {
	if s.Client.IsConnected() {
		s.state = Connected
		return nil
	}
	if s.state == Connected {
		log.Println("[WARN] mqtt disconnected")
	}
	s.state = Disconnected

	for {
		s.attempts++
		err := s.connect(ctx)
		if err == nil {
			s.state = Connected
			log.Printf("[INFO] mqtt connected, subscribed to %v", s.Filters)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("[WARN] mqtt connect failed (attempt %d): %v, retrying in %v", s.attempts, err, s.RetryDelay)
		if err := s.Sleep(ctx, s.RetryDelay); err != nil {
			return err
		}
	}
}

func (s *Supervisor) connect(ctx context.Context) error {
	if err := s.Client.Connect(ctx); err != nil {
		return err
	}
	for _, f := range s.Filters {
		if err := s.Client.Subscribe(ctx, f); err != nil {
			s.Client.Disconnect()
			return fmt.Errorf("subscribe %s: %w", f, err)
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
