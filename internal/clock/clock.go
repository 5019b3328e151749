// Package clock corrects local wall-clock drift against NTP and mirrors the
// corrected time into the display's real-time clock.
package clock

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/beevik/ntp"

	"DeskDisplay/internal/nextion"
)

// DefaultServers are queried in order until one answers.
var DefaultServers = []string{"pool.ntp.org", "time.nist.gov"}

// QueryFunc asks one server for the clock offset.
type QueryFunc func(ctx context.Context, host string) (time.Duration, error)

// Clock is a wall clock corrected by the last successful sync.
type Clock struct {
	Servers  []string
	Location *time.Location
	Query    QueryFunc

	mu     sync.RWMutex
	offset time.Duration
	synced time.Time
}

// New creates a Clock that reports time in loc.
func New(servers []string, loc *time.Location) *Clock {
	if len(servers) == 0 {
		servers = DefaultServers
	}
	if loc == nil {
		loc = time.Local
	}
	return &Clock{Servers: servers, Location: loc, Query: queryNTP}
}

func queryNTP(ctx context.Context, host string) (time.Duration, error) {
	opts := ntp.QueryOptions{Timeout: 5 * time.Second}
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d < opts.Timeout {
			opts.Timeout = d
		}
	}
	resp, err := ntp.QueryWithOptions(host, opts)
	if err != nil {
		return 0, err
	}
	if err := resp.Validate(); err != nil {
		return 0, err
	}
	return resp.ClockOffset, nil
}

// Now returns the corrected time in the clock's location.
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Now().Add(c.offset).In(c.Location)
}

// Offset returns the correction applied by Now.
func (c *Clock) Offset() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.offset
}

// Sync queries the servers in order and keeps the first valid offset.
func (c *Clock) Sync(ctx context.Context) error {
	var errs []error
	for _, host := range c.Servers {
		if err := ctx.Err(); err != nil {
			return err
		}
		off, err := c.Query(ctx, host)
		if err != nil {
			log.Printf("[WARN] ntp %s: %v", host, err)
			errs = append(errs, fmt.Errorf("%s: %w", host, err))
			continue
		}
		c.mu.Lock()
		c.offset = off
		c.synced = time.Now()
		c.mu.Unlock()
		log.Printf("[INFO] clock synced via %s, offset %v", host, off)
		return nil
	}
	return fmt.Errorf("clock sync failed: %w", errors.Join(errs...))
}

// WriteRTC sets the display's real-time clock registers to t.
func WriteRTC(d nextion.Display, t time.Time) error {
	regs := []struct {
		name  string
		value int
	}{
		{"rtc5", t.Second()},
		{"rtc4", t.Minute()},
		{"rtc3", t.Hour()},
		{"rtc1", int(t.Month())},
		{"rtc2", t.Day()},
		{"rtc0", t.Year()},
	}
	for _, r := range regs {
		if err := d.WriteNum(r.name, r.value); err != nil {
			return fmt.Errorf("set %s: %w", r.name, err)
		}
	}
	return nil
}
