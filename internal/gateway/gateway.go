// Package gateway calls Home Assistant services over its REST API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Media player actions, see https://www.home-assistant.io/integrations/media_player.
const (
	PlayPause     = "media_play_pause"
	NextTrack     = "media_next_track"
	PreviousTrack = "media_previous_track"
	VolumeUp      = "volume_up"
	VolumeDown    = "volume_down"
)

// Client calls services on one media player and one light.
type Client struct {
	BaseURL     string
	Token       string
	MediaEntity string
	LightEntity string
	HTTP        *http.Client
	MaxRetries  int
	// Backoff returns the wait before retry n (0-based).
	Backoff func(n int) time.Duration
}

// NewClient creates a client with a 10 second request timeout and two retries.
func NewClient(baseURL, token, mediaEntity, lightEntity string) *Client {
	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		Token:       token,
		MediaEntity: mediaEntity,
		LightEntity: lightEntity,
		HTTP:        &http.Client{Timeout: 10 * time.Second},
		MaxRetries:  2,
		Backoff: func(n int) time.Duration {
			return time.Duration(1<<uint(n)) * time.Second
		},
	}
}

// Call posts body to /api/services/<domain>/<service>.
func (c *Client) Call(ctx context.Context, domain, service string, body map[string]string) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	url := fmt.Sprintf("%s/api/services/%s/%s", c.BaseURL, domain, service)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("call %s.%s: %w", domain, service, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway error: %s.%s status %d, body: %s", domain, service, resp.StatusCode, string(respBody))
	}
	return nil
}

// CallWithRetry calls a service, retrying with exponential backoff.
func (c *Client) CallWithRetry(ctx context.Context, domain, service string, body map[string]string) error {
	var lastErr error
	for i := 0; i <= c.MaxRetries; i++ {
		err := c.Call(ctx, domain, service, body)
		if err == nil {
			return nil
		}
		lastErr = err
		if i == c.MaxRetries {
			break
		}
		backoff := c.Backoff(i)
		log.Printf("[WARN] gateway call failed (attempt %d/%d): %v, retrying in %v", i+1, c.MaxRetries+1, err, backoff)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("all %d attempts failed: %w", c.MaxRetries+1, lastErr)
}

// MediaControl runs a media_player action such as PlayPause on the media entity.
func (c *Client) MediaControl(ctx context.Context, action string) error {
	log.Printf("[INFO] media %s", action)
	return c.CallWithRetry(ctx, "media_player", action, map[string]string{"entity_id": c.MediaEntity})
}

// SelectSource switches the media entity to a favourite by name.
func (c *Client) SelectSource(ctx context.Context, source string) error {
	log.Printf("[INFO] media source %q", source)
	return c.CallWithRetry(ctx, "media_player", "select_source", map[string]string{
		"entity_id": c.MediaEntity,
		"source":    source,
	})
}

// ToggleLight toggles the light entity.
func (c *Client) ToggleLight(ctx context.Context) error {
	log.Println("[INFO] light toggle")
	return c.CallWithRetry(ctx, "light", "toggle", map[string]string{"entity_id": c.LightEntity})
}
