package controller

import (
	"context"
	"fmt"
	"log"

	"DeskDisplay/internal/gateway"
)

// Favourites on the media player, keyed by trigger id.
var sources = map[int]string{
	0x02: "WXRT Over the Air",
	0x06: "Discover Weekly",
	0x07: "Daily Mix 1",
	0x08: "Daily Mix 2",
	0x09: "Daily Mix 3",
	0x0A: "Daily Mix 4",
	0x0B: "Daily Mix 5",
	0x0C: "Daily Mix 6",
	0x14: "Release Radar",
}

var mediaActions = map[int]string{
	0x00: gateway.PlayPause,
	0x03: gateway.VolumeDown,
	0x04: gateway.VolumeUp,
	0x0D: gateway.NextTrack,
	0x0E: gateway.PreviousTrack,
}

// HandleTrigger runs the action bound to a touch trigger id.
func (c *Controller) HandleTrigger(ctx context.Context, id int) error {
	if src, ok := sources[id]; ok {
		return c.Gateway.SelectSource(ctx, src)
	}
	if action, ok := mediaActions[id]; ok {
		return c.Gateway.MediaControl(ctx, action)
	}

	switch id {
	case 0x01:
		return c.Gateway.ToggleLight(ctx)
	case 0x10:
		c.Scheduler.UpdateQuotes(ctx, c.Now())
	case 0x11:
		c.Scheduler.UpdateChart(ctx, c.Now())
	case 0x12:
		m := c.media
		log.Printf("[INFO] media %s: %q by %q, %d/%ds, volume %d", m.Status, m.Title, m.Artist, m.ElapsedAt(c.Now()), m.Duration, m.Volume)
	case 0x13:
		return c.Publisher.Publish(ctx, c.PowerCommandTopic, "TOGGLE")
	default:
		return fmt.Errorf("no action bound")
	}
	return nil
}
