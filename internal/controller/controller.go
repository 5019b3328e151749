// Package controller runs the single control loop that ties the display,
// the message bus and the quote scheduler together.
package controller

import (
	"context"
	"errors"
	"log"
	"time"

	"DeskDisplay/internal/bus"
	"DeskDisplay/internal/media"
	"DeskDisplay/internal/model"
	"DeskDisplay/internal/nextion"
	"DeskDisplay/internal/scheduler"
)

// Display is a panel whose page changes are reported back to the loop.
type Display interface {
	nextion.Display
	ObservePage(id int)
}

// Gateway performs home automation actions.
type Gateway interface {
	MediaControl(ctx context.Context, action string) error
	SelectSource(ctx context.Context, source string) error
	ToggleLight(ctx context.Context) error
}

// Publisher sends bus messages.
type Publisher interface {
	Publish(ctx context.Context, topic, payload string) error
}

// Connector keeps the bus connection up. EnsureConnected blocks until it is.
type Connector interface {
	EnsureConnected(ctx context.Context) error
}

// Controller owns all mutable loop state; nothing else touches it.
type Controller struct {
	Display    Display
	Scheduler  *scheduler.Scheduler
	Bus        Connector
	Publisher  Publisher
	Gateway    Gateway
	Classifier media.Classifier

	// PowerCommandTopic receives TOGGLE from the heater button.
	PowerCommandTopic string
	// Poll is how often the tick schedule is checked.
	Poll time.Duration
	Now  func() time.Time

	media model.MediaState
}

// New creates a Controller polling the tick schedule every second.
func New(d Display, sched *scheduler.Scheduler, conn Connector, pub Publisher, gw Gateway, cls media.Classifier, powerCommandTopic string) *Controller {
	return &Controller{
		Display:           d,
		Scheduler:         sched,
		Bus:               conn,
		Publisher:         pub,
		Gateway:           gw,
		Classifier:        cls,
		PowerCommandTopic: powerCommandTopic,
		Poll:              time.Second,
		Now:               time.Now,
	}
}

// Media returns the current media state.
func (c *Controller) Media() model.MediaState { return c.media }

// Run services display events, bus messages and the tick schedule until ctx
// is done. The bus connection is re-established before each cycle.
func (c *Controller) Run(ctx context.Context, events <-chan nextion.Event, inbox <-chan bus.Delivery) error {
	ticker := time.NewTicker(c.Poll)
	defer ticker.Stop()

	c.Scheduler.Due(c.Now())
	for {
		if err := c.Bus.EnsureConnected(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		select {
		case <-ctx.Done():
			log.Println("[INFO] control loop stopped")
			return nil
		case ev, ok := <-events:
			if !ok {
				events = nil
				log.Println("[WARN] display event stream closed")
				continue
			}
			c.HandleEvent(ctx, ev)
		case d := <-inbox:
			c.HandleDelivery(d)
		case <-ticker.C:
			now := c.Now()
			if c.Scheduler.Due(now) {
				c.Scheduler.Tick(ctx, now)
			}
		}
	}
}

// HandleEvent applies a display event.
func (c *Controller) HandleEvent(ctx context.Context, ev nextion.Event) {
	switch ev.Kind {
	case nextion.EventPage:
		log.Printf("[INFO] page %d", ev.Value)
		c.Display.ObservePage(ev.Value)
	case nextion.EventTrigger:
		if err := c.HandleTrigger(ctx, ev.Value); err != nil {
			log.Printf("[ERROR] trigger 0x%02X: %v", ev.Value, err)
		}
	}
}

// HandleDelivery folds a bus message into the media state and updates the display.
func (c *Controller) HandleDelivery(d bus.Delivery) {
	msg := c.Classifier.Classify(d.Topic, d.Payload)
	if msg.Kind == media.KindUnknown {
		return
	}
	res := media.Reduce(c.media, msg, c.Now())
	c.media = res.State
	if res.Err != nil {
		if errors.Is(res.Err, media.ErrStaleUpdate) {
			log.Printf("[INFO] %s ignored: %v", msg.Kind, res.Err)
		} else {
			log.Printf("[WARN] %s: %v", msg.Kind, res.Err)
		}
	}
	if err := media.Apply(c.Display, res.Commands); err != nil {
		log.Printf("[ERROR] display %s: %v", msg.Kind, err)
	}
}
