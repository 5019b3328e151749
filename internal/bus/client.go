// Package bus connects to the MQTT broker that carries media-player and
// power-plug state, and keeps that connection alive.
package bus

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// ErrNotConnected is returned when publishing without a connection.
var ErrNotConnected = errors.New("mqtt not connected")

// InboxSize is how many undelivered messages are buffered before new ones are dropped.
const InboxSize = 64

// Delivery is one inbound message.
type Delivery struct {
	Topic   string
	Payload []byte
}

// Client is the broker connection the Supervisor manages.
type Client interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context, filter string) error
	IsConnected() bool
	Disconnect()
}

// Options configures an MQTTClient.
type Options struct {
	Broker   string
	ClientID string
	Username string
	Password string
}

// MQTTClient is a paho client with its own reconnect logic switched off.
// Subscribed messages are delivered on Inbox at QoS 0.
type MQTTClient struct {
	client mqtt.Client
	inbox  chan Delivery
}

// NewMQTTClient creates a client. It does not connect.
func NewMQTTClient(o Options) *MQTTClient {
	m := &MQTTClient{inbox: make(chan Delivery, InboxSize)}
	opts := mqtt.NewClientOptions().
		AddBroker(o.Broker).
		SetClientID(o.ClientID).
		SetUsername(o.Username).
		SetPassword(o.Password).
		SetCleanSession(true).
		SetAutoReconnect(false).
		SetConnectRetry(false).
		SetConnectTimeout(10 * time.Second).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Printf("[WARN] mqtt connection lost: %v", err)
		})
	m.client = mqtt.NewClient(opts)
	return m
}

// Inbox returns the channel subscribed messages arrive on.
func (m *MQTTClient) Inbox() <-chan Delivery { return m.inbox }

func (m *MQTTClient) Connect(ctx context.Context) error {
	return wait(ctx, m.client.Connect(), "connect")
}

func (m *MQTTClient) Subscribe(ctx context.Context, filter string) error {
	return wait(ctx, m.client.Subscribe(filter, 0, m.deliver), "subscribe "+filter)
}

// Publish sends payload to topic at QoS 0, not retained.
func (m *MQTTClient) Publish(ctx context.Context, topic, payload string) error {
	if !m.IsConnected() {
		return ErrNotConnected
	}
	return wait(ctx, m.client.Publish(topic, 0, false, payload), "publish "+topic)
}

func (m *MQTTClient) IsConnected() bool { return m.client.IsConnectionOpen() }

func (m *MQTTClient) Disconnect() {
	if m.client.IsConnected() {
		m.client.Disconnect(250)
	}
}

// deliver runs on paho's router goroutine and must not block it.
func (m *MQTTClient) deliver(_ mqtt.Client, msg mqtt.Message) {
	d := Delivery{Topic: msg.Topic(), Payload: append([]byte(nil), msg.Payload()...)}
	select {
	case m.inbox <- d:
	default:
		log.Printf("[WARN] mqtt inbox full, dropping %s", d.Topic)
	}
}

func wait(ctx context.Context, tok mqtt.Token, what string) error {
	select {
	case <-tok.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt %s: %w", what, err)
	}
	return nil
}
