package ledstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/litescript/ls-nightsky/internal/config"
	"github.com/litescript/ls-nightsky/internal/logging"
)

// qos is the MQTT delivery level for frames: at most once.
const qos byte = 0

// ErrPublishTimeout is returned when the broker does not acknowledge a
// publish in time.
var ErrPublishTimeout = errors.New("publish timed out")

// Publisher sends encoded frames to a topic.
type Publisher interface {
	Publish(topic string, payload []byte) error
	Close()
}

// MQTTPublisher publishes frames through a paho client.
type MQTTPublisher struct {
	client  mqtt.Client
	timeout time.Duration
	log     *logging.Logger
}

// NewMQTTPublisher creates a publisher for the broker in cfg. Call Connect
// before publishing.
func NewMQTTPublisher(cfg config.MQTT, log *logging.Logger) *MQTTPublisher {
	p := &MQTTPublisher{
		timeout: time.Second,
		log:     log,
	}

	options := mqtt.NewClientOptions().
		AddBroker(cfg.URL).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true).
		SetOnConnectHandler(p.handleOnConnect).
		SetConnectionLostHandler(p.handleConnectionLost)
	p.client = mqtt.NewClient(options)

	return p
}

func (p *MQTTPublisher) handleOnConnect(client mqtt.Client) {
	p.log.Info("connected")
}

func (p *MQTTPublisher) handleConnectionLost(client mqtt.Client, err error) {
	p.log.Warn("connection lost: %v", err)
}

// Connect dials the broker, giving up when ctx is done.
func (p *MQTTPublisher) Connect(ctx context.Context) error {
	token := p.client.Connect()
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connect to broker: %w", err)
	}
	return nil
}

// Publish implements Publisher.
func (p *MQTTPublisher) Publish(topic string, payload []byte) error {
	token := p.client.Publish(topic, qos, false, payload)
	if !token.WaitTimeout(p.timeout) {
		return ErrPublishTimeout
	}
	return token.Error()
}

// Close disconnects, allowing in-flight work 250ms to finish.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
