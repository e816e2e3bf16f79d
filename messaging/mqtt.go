package messaging

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const mqttConnectTimeout = 10 * time.Second

type MQTTPublisher struct {
	client mqtt.Client
	qos    byte
}

func NewMQTTPublisher(broker, clientID string, qos byte) *MQTTPublisher {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(mqttConnectTimeout)
	return &MQTTPublisher{client: mqtt.NewClient(opts), qos: qos}
}

func (p *MQTTPublisher) Connect() error {
	tok := p.client.Connect()
	if !tok.WaitTimeout(mqttConnectTimeout) {
		return fmt.Errorf("mqtt: connect timed out")
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt: connect: %w", err)
	}
	return nil
}

func (p *MQTTPublisher) Publish(ctx context.Context, topic, _ string, payload []byte) error {
	tok := p.client.Publish(topic, p.qos, false, payload)
	select {
	case <-tok.Done():
		return tok.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *MQTTPublisher) IsConnected() bool { return p.client.IsConnected() }

func (p *MQTTPublisher) Close() error {
	p.client.Disconnect(250)
	return nil
}
