package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hwstatus/config"
	"hwstatus/dispatch"
)

// Publisher delivers encoded messages to a broker topic.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload []byte) error
	IsConnected() bool
	Close() error
}

const TypeAvailabilityReport = "availability_report"

// Envelope wraps every outbound message.
type Envelope struct {
	Type        string            `json:"type"`
	ID          string            `json:"id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Results     []dispatch.Result `json:"results"`
}

func NewReportEnvelope(id string, generatedAt time.Time, results []dispatch.Result) *Envelope {
	return &Envelope{
		Type:        TypeAvailabilityReport,
		ID:          id,
		GeneratedAt: generatedAt.UTC(),
		Results:     results,
	}
}

func (e *Envelope) Encode() ([]byte, error) {
	return json.Marshal(e)
}

func Decode(data []byte) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// NewPublisher builds the publisher for cfg.Backend. Kafka and MQTT
// publishers still need Connect before use.
func NewPublisher(cfg *config.MessagingConfig) (Publisher, error) {
	switch cfg.Backend {
	case "none", "":
		return nopPublisher{}, nil
	case "kafka":
		return NewKafkaPublisher(cfg.Kafka.Brokers), nil
	case "mqtt":
		return NewMQTTPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID, cfg.MQTT.QoS), nil
	default:
		return nil, fmt.Errorf("unsupported messaging backend: %s", cfg.Backend)
	}
}

// Connector is implemented by publishers that hold a broker connection.
type Connector interface {
	Connect() error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, string, []byte) error { return nil }
func (nopPublisher) IsConnected() bool                                     { return false }
func (nopPublisher) Close() error                                          { return nil }
