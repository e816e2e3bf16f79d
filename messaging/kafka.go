package messaging

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

type KafkaPublisher struct {
	brokers []string

	mu        sync.Mutex
	writer    *kafka.Writer
	connected bool
}

func NewKafkaPublisher(brokers []string) *KafkaPublisher {
	return &KafkaPublisher{brokers: brokers}
}

// Connect verifies a broker is reachable and prepares the writer.
func (p *KafkaPublisher) Connect() error {
	if len(p.brokers) == 0 {
		return fmt.Errorf("kafka: no brokers configured")
	}
	conn, err := kafka.Dial("tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("kafka: dial %s: %w", p.brokers[0], err)
	}
	conn.Close()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.writer = &kafka.Writer{
		Addr:                   kafka.TCP(p.brokers...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
	}
	p.connected = true
	return nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, payload []byte) error {
	p.mu.Lock()
	w := p.writer
	p.mu.Unlock()
	if w == nil {
		return fmt.Errorf("kafka: not connected")
	}
	err := w.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
	})
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) {
			p.mu.Lock()
			p.connected = false
			p.mu.Unlock()
		}
		return fmt.Errorf("kafka: write %s: %w", topic, err)
	}
	return nil
}

func (p *KafkaPublisher) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connected = false
	if p.writer == nil {
		return nil
	}
	err := p.writer.Close()
	p.writer = nil
	return err
}
