package evaluator

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"hwstatus/dispatch"
)

var ErrNoGauge = errors.New("no capacity gauge")

// GaugeStore reads free-capacity ratios published to Redis by the capacity
// collectors. Keys are "{prefix}:{provider}:{name}", values a float in [0,1].
type GaugeStore struct {
	client *redis.Client
	prefix string
}

func NewGaugeStore(client *redis.Client, prefix string) *GaugeStore {
	return &GaugeStore{client: client, prefix: prefix}
}

func (s *GaugeStore) key(provider, name string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, provider, name)
}

func (s *GaugeStore) FreeRatio(ctx context.Context, provider, name string) (float64, error) {
	val, err := s.client.Get(ctx, s.key(provider, name)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("%w for %s/%s", ErrNoGauge, provider, name)
	}
	if err != nil {
		return 0, err
	}
	ratio, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("gauge %s: %w", s.key(provider, name), err)
	}
	return ratio, nil
}

// RatioReader yields the free-capacity ratio for one offering.
type RatioReader interface {
	FreeRatio(ctx context.Context, provider, name string) (float64, error)
}

// Gauge classifies the free-capacity ratio against two thresholds.
type Gauge struct {
	reader RatioReader
	high   float64
	medium float64
}

func NewGauge(reader RatioReader, high, medium float64) *Gauge {
	return &Gauge{reader: reader, high: high, medium: medium}
}

func (g *Gauge) Evaluate(ctx context.Context, provider, name string) (dispatch.Status, error) {
	ratio, err := g.reader.FreeRatio(ctx, provider, name)
	if err != nil {
		return "", err
	}
	return g.Classify(ratio), nil
}

func (g *Gauge) Classify(ratio float64) dispatch.Status {
	switch {
	case ratio >= g.high:
		return dispatch.StatusHigh
	case ratio >= g.medium:
		return dispatch.StatusMedium
	default:
		return dispatch.StatusLow
	}
}
