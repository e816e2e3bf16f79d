// Package evaluator holds the availability checks a Dispatcher can fan out to.
package evaluator

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"hwstatus/config"
	"hwstatus/dispatch"
)

// New builds the evaluator selected by cfg.Backend. redisClient is only
// consulted for the redis backend.
func New(cfg *config.EvaluatorConfig, redisClient *redis.Client) (dispatch.Evaluator, error) {
	switch cfg.Backend {
	case "simulated", "":
		return NewSimulated(cfg.Latency), nil
	case "remote":
		return NewRemote(cfg.Remote.BaseURL, cfg.Remote.Timeout), nil
	case "redis":
		if redisClient == nil {
			return nil, fmt.Errorf("redis evaluator requires a redis client")
		}
		store := NewGaugeStore(redisClient, cfg.Gauge.KeyPrefix)
		return NewGauge(store, cfg.Gauge.High, cfg.Gauge.Medium), nil
	default:
		return nil, fmt.Errorf("unsupported evaluator backend: %s", cfg.Backend)
	}
}
