package dispatch

import "time"

// Emitter is the interface adapters must satisfy to bridge dispatch events to the engine.
type Emitter interface {
	EmitEvaluationCompleted(provider, name string, status Status, elapsed time.Duration)
	EmitEvaluationFailed(provider, name string, err error, elapsed time.Duration)
}

type nopEmitter struct{}

func (nopEmitter) EmitEvaluationCompleted(string, string, Status, time.Duration) {}
func (nopEmitter) EmitEvaluationFailed(string, string, error, time.Duration)     {}
