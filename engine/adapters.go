package engine

import (
	"time"

	"hwstatus/dispatch"
)

// dispatchEmitter bridges the dispatch package's emitter interface to the EventBus.
type dispatchEmitter struct {
	bus *EventBus
}

func (e *dispatchEmitter) EmitEvaluationCompleted(provider, name string, status dispatch.Status, elapsed time.Duration) {
	e.bus.Emit(Event{Type: EventEvaluationCompleted, Payload: EvaluationCompletedEvent{
		Provider:     provider,
		Name:         name,
		Availability: status,
		Elapsed:      elapsed,
	}})
}

func (e *dispatchEmitter) EmitEvaluationFailed(provider, name string, err error, elapsed time.Duration) {
	e.bus.Emit(Event{Type: EventEvaluationFailed, Payload: EvaluationFailedEvent{
		Provider: provider,
		Name:     name,
		Err:      err,
		Elapsed:  elapsed,
	}})
}
