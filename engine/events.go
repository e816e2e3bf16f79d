package engine

import (
	"sync"
	"time"

	"hwstatus/dispatch"
)

type EventType int

const (
	EventEvaluationCompleted EventType = iota + 1
	EventEvaluationFailed
	EventReportReady
	EventReportFailed
	EventDatabaseConnected
	EventDatabaseDisconnected
	EventMessagingConnected
	EventMessagingDisconnected
)

type Event struct {
	Type    EventType
	Payload any
}

// EventBus fans events out to subscribers synchronously, in subscription order.
type EventBus struct {
	mu   sync.RWMutex
	subs []subscription
}

type subscription struct {
	types map[EventType]bool
	fn    func(Event)
}

func NewEventBus() *EventBus {
	return &EventBus{}
}

// SubscribeTypes registers fn for the given event types.
func (b *EventBus) SubscribeTypes(fn func(Event), types ...EventType) {
	set := make(map[EventType]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	b.mu.Lock()
	b.subs = append(b.subs, subscription{types: set, fn: fn})
	b.mu.Unlock()
}

func (b *EventBus) Emit(evt Event) {
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()
	for _, s := range subs {
		if s.types[evt.Type] {
			s.fn(evt)
		}
	}
}

// --- Event payloads ---

type EvaluationCompletedEvent struct {
	Provider     string
	Name         string
	Availability dispatch.Status
	Elapsed      time.Duration
}

type EvaluationFailedEvent struct {
	Provider string
	Name     string
	Err      error
	Elapsed  time.Duration
}

type ReportReadyEvent struct {
	Report  *Report
	Elapsed time.Duration
}

type ReportFailedEvent struct {
	ReportID string
	Err      error
	Elapsed  time.Duration
}

type ConnectionEvent struct {
	Detail string
}
