package engine

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"hwstatus/config"
	"hwstatus/dispatch"
	"hwstatus/messaging"
	"hwstatus/store"
)

type LogFunc func(format string, args ...any)

type Config struct {
	AppConfig *config.Config
	DB        *store.DB
	Evaluator dispatch.Evaluator
	Publisher messaging.Publisher
	LogFunc   LogFunc

	// Registry receives the engine metrics; a private registry is created when nil.
	Registry *prometheus.Registry
}

// Report is one completed availability listing.
type Report struct {
	ID          string
	GeneratedAt time.Time
	Results     []dispatch.Result
}

type Engine struct {
	cfg          *config.Config
	db           *store.DB
	publisher    messaging.Publisher
	dispatcher   *dispatch.Dispatcher
	registry     *prometheus.Registry
	metrics      *Metrics
	Events       *EventBus
	logFn        LogFunc
	stopChan     chan struct{}
	stopOnce     sync.Once
	pending      sync.WaitGroup
	mu           sync.Mutex
	dbConnected  bool
	msgConnected bool
}

func New(c Config) *Engine {
	logFn := c.LogFunc
	if logFn == nil {
		logFn = log.Printf
	}
	publisher := c.Publisher
	if publisher == nil {
		publisher, _ = messaging.NewPublisher(&config.MessagingConfig{Backend: "none"})
	}
	registry := c.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	appCfg := c.AppConfig
	if appCfg == nil {
		appCfg = config.Defaults()
	}
	e := &Engine{
		cfg:       appCfg,
		db:        c.DB,
		publisher: publisher,
		registry:  registry,
		metrics:   NewMetrics(registry),
		Events:    NewEventBus(),
		logFn:     logFn,
		stopChan:  make(chan struct{}),
	}
	e.dispatcher = dispatch.NewDispatcher(c.Evaluator, dispatch.Options{
		TaskTimeout:    appCfg.Dispatch.TaskTimeout,
		MaxConcurrency: appCfg.Dispatch.MaxConcurrency,
		Emitter:        &dispatchEmitter{bus: e.Events},
		LogFunc:        dispatch.LogFunc(logFn),
	})
	e.wireEventHandlers()
	return e
}

func (e *Engine) Start() {
	// Emit initial connection status
	e.checkConnectionStatus()

	// Start periodic connection health check
	go e.connectionHealthLoop()

	e.logFn("engine: started (evaluator=%s, max_concurrency=%d, task_timeout=%s)",
		e.cfg.Evaluator.Backend, e.cfg.Dispatch.MaxConcurrency, e.cfg.Dispatch.TaskTimeout)
}

// Stop halts background loops and waits for in-flight report publishes.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stopChan) })
	e.pending.Wait()
	e.logFn("engine: stopped")
}

// Accessors
func (e *Engine) DB() *store.DB                  { return e.db }
func (e *Engine) AppConfig() *config.Config      { return e.cfg }
func (e *Engine) Registry() *prometheus.Registry { return e.registry }

// ListAvailability reads the inventory and classifies every record
// concurrently. Inventory read failures wrap dispatch.ErrSourceUnavailable;
// evaluation failures wrap dispatch.ErrEvaluation. No partial report is
// returned on error.
func (e *Engine) ListAvailability(ctx context.Context) (*Report, error) {
	start := time.Now()
	id := uuid.NewString()

	records, err := e.db.FetchAll(ctx)
	if err != nil {
		e.Events.Emit(Event{Type: EventReportFailed, Payload: ReportFailedEvent{ReportID: id, Err: err, Elapsed: time.Since(start)}})
		return nil, err
	}

	results, err := e.dispatcher.EvaluateAll(ctx, records)
	if err != nil {
		e.Events.Emit(Event{Type: EventReportFailed, Payload: ReportFailedEvent{ReportID: id, Err: err, Elapsed: time.Since(start)}})
		return nil, err
	}

	report := &Report{ID: id, GeneratedAt: time.Now(), Results: results}
	e.Events.Emit(Event{Type: EventReportReady, Payload: ReportReadyEvent{Report: report, Elapsed: time.Since(start)}})
	return report, nil
}

// Healthy reports database reachability and messaging connectivity.
func (e *Engine) Healthy(ctx context.Context) (dbOK, msgOK bool) {
	dbOK = e.db.Ping(ctx) == nil
	msgOK = e.publisher.IsConnected()
	return dbOK, msgOK
}

func (e *Engine) checkConnectionStatus() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	dbOK, msgOK := e.Healthy(ctx)

	e.mu.Lock()
	dbChanged := dbOK != e.dbConnected
	msgChanged := msgOK != e.msgConnected
	e.dbConnected, e.msgConnected = dbOK, msgOK
	e.mu.Unlock()

	if dbChanged {
		if dbOK {
			e.Events.Emit(Event{Type: EventDatabaseConnected, Payload: ConnectionEvent{Detail: e.db.Driver() + " reachable"}})
		} else {
			e.Events.Emit(Event{Type: EventDatabaseDisconnected, Payload: ConnectionEvent{Detail: e.db.Driver() + " unreachable"}})
		}
	}
	if msgChanged {
		if msgOK {
			e.Events.Emit(Event{Type: EventMessagingConnected, Payload: ConnectionEvent{Detail: "messaging connected"}})
		} else {
			e.Events.Emit(Event{Type: EventMessagingDisconnected, Payload: ConnectionEvent{Detail: "messaging disconnected"}})
		}
	}
}

func (e *Engine) connectionHealthLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-e.stopChan:
			return
		case <-ticker.C:
			e.checkConnectionStatus()
		}
	}
}
