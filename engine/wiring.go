package engine

import (
	"context"
	"errors"
	"time"

	"hwstatus/dispatch"
	"hwstatus/messaging"
)

const publishTimeout = 10 * time.Second

func (e *Engine) wireEventHandlers() {
	// Per-evaluation metrics
	e.Events.SubscribeTypes(func(evt Event) {
		ev := evt.Payload.(EvaluationCompletedEvent)
		e.metrics.evaluations.WithLabelValues("ok").Inc()
		e.metrics.evaluationDuration.Observe(ev.Elapsed.Seconds())
	}, EventEvaluationCompleted)

	e.Events.SubscribeTypes(func(evt Event) {
		ev := evt.Payload.(EvaluationFailedEvent)
		outcome := "error"
		switch {
		case errors.Is(ev.Err, context.DeadlineExceeded):
			outcome = "timeout"
		case errors.Is(ev.Err, context.Canceled):
			outcome = "cancelled"
		default:
			e.logFn("engine: evaluation %s/%s failed after %s: %v", ev.Provider, ev.Name, ev.Elapsed, ev.Err)
		}
		e.metrics.evaluations.WithLabelValues(outcome).Inc()
		e.metrics.evaluationDuration.Observe(ev.Elapsed.Seconds())
	}, EventEvaluationFailed)

	// Report served: record and publish
	e.Events.SubscribeTypes(func(evt Event) {
		ev := evt.Payload.(ReportReadyEvent)
		e.metrics.reports.WithLabelValues("ok").Inc()
		e.metrics.reportDuration.Observe(ev.Elapsed.Seconds())
		e.metrics.reportRecords.Set(float64(len(ev.Report.Results)))
		e.logFn("engine: report %s ready: %d records in %s", ev.Report.ID, len(ev.Report.Results), ev.Elapsed.Round(time.Millisecond))
		e.publishReport(ev.Report)
	}, EventReportReady)

	e.Events.SubscribeTypes(func(evt Event) {
		ev := evt.Payload.(ReportFailedEvent)
		e.metrics.reports.WithLabelValues(reportFailureStatus(ev.Err)).Inc()
		e.metrics.reportDuration.Observe(ev.Elapsed.Seconds())
		e.logFn("engine: report %s failed after %s: %v", ev.ReportID, ev.Elapsed.Round(time.Millisecond), ev.Err)
	}, EventReportFailed)

	// Connection changes: log
	e.Events.SubscribeTypes(func(evt Event) {
		ev := evt.Payload.(ConnectionEvent)
		e.logFn("engine: %s", ev.Detail)
	}, EventDatabaseConnected, EventDatabaseDisconnected, EventMessagingConnected, EventMessagingDisconnected)
}

// publishReport sends the report to the broker without holding up the caller.
func (e *Engine) publishReport(r *Report) {
	topic := e.cfg.Messaging.ReportsTopic
	if topic == "" {
		return
	}
	data, err := messaging.NewReportEnvelope(r.ID, r.GeneratedAt, r.Results).Encode()
	if err != nil {
		e.logFn("engine: encode report %s: %v", r.ID, err)
		return
	}
	e.pending.Add(1)
	go func() {
		defer e.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := e.publisher.Publish(ctx, topic, r.ID, data); err != nil {
			e.logFn("engine: publish report %s: %v", r.ID, err)
		}
	}()
}

func reportFailureStatus(err error) string {
	switch {
	case errors.Is(err, dispatch.ErrSourceUnavailable):
		return "source_unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.Is(err, dispatch.ErrEvaluation):
		return "evaluation_failed"
	default:
		return "error"
	}
}
