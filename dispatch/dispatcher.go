package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
)

type LogFunc func(format string, args ...any)

// Options tunes a Dispatcher. The zero value runs one goroutine per record
// with no deadline, which is the reference behavior.
type Options struct {
	// TaskTimeout bounds each evaluation. Zero disables the bound.
	TaskTimeout time.Duration
	// MaxConcurrency caps the number of evaluations in flight. Zero means unbounded.
	MaxConcurrency int

	Emitter Emitter
	LogFunc LogFunc
}

// Dispatcher fans a record set out to an Evaluator and joins the results.
type Dispatcher struct {
	evaluator Evaluator
	opts      Options
	emitter   Emitter
	logFn     LogFunc
}

func NewDispatcher(evaluator Evaluator, opts Options) *Dispatcher {
	emitter := opts.Emitter
	if emitter == nil {
		emitter = nopEmitter{}
	}
	logFn := opts.LogFunc
	if logFn == nil {
		logFn = log.Printf
	}
	return &Dispatcher{
		evaluator: evaluator,
		opts:      opts,
		emitter:   emitter,
		logFn:     logFn,
	}
}

// EvaluateAll evaluates every record concurrently and returns one Result per
// record, in input order. The first failed evaluation cancels the rest; the
// call still waits for every goroutine before returning that error.
func (d *Dispatcher) EvaluateAll(ctx context.Context, records []Record) ([]Result, error) {
	if len(records) == 0 {
		return []Result{}, nil
	}
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return nil, err
		}
	}

	agg := NewAggregator(len(records))
	g, gctx := errgroup.WithContext(ctx)
	if d.opts.MaxConcurrency > 0 {
		g.SetLimit(d.opts.MaxConcurrency)
	}

	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			res, err := d.evaluate(gctx, rec)
			if err != nil {
				return err
			}
			agg.Submit(i, res)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		d.logFn("dispatch: evaluation of %d records aborted: %v", len(records), err)
		return nil, err
	}

	results := agg.Drain()
	if len(results) != len(records) {
		return nil, fmt.Errorf("dispatch: collected %d results for %d records", len(results), len(records))
	}
	return results, nil
}

func (d *Dispatcher) evaluate(ctx context.Context, rec Record) (res Result, err error) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			err = &EvaluationError{Provider: rec.Provider, Name: rec.Name, Err: fmt.Errorf("panic: %v", p)}
		}
		if err != nil {
			d.emitter.EmitEvaluationFailed(rec.Provider, rec.Name, err, time.Since(start))
			return
		}
		d.emitter.EmitEvaluationCompleted(rec.Provider, rec.Name, res.Availability, time.Since(start))
	}()

	if err := ctx.Err(); err != nil {
		return Result{}, &EvaluationError{Provider: rec.Provider, Name: rec.Name, Err: err}
	}
	if d.opts.TaskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.TaskTimeout)
		defer cancel()
	}

	status, err := d.evaluator.Evaluate(ctx, rec.Provider, rec.Name)
	if err != nil {
		return Result{}, &EvaluationError{Provider: rec.Provider, Name: rec.Name, Err: err}
	}
	if !status.Valid() {
		return Result{}, &EvaluationError{Provider: rec.Provider, Name: rec.Name, Err: fmt.Errorf("unknown availability %q", status)}
	}
	return Result{Provider: rec.Provider, Name: rec.Name, Availability: status}, nil
}

// IsTimeout reports whether err stems from a per-task or caller deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
