package dispatch

import (
	"context"
	"fmt"
	"strings"
)

// Status is the availability classification for one hardware offering.
type Status string

const (
	StatusHigh   Status = "HIGH"
	StatusMedium Status = "MEDIUM"
	StatusLow    Status = "LOW"
)

var statuses = []Status{StatusHigh, StatusMedium, StatusLow}

// Statuses returns the closed classification domain.
func Statuses() []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

func (s Status) Valid() bool {
	switch s {
	case StatusHigh, StatusMedium, StatusLow:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// ParseStatus accepts any casing and surrounding whitespace.
func ParseStatus(v string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown availability %q", v)
	}
	return s, nil
}

// Record identifies one inventory item.
type Record struct {
	Provider string `json:"provider"`
	Name     string `json:"name"`
}

func (r Record) Validate() error {
	if r.Provider == "" || r.Name == "" {
		return fmt.Errorf("%w: provider=%q name=%q", ErrInvalidRecord, r.Provider, r.Name)
	}
	return nil
}

// Result is the evaluation outcome for one Record.
type Result struct {
	Provider     string `json:"provider"`
	Name         string `json:"name"`
	Availability Status `json:"availability"`
}

// Evaluator classifies a single offering. Calls may be slow and may run
// concurrently with each other.
type Evaluator interface {
	Evaluate(ctx context.Context, provider, name string) (Status, error)
}

// EvaluatorFunc adapts a plain function to Evaluator.
type EvaluatorFunc func(ctx context.Context, provider, name string) (Status, error)

func (f EvaluatorFunc) Evaluate(ctx context.Context, provider, name string) (Status, error) {
	return f(ctx, provider, name)
}

// RecordSource supplies the ordered inventory. Failures should wrap ErrSourceUnavailable.
type RecordSource interface {
	FetchAll(ctx context.Context) ([]Record, error)
}
