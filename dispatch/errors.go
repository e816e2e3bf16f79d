package dispatch

import (
	"errors"
	"fmt"
)

var (
	ErrSourceUnavailable = errors.New("record source unavailable")
	ErrEvaluation        = errors.New("evaluation failed")
	ErrInvalidRecord     = errors.New("invalid hardware record")
)

// EvaluationError reports the failure of one record's evaluation.
type EvaluationError struct {
	Provider string
	Name     string
	Err      error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluate %s/%s: %v", e.Provider, e.Name, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }

func (e *EvaluationError) Is(target error) bool { return target == ErrEvaluation }
