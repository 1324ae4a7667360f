package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blackboxopt/tuner-core/pkg/models"
)

// ErrEvaluationDone is returned by Evaluation.Next once the evaluator
// has produced its final measurement.
var ErrEvaluationDone = errors.New("evaluation done")

// Evaluator is the live-mode collaborator that measures a trial's
// parameters. The scheduler treats it as an opaque capability.
type Evaluator interface {
	// Submit starts evaluating the trial and returns a handle for
	// polling its measurements.
	Submit(ctx context.Context, trial *models.Trial) (Evaluation, error)
}

// Evaluation is one in-flight evaluation. Next blocks for the next
// intermediate measurement and returns ErrEvaluationDone after the
// final one. Cancel asks the evaluator to stop early; evaluators that
// cannot cancel cooperatively simply have their result discarded.
type Evaluation interface {
	Next(ctx context.Context) (*models.Measurement, error)
	Cancel()
}

// EvaluationFaultError wraps a failure reported by the evaluator for
// one trial. The trial is marked errored and the round continues.
type EvaluationFaultError struct {
	TrialID int64
	Cause   error
}

func (e *EvaluationFaultError) Error() string {
	return fmt.Sprintf("evaluation of trial %d failed: %v", e.TrialID, e.Cause)
}

func (e *EvaluationFaultError) Unwrap() error {
	return e.Cause
}

// EvaluationTimeoutError reports an evaluation that outran the
// configured deadline. Kept distinct from a stop verdict so the cause
// of termination stays visible.
type EvaluationTimeoutError struct {
	TrialID int64
	Timeout time.Duration
}

func (e *EvaluationTimeoutError) Error() string {
	return fmt.Sprintf("evaluation of trial %d timed out after %s", e.TrialID, e.Timeout)
}
