package ledger

import (
	"fmt"

	"github.com/blackboxopt/tuner-core/pkg/models"
)

// InvalidTransitionError reports an attempt to move a trial along an
// edge the lifecycle does not allow.
type InvalidTransitionError struct {
	TrialID int64
	From    models.TrialStatus
	To      models.TrialStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("trial %d: invalid transition %s -> %s", e.TrialID, e.From, e.To)
}

// InvalidStateError reports an operation that requires a status the
// trial is not in.
type InvalidStateError struct {
	TrialID int64
	Status  models.TrialStatus
	Op      string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("trial %d: cannot %s while %s", e.TrialID, e.Op, e.Status)
}

// NotFoundError reports a lookup for an unknown trial identifier.
type NotFoundError struct {
	TrialID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("trial not found: %d", e.TrialID)
}
