package algorithm

import "fmt"

// InfeasibleSearchSpaceError reports a search space that admits no
// valid assignment. Fatal to the run.
type InfeasibleSearchSpaceError struct {
	Parameter string
	Reason    string
}

func (e *InfeasibleSearchSpaceError) Error() string {
	return fmt.Sprintf("infeasible search space: parameter %s: %s", e.Parameter, e.Reason)
}

// UnknownTrialError reports a completed trial handed to Update that
// was never produced by this designer's Suggest. Indicates a wiring
// bug between supporter and designer.
type UnknownTrialError struct {
	TrialID int64
}

func (e *UnknownTrialError) Error() string {
	return fmt.Sprintf("unknown trial %d: not produced by this designer", e.TrialID)
}

// UnknownAlgorithmError reports an unregistered algorithm name.
type UnknownAlgorithmError struct {
	Name string
}

func (e *UnknownAlgorithmError) Error() string {
	return fmt.Sprintf("unknown algorithm: %s", e.Name)
}
