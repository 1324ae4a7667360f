package algorithm

import "github.com/blackboxopt/tuner-core/pkg/models"

// suggestionTracker remembers the parameter signatures a designer has
// issued so Update can reject trials that did not originate here.
// Counts handle the case of a designer proposing the same assignment
// more than once.
type suggestionTracker struct {
	issued map[string]int
}

func newSuggestionTracker() suggestionTracker {
	return suggestionTracker{issued: make(map[string]int)}
}

func (st *suggestionTracker) record(params models.ParameterMap) {
	st.issued[params.Signature()]++
}

// consume validates that each completed trial matches an outstanding
// suggestion and retires it.
func (st *suggestionTracker) consume(completed []*models.Trial) error {
	for _, t := range completed {
		sig := t.Parameters.Signature()
		if st.issued[sig] <= 0 {
			return &UnknownTrialError{TrialID: t.ID}
		}
		st.issued[sig]--
	}
	return nil
}
