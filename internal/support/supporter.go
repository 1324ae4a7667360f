// Package support provides the read-only query facade through which
// suggestion algorithms see trial history. Algorithms never read the
// ledger directly; the supporter is the single seam history flows
// through.
package support

import (
	"fmt"
	"sort"

	"github.com/blackboxopt/tuner-core/internal/ledger"
	"github.com/blackboxopt/tuner-core/pkg/models"
)

// PolicySupporter is the query surface a stateless policy reconstructs
// its context from on every call.
type PolicySupporter interface {
	// GetTrials returns trials matching the filter, in creation order.
	GetTrials(f ledger.Filter) ([]*models.Trial, error)
	// CountTrials counts matches without materializing them.
	CountTrials(f ledger.Filter) (int, error)
	// CompletedTrials returns all completed trials.
	CompletedTrials() ([]*models.Trial, error)
	// BestTrials returns up to count completed trials ordered best
	// first under the study's single objective.
	BestTrials(count int) ([]*models.Trial, error)
}

// LedgerSupporter binds the supporter to one study's ledger at
// construction.
type LedgerSupporter struct {
	ledger  *ledger.Ledger
	problem *models.ProblemStatement
}

// NewLedgerSupporter creates a supporter over the study's ledger.
func NewLedgerSupporter(l *ledger.Ledger, problem *models.ProblemStatement) *LedgerSupporter {
	return &LedgerSupporter{ledger: l, problem: problem}
}

// GetTrials delegates to the ledger's list accessor.
func (s *LedgerSupporter) GetTrials(f ledger.Filter) ([]*models.Trial, error) {
	return s.ledger.List(f)
}

// CountTrials delegates to the ledger's count accessor.
func (s *LedgerSupporter) CountTrials(f ledger.Filter) (int, error) {
	return s.ledger.Count(f)
}

// CompletedTrials returns all completed trials in creation order.
func (s *LedgerSupporter) CompletedTrials() ([]*models.Trial, error) {
	return s.ledger.List(ledger.Filter{Statuses: []models.TrialStatus{models.TrialCompleted}})
}

// BestTrials returns up to count completed trials, best first. Only
// defined for single-objective studies; multi-objective ranking is the
// Pareto selector's job.
func (s *LedgerSupporter) BestTrials(count int) ([]*models.Trial, error) {
	if !s.problem.IsSingleObjective() {
		return nil, fmt.Errorf("best-trial ranking requires a single-objective study")
	}
	metric := s.problem.Metrics[0]

	completed, err := s.CompletedTrials()
	if err != nil {
		return nil, err
	}
	ranked := make([]*models.Trial, 0, len(completed))
	for _, t := range completed {
		if _, ok := t.FinalMeasurement.Metrics[metric.Name]; ok {
			ranked = append(ranked, t)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a := ranked[i].FinalMeasurement.Metrics[metric.Name]
		b := ranked[j].FinalMeasurement.Metrics[metric.Name]
		if metric.Goal == models.GoalMinimize {
			return a < b
		}
		return a > b
	})
	if count > 0 && len(ranked) > count {
		ranked = ranked[:count]
	}
	return ranked, nil
}
