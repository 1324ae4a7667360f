// Package pareto computes the non-dominated frontier over completed
// trials under a study's metric goals.
package pareto

import (
	"fmt"

	"github.com/blackboxopt/tuner-core/pkg/models"
)

// signedValue normalizes a metric so that larger is always better.
func signedValue(m *models.Measurement, metric *models.MetricInformation) (float64, bool) {
	v, ok := m.Metrics[metric.Name]
	if !ok {
		return 0, false
	}
	if metric.Goal == models.GoalMinimize {
		return -v, true
	}
	return v, true
}

// Dominates reports whether a dominates b: at least as good on every
// metric and strictly better on at least one. Trials missing a metric
// value never dominate.
func Dominates(a, b *models.Trial, metrics []models.MetricInformation) bool {
	strictlyBetter := false
	for i := range metrics {
		av, aok := signedValue(a.FinalMeasurement, &metrics[i])
		bv, bok := signedValue(b.FinalMeasurement, &metrics[i])
		if !aok || !bok {
			return false
		}
		if av < bv {
			return false
		}
		if av > bv {
			strictlyBetter = true
		}
	}
	return strictlyBetter
}

// NonDominated returns the maximal antichain of the dominance order:
// every completed trial not dominated by another. Ties with identical
// metric vectors are all included. Output preserves input order;
// trials without a final measurement are skipped. Pairwise checks keep
// this O(n²·m), fine for the trial counts studies actually reach.
func NonDominated(trials []*models.Trial, metrics []models.MetricInformation) []*models.Trial {
	frontier := make([]*models.Trial, 0)
	for _, candidate := range trials {
		if candidate.Status != models.TrialCompleted || candidate.FinalMeasurement == nil {
			continue
		}
		dominated := false
		for _, other := range trials {
			if other == candidate || other.Status != models.TrialCompleted || other.FinalMeasurement == nil {
				continue
			}
			if Dominates(other, candidate, metrics) {
				dominated = true
				break
			}
		}
		if !dominated {
			frontier = append(frontier, candidate)
		}
	}
	return frontier
}

// Best returns the single best completed trial under one metric, the
// degenerate single-objective frontier. Ties break to the earliest
// completion, then the lowest identifier.
func Best(trials []*models.Trial, metric models.MetricInformation) (*models.Trial, error) {
	var best *models.Trial
	var bestValue float64
	for _, t := range trials {
		if t.Status != models.TrialCompleted || t.FinalMeasurement == nil {
			continue
		}
		v, ok := signedValue(t.FinalMeasurement, &metric)
		if !ok {
			continue
		}
		switch {
		case best == nil:
			best, bestValue = t, v
		case v > bestValue:
			best, bestValue = t, v
		case v == bestValue:
			if t.EndedAtUnixMs < best.EndedAtUnixMs ||
				(t.EndedAtUnixMs == best.EndedAtUnixMs && t.ID < best.ID) {
				best, bestValue = t, v
			}
		}
	}
	if best == nil {
		return nil, fmt.Errorf("no completed trial reports metric %s", metric.Name)
	}
	return best, nil
}
