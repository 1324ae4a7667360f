package benchmark

import (
	"fmt"

	"github.com/blackboxopt/tuner-core/pkg/models"
	"github.com/blackboxopt/tuner-core/pkg/utils"
)

// ConvergenceCurve returns the best objective value seen after each
// completed trial, in the order the trials appear. Minimize goals give
// a non-increasing curve, maximize goals a non-decreasing one. Trials
// without a final value of the metric are skipped.
func ConvergenceCurve(trials []*models.Trial, metric models.MetricInformation) []float64 {
	curve := make([]float64, 0, len(trials))
	for _, t := range trials {
		if t.Status != models.TrialCompleted || t.FinalMeasurement == nil {
			continue
		}
		v, ok := t.FinalMeasurement.Metrics[metric.Name]
		if !ok {
			continue
		}
		if len(curve) == 0 {
			curve = append(curve, v)
			continue
		}
		best := curve[len(curve)-1]
		if metric.Goal == models.GoalMinimize {
			curve = append(curve, utils.Min(best, v))
		} else {
			curve = append(curve, utils.Max(best, v))
		}
	}
	return curve
}

// CompareEfficiency scores a candidate convergence curve against a
// baseline as the median pointwise advantage, positive when the
// candidate is ahead. Curves are compared up to the shorter length
// after normalizing so that larger is better.
func CompareEfficiency(baseline, candidate []float64, goal models.MetricGoal) (float64, error) {
	n := utils.Min(len(baseline), len(candidate))
	if n == 0 {
		return 0, fmt.Errorf("both curves must be non-empty")
	}
	diffs := make([]float64, n)
	for i := 0; i < n; i++ {
		d := candidate[i] - baseline[i]
		if goal == models.GoalMinimize {
			d = -d
		}
		diffs[i] = d
	}
	return utils.Median(diffs), nil
}
