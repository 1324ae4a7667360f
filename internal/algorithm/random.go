package algorithm

import (
	"github.com/blackboxopt/tuner-core/pkg/models"
	"github.com/blackboxopt/tuner-core/pkg/utils"
)

// RandomDesigner samples each parameter uniformly from its domain. It
// is the stateful-designer baseline: the seeded random stream advances
// across calls, so a fixed seed yields one reproducible sequence.
type RandomDesigner struct {
	problem *models.ProblemStatement
	rng     *utils.RandSource
	tracker suggestionTracker
}

// NewRandomDesigner creates a random-search designer for the problem.
func NewRandomDesigner(problem *models.ProblemStatement, seed int64) *RandomDesigner {
	return &RandomDesigner{
		problem: problem,
		rng:     utils.NewRandSource(seed),
		tracker: newSuggestionTracker(),
	}
}

// Suggest returns count uniformly sampled assignments.
func (d *RandomDesigner) Suggest(count int) ([]models.Suggestion, error) {
	if err := checkFeasible(d.problem); err != nil {
		return nil, err
	}
	out := make([]models.Suggestion, 0, count)
	for i := 0; i < count; i++ {
		params := make(models.ParameterMap, len(d.problem.Parameters))
		for _, p := range d.problem.Parameters {
			params[p.Name] = sampleUniform(&p, d.rng)
		}
		d.tracker.record(params)
		out = append(out, models.Suggestion{Parameters: params})
	}
	return out, nil
}

// Update validates provenance; random search learns nothing from
// completed trials.
func (d *RandomDesigner) Update(completed []*models.Trial) error {
	return d.tracker.consume(completed)
}

func sampleUniform(p *models.ParameterSpec, rng *utils.RandSource) models.ParameterValue {
	switch p.Type {
	case models.ParameterDouble:
		if p.Min == p.Max {
			return models.FloatValue(p.Min)
		}
		return models.FloatValue(rng.Uniform(p.Min, p.Max))
	case models.ParameterInteger:
		return models.FloatValue(float64(rng.IntBetween(int64(p.Min), int64(p.Max))))
	case models.ParameterDiscrete:
		return models.FloatValue(p.Values[rng.Intn(len(p.Values))])
	case models.ParameterCategorical:
		return models.CategoryValue(p.Categories[rng.Intn(len(p.Categories))])
	}
	return models.ParameterValue{}
}

// checkFeasible surfaces an empty domain as InfeasibleSearchSpaceError
// from Suggest rather than at construction, per the designer contract.
func checkFeasible(problem *models.ProblemStatement) error {
	for _, p := range problem.Parameters {
		if p.FeasiblePointCount() == 0 {
			return &InfeasibleSearchSpaceError{Parameter: p.Name, Reason: "domain admits no value"}
		}
	}
	if len(problem.Parameters) == 0 {
		return &InfeasibleSearchSpaceError{Parameter: "", Reason: "no parameters declared"}
	}
	return nil
}
