package algorithm

import (
	"fmt"

	"github.com/blackboxopt/tuner-core/internal/support"
	"github.com/blackboxopt/tuner-core/pkg/models"
	"github.com/blackboxopt/tuner-core/pkg/utils"
)

const defaultStepFraction = 0.1

// LocalSearchPolicy is the stateless-policy variant: it holds no model
// of its own and reconstructs everything from the supporter on every
// Suggest. It hill-climbs around the incumbent best completed trial,
// proposing clamped single-parameter moves; with no history it falls
// back to uniform sampling.
type LocalSearchPolicy struct {
	problem      *models.ProblemStatement
	supporter    support.PolicySupporter
	stepFraction float64
	rng          *utils.RandSource
}

// NewLocalSearchPolicy creates a local-search policy bound to the
// study's supporter.
func NewLocalSearchPolicy(problem *models.ProblemStatement, supporter support.PolicySupporter, stepFraction float64, seed int64) *LocalSearchPolicy {
	if stepFraction <= 0 {
		stepFraction = defaultStepFraction
	}
	return &LocalSearchPolicy{
		problem:      problem,
		supporter:    supporter,
		stepFraction: stepFraction,
		rng:          utils.NewRandSource(seed),
	}
}

// Suggest proposes count neighbors of the incumbent best trial.
func (p *LocalSearchPolicy) Suggest(count int) ([]models.Suggestion, error) {
	if err := checkFeasible(p.problem); err != nil {
		return nil, err
	}
	if p.supporter == nil {
		return nil, fmt.Errorf("local search requires a policy supporter")
	}

	best, err := p.supporter.BestTrials(1)
	if err != nil {
		return nil, fmt.Errorf("failed to query incumbent: %w", err)
	}

	out := make([]models.Suggestion, 0, count)
	for i := 0; i < count; i++ {
		var params models.ParameterMap
		if len(best) == 0 {
			// Cold start: no completed trials to climb from.
			params = make(models.ParameterMap, len(p.problem.Parameters))
			for _, spec := range p.problem.Parameters {
				params[spec.Name] = sampleUniform(&spec, p.rng)
			}
		} else {
			params = p.neighborOf(best[0].Parameters)
		}
		out = append(out, models.Suggestion{Parameters: params})
	}
	return out, nil
}

// Update is a no-op: all context is re-read from the supporter.
func (p *LocalSearchPolicy) Update(completed []*models.Trial) error {
	return nil
}

// neighborOf perturbs one randomly chosen parameter of the incumbent,
// keeping the move inside the domain.
func (p *LocalSearchPolicy) neighborOf(incumbent models.ParameterMap) models.ParameterMap {
	params := incumbent.Clone()
	spec := &p.problem.Parameters[p.rng.Intn(len(p.problem.Parameters))]
	current := params[spec.Name]

	switch spec.Type {
	case models.ParameterDouble:
		span := (spec.Max - spec.Min) * p.stepFraction
		moved := current.Number + p.rng.Uniform(-span, span)
		params[spec.Name] = models.FloatValue(utils.Clamp(moved, spec.Min, spec.Max))
	case models.ParameterInteger:
		step := int64((spec.Max - spec.Min) * p.stepFraction)
		if step < 1 {
			step = 1
		}
		delta := p.rng.IntBetween(-step, step)
		moved := int64(current.Number) + delta
		params[spec.Name] = models.FloatValue(float64(utils.Clamp(moved, int64(spec.Min), int64(spec.Max))))
	case models.ParameterDiscrete:
		idx := 0
		for i, v := range spec.Values {
			if v == current.Number {
				idx = i
				break
			}
		}
		if p.rng.Intn(2) == 0 {
			idx--
		} else {
			idx++
		}
		idx = utils.Clamp(idx, 0, len(spec.Values)-1)
		params[spec.Name] = models.FloatValue(spec.Values[idx])
	case models.ParameterCategorical:
		params[spec.Name] = models.CategoryValue(spec.Categories[p.rng.Intn(len(spec.Categories))])
	}
	return params
}
