// Package benchmark runs suggestion algorithms against cheap synthetic
// objectives, in-process and single-threaded so repeated seeded runs
// reproduce the same trial sequence bit for bit.
package benchmark

import (
	"fmt"

	"github.com/blackboxopt/tuner-core/pkg/models"
)

// Experimenter measures trials against a synthetic objective. Evaluate
// fills each trial's FinalMeasurement in place and must be
// deterministic for fixed parameters.
type Experimenter interface {
	ProblemStatement() *models.ProblemStatement
	Evaluate(trials []*models.Trial) error
}

// ObjectiveFunc maps a numeric parameter vector to one objective value.
type ObjectiveFunc func(x []float64) float64

// FunctionExperimenter evaluates each of the study's metrics with a
// plain function over the numeric parameter vector, taken in the
// problem statement's parameter order. Categorical parameters are not
// supported.
type FunctionExperimenter struct {
	problem    *models.ProblemStatement
	objectives map[string]ObjectiveFunc
}

// NewFunctionExperimenter binds one objective function per metric. All
// of the problem's metrics must be covered.
func NewFunctionExperimenter(problem *models.ProblemStatement, objectives map[string]ObjectiveFunc) (*FunctionExperimenter, error) {
	if err := problem.Validate(); err != nil {
		return nil, err
	}
	for _, p := range problem.Parameters {
		if p.Type == models.ParameterCategorical {
			return nil, fmt.Errorf("parameter %s: categorical domains have no numeric objective", p.Name)
		}
	}
	for _, m := range problem.Metrics {
		if _, ok := objectives[m.Name]; !ok {
			return nil, fmt.Errorf("no objective function for metric %s", m.Name)
		}
	}
	return &FunctionExperimenter{problem: problem, objectives: objectives}, nil
}

func (e *FunctionExperimenter) ProblemStatement() *models.ProblemStatement {
	return e.problem
}

// Evaluate computes every metric for every trial and installs the
// result as the trial's final measurement.
func (e *FunctionExperimenter) Evaluate(trials []*models.Trial) error {
	for _, t := range trials {
		x, err := e.vector(t)
		if err != nil {
			return err
		}
		metrics := make(map[string]float64, len(e.problem.Metrics))
		for name, fn := range e.objectives {
			metrics[name] = fn(x)
		}
		t.FinalMeasurement = &models.Measurement{Metrics: metrics}
	}
	return nil
}

// vector extracts the trial's parameters as a float slice in the
// problem statement's declaration order.
func (e *FunctionExperimenter) vector(t *models.Trial) ([]float64, error) {
	x := make([]float64, 0, len(e.problem.Parameters))
	for _, p := range e.problem.Parameters {
		v, ok := t.Parameters[p.Name]
		if !ok {
			return nil, fmt.Errorf("trial %d is missing parameter %s", t.ID, p.Name)
		}
		if v.Kind != models.ValueNumber {
			return nil, fmt.Errorf("trial %d: parameter %s is not numeric", t.ID, p.Name)
		}
		x = append(x, v.Number)
	}
	return x, nil
}

// Sphere is the convex baseline objective, minimized at the origin.
func Sphere(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return sum
}

// Rosenbrock is the classic banana-valley objective, minimized at
// (1, ..., 1).
func Rosenbrock(x []float64) float64 {
	sum := 0.0
	for i := 0; i+1 < len(x); i++ {
		a := x[i+1] - x[i]*x[i]
		b := 1 - x[i]
		sum += 100*a*a + b*b
	}
	return sum
}
