package algorithm

import (
	"errors"
	"testing"

	"github.com/blackboxopt/tuner-core/pkg/models"
)

func numericProblem() *models.ProblemStatement {
	return &models.ProblemStatement{
		Parameters: []models.ParameterSpec{
			{Name: "x", Type: models.ParameterDouble, Min: -5, Max: 5},
			{Name: "n", Type: models.ParameterInteger, Min: 1, Max: 8},
			{Name: "lr", Type: models.ParameterDiscrete, Values: []float64{0.01, 0.1, 1}},
			{Name: "act", Type: models.ParameterCategorical, Categories: []string{"relu", "tanh"}},
		},
		Metrics: []models.MetricInformation{{Name: "loss", Goal: models.GoalMinimize}},
	}
}

func TestRandomDesignerColdStart(t *testing.T) {
	d := NewRandomDesigner(numericProblem(), 1)

	suggestions, err := d.Suggest(5)
	if err != nil {
		t.Fatalf("cold-start suggest failed: %v", err)
	}
	if len(suggestions) != 5 {
		t.Fatalf("expected exactly 5 suggestions, got %d", len(suggestions))
	}
}

func TestRandomDesignerValuesInDomain(t *testing.T) {
	problem := numericProblem()
	d := NewRandomDesigner(problem, 7)

	suggestions, err := d.Suggest(50)
	if err != nil {
		t.Fatalf("suggest failed: %v", err)
	}
	for _, s := range suggestions {
		if len(s.Parameters) != len(problem.Parameters) {
			t.Fatalf("expected one value per dimension, got %d", len(s.Parameters))
		}
		for i := range problem.Parameters {
			spec := &problem.Parameters[i]
			if !spec.Contains(s.Parameters[spec.Name]) {
				t.Fatalf("value %v outside domain of %s", s.Parameters[spec.Name], spec.Name)
			}
		}
	}
}

func TestRandomDesignerDeterministic(t *testing.T) {
	a := NewRandomDesigner(numericProblem(), 42)
	b := NewRandomDesigner(numericProblem(), 42)

	sa, _ := a.Suggest(20)
	sb, _ := b.Suggest(20)
	for i := range sa {
		if sa[i].Parameters.Signature() != sb[i].Parameters.Signature() {
			t.Fatalf("same seed must yield identical suggestion %d: %s vs %s",
				i, sa[i].Parameters.Signature(), sb[i].Parameters.Signature())
		}
	}
}

func TestRandomDesignerUpdateProvenance(t *testing.T) {
	d := NewRandomDesigner(numericProblem(), 1)
	suggestions, _ := d.Suggest(2)

	known := &models.Trial{ID: 1, Parameters: suggestions[0].Parameters, Status: models.TrialCompleted}
	if err := d.Update([]*models.Trial{known}); err != nil {
		t.Fatalf("update with own suggestion failed: %v", err)
	}

	stranger := &models.Trial{
		ID:         99,
		Parameters: models.ParameterMap{"x": models.FloatValue(123456)},
		Status:     models.TrialCompleted,
	}
	var unknown *UnknownTrialError
	if err := d.Update([]*models.Trial{stranger}); !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownTrialError, got %v", err)
	}
	if unknown.TrialID != 99 {
		t.Fatalf("expected trial 99 in error, got %d", unknown.TrialID)
	}

	// The matching suggestion was consumed above; replaying it fails too.
	if err := d.Update([]*models.Trial{known}); !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownTrialError on replay, got %v", err)
	}
}

func TestRandomDesignerInfeasible(t *testing.T) {
	problem := &models.ProblemStatement{
		Parameters: []models.ParameterSpec{{Name: "x", Type: models.ParameterDouble, Min: 2, Max: 1}},
		Metrics:    []models.MetricInformation{{Name: "loss", Goal: models.GoalMinimize}},
	}
	d := NewRandomDesigner(problem, 1)

	var infeasible *InfeasibleSearchSpaceError
	if _, err := d.Suggest(1); !errors.As(err, &infeasible) {
		t.Fatalf("expected InfeasibleSearchSpaceError, got %v", err)
	}
}
