//go:build integration
// +build integration

package integration_test

import (
	"testing"

	"github.com/blackboxopt/tuner-core/internal/algorithm"
	"github.com/blackboxopt/tuner-core/internal/benchmark"
	"github.com/blackboxopt/tuner-core/internal/ledger"
	"github.com/blackboxopt/tuner-core/internal/pareto"
	"github.com/blackboxopt/tuner-core/pkg/models"
)

func benchmarkProblem() *models.ProblemStatement {
	return &models.ProblemStatement{
		Parameters: []models.ParameterSpec{
			{Name: "x", Type: models.ParameterDouble, Min: -2, Max: 2},
			{Name: "y", Type: models.ParameterDouble, Min: -2, Max: 2},
		},
		Metrics: []models.MetricInformation{
			{Name: "loss", Goal: models.GoalMinimize},
		},
	}
}

func runAlgorithm(t *testing.T, name string, opts algorithm.Options, trials int) []float64 {
	t.Helper()
	exp, err := benchmark.NewFunctionExperimenter(benchmarkProblem(), map[string]benchmark.ObjectiveFunc{
		"loss": benchmark.Sphere,
	})
	if err != nil {
		t.Fatalf("failed to build experimenter: %v", err)
	}
	state, err := benchmark.NewState(exp, name, opts)
	if err != nil {
		t.Fatalf("failed to build state: %v", err)
	}

	runner := benchmark.Runner{
		Subroutines: []benchmark.Subroutine{benchmark.GenerateAndEvaluate{BatchSize: 1}},
		NumRepeats:  trials,
	}
	if err := runner.Run(state); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	completed, err := state.Algorithm.Ledger.List(ledger.Filter{
		Statuses: []models.TrialStatus{models.TrialCompleted},
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	return benchmark.ConvergenceCurve(completed, benchmarkProblem().Metrics[0])
}

func TestIntegration_LocalSearchBeatsRandomOnSphere(t *testing.T) {
	const trials = 60

	// Median advantage over several seeds; a single unlucky seed should
	// not decide the comparison.
	wins := 0
	seeds := []int64{3, 17, 29, 41, 53}
	for _, seed := range seeds {
		baseline := runAlgorithm(t, "random", algorithm.Options{Seed: seed}, trials)
		candidate := runAlgorithm(t, "local_search", algorithm.Options{Seed: seed, StepFraction: 0.2}, trials)

		score, err := benchmark.CompareEfficiency(baseline, candidate, models.GoalMinimize)
		if err != nil {
			t.Fatalf("comparison failed: %v", err)
		}
		if score >= 0 {
			wins++
		}
	}
	if wins < 3 {
		t.Fatalf("local search should match or beat random search on most seeds, won %d of %d", wins, len(seeds))
	}
}

func TestIntegration_MultiObjectiveFrontierFromBenchmark(t *testing.T) {
	problem := &models.ProblemStatement{
		Parameters: []models.ParameterSpec{
			{Name: "x", Type: models.ParameterDouble, Min: -2, Max: 2},
			{Name: "y", Type: models.ParameterDouble, Min: -2, Max: 2},
		},
		Metrics: []models.MetricInformation{
			{Name: "sphere", Goal: models.GoalMinimize},
			{Name: "shifted", Goal: models.GoalMinimize},
		},
	}
	shifted := func(x []float64) float64 {
		sum := 0.0
		for _, v := range x {
			d := v - 1
			sum += d * d
		}
		return sum
	}
	exp, err := benchmark.NewFunctionExperimenter(problem, map[string]benchmark.ObjectiveFunc{
		"sphere":  benchmark.Sphere,
		"shifted": shifted,
	})
	if err != nil {
		t.Fatalf("failed to build experimenter: %v", err)
	}
	state, err := benchmark.NewState(exp, "random", algorithm.Options{Seed: 23})
	if err != nil {
		t.Fatalf("failed to build state: %v", err)
	}

	runner := benchmark.Runner{
		Subroutines: []benchmark.Subroutine{benchmark.GenerateAndEvaluate{BatchSize: 5}},
		NumRepeats:  20,
	}
	if err := runner.Run(state); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	completed, err := state.Algorithm.Ledger.List(ledger.Filter{
		Statuses: []models.TrialStatus{models.TrialCompleted},
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(completed) != 100 {
		t.Fatalf("expected 100 completed trials, got %d", len(completed))
	}

	frontier := pareto.NonDominated(completed, problem.Metrics)
	if len(frontier) == 0 || len(frontier) == len(completed) {
		t.Fatalf("frontier should be a strict non-empty subset, got %d of %d", len(frontier), len(completed))
	}
	// The two objectives conflict, so no frontier member may dominate
	// another.
	for _, a := range frontier {
		for _, b := range frontier {
			if a != b && pareto.Dominates(a, b, problem.Metrics) {
				t.Fatalf("frontier member %d dominates member %d", a.ID, b.ID)
			}
		}
	}
}
