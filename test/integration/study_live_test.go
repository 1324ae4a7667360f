//go:build integration
// +build integration

package integration_test

import (
	"context"
	"testing"
	"time"

	"github.com/blackboxopt/tuner-core/internal/algorithm"
	"github.com/blackboxopt/tuner-core/internal/benchmark"
	"github.com/blackboxopt/tuner-core/internal/ledger"
	"github.com/blackboxopt/tuner-core/internal/pareto"
	"github.com/blackboxopt/tuner-core/internal/scheduler"
	"github.com/blackboxopt/tuner-core/internal/support"
	"github.com/blackboxopt/tuner-core/pkg/config"
	"github.com/blackboxopt/tuner-core/pkg/models"
)

const studyYAML = `
name: sphere-tuning
algorithm:
  name: random
  seed: 11
parameters:
  - name: x
    type: double
    min: -2
    max: 2
  - name: y
    type: double
    min: -2
    max: 2
metrics:
  - name: loss
    goal: minimize
scheduler:
  batch_size: 4
  max_parallel_evaluations: 2
`

// experimenterEvaluator bridges the synchronous experimenter into the
// scheduler's asynchronous evaluator boundary.
type experimenterEvaluator struct {
	exp benchmark.Experimenter
}

type experimenterEvaluation struct {
	exp       benchmark.Experimenter
	trial     *models.Trial
	delivered bool
}

func (e *experimenterEvaluator) Submit(_ context.Context, trial *models.Trial) (scheduler.Evaluation, error) {
	return &experimenterEvaluation{exp: e.exp, trial: trial}, nil
}

func (e *experimenterEvaluation) Next(ctx context.Context) (*models.Measurement, error) {
	if e.delivered {
		return nil, scheduler.ErrEvaluationDone
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := e.exp.Evaluate([]*models.Trial{e.trial}); err != nil {
		return nil, err
	}
	e.delivered = true
	return e.trial.FinalMeasurement, nil
}

func (e *experimenterEvaluation) Cancel() {}

func TestIntegration_LiveRunFromYAML(t *testing.T) {
	cfg, err := config.ParseStudyYAML([]byte(studyYAML))
	if err != nil {
		t.Fatalf("failed to parse study: %v", err)
	}
	problem, err := cfg.ToProblemStatement()
	if err != nil {
		t.Fatalf("invalid problem: %v", err)
	}

	exp, err := benchmark.NewFunctionExperimenter(problem, map[string]benchmark.ObjectiveFunc{
		"loss": benchmark.Sphere,
	})
	if err != nil {
		t.Fatalf("failed to build experimenter: %v", err)
	}

	l := ledger.New(nil)
	sup := support.NewLedgerSupporter(l, problem)
	designer, err := algorithm.New(cfg.Algorithm.Name, problem, sup, algorithm.Options{Seed: cfg.Algorithm.Seed})
	if err != nil {
		t.Fatalf("failed to build designer: %v", err)
	}

	sched := scheduler.New(l, designer, &experimenterEvaluator{exp: exp}, scheduler.Config{
		BatchSize:              cfg.Scheduler.BatchSize,
		MaxParallelEvaluations: cfg.Scheduler.MaxParallelEvaluations,
		EvalTimeout:            time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := sched.Run(ctx, scheduler.Budget{MaxTrials: 20})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.Completed != 20 {
		t.Fatalf("expected 20 completed trials, got %+v", res)
	}

	completed, err := l.List(ledger.Filter{Statuses: []models.TrialStatus{models.TrialCompleted}})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(completed) != 20 {
		t.Fatalf("expected 20 completed trials in the ledger, got %d", len(completed))
	}
	for _, tr := range completed {
		if tr.FinalMeasurement == nil {
			t.Fatalf("completed trial %d lacks a final measurement", tr.ID)
		}
		if _, ok := tr.FinalMeasurement.Metrics["loss"]; !ok {
			t.Fatalf("completed trial %d lacks the loss metric", tr.ID)
		}
	}

	best, err := pareto.Best(completed, problem.Metrics[0])
	if err != nil {
		t.Fatalf("best selection failed: %v", err)
	}
	// Sphere on [-2,2]^2 caps at 8; any valid sample beats that.
	if best.FinalMeasurement.Metrics["loss"] > 8 {
		t.Fatalf("best loss out of range: %v", best.FinalMeasurement.Metrics["loss"])
	}
}

func TestIntegration_LiveRunWithPlateauStopping(t *testing.T) {
	problem := &models.ProblemStatement{
		Parameters: []models.ParameterSpec{
			{Name: "x", Type: models.ParameterDouble, Min: -1, Max: 1},
		},
		Metrics: []models.MetricInformation{{Name: "loss", Goal: models.GoalMinimize}},
	}

	l := ledger.New(nil)
	sup := support.NewLedgerSupporter(l, problem)
	designer, err := algorithm.New("random", problem, sup, algorithm.Options{Seed: 5})
	if err != nil {
		t.Fatalf("failed to build designer: %v", err)
	}

	sched := scheduler.New(l, designer, &plateauEvaluator{}, scheduler.Config{
		BatchSize:      2,
		StoppingPolicy: &scheduler.PlateauStoppingPolicy{Metric: "loss", Window: 2},
	})

	res, err := sched.Run(context.Background(), scheduler.Budget{MaxTrials: 4})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.Stopped != 4 {
		t.Fatalf("every trial should plateau out, got %+v", res)
	}

	stopped, err := l.List(ledger.Filter{Statuses: []models.TrialStatus{models.TrialStopped}})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, tr := range stopped {
		if tr.FinalMeasurement != nil {
			t.Fatalf("stopped trial %d must not carry a final measurement", tr.ID)
		}
	}
}

// plateauEvaluator reports the same loss forever, so any plateau
// policy fires.
type plateauEvaluator struct{}

type plateauEvaluation struct{}

func (plateauEvaluator) Submit(_ context.Context, _ *models.Trial) (scheduler.Evaluation, error) {
	return plateauEvaluation{}, nil
}

func (plateauEvaluation) Next(ctx context.Context) (*models.Measurement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &models.Measurement{Metrics: map[string]float64{"loss": 1}}, nil
}

func (plateauEvaluation) Cancel() {}
