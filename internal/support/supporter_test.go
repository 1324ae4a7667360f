package support

import (
	"testing"

	"github.com/blackboxopt/tuner-core/internal/ledger"
	"github.com/blackboxopt/tuner-core/pkg/models"
)

func singleObjectiveProblem() *models.ProblemStatement {
	return &models.ProblemStatement{
		Parameters: []models.ParameterSpec{{Name: "x", Type: models.ParameterDouble, Min: 0, Max: 1}},
		Metrics:    []models.MetricInformation{{Name: "accuracy", Goal: models.GoalMaximize}},
	}
}

func seedLedger(t *testing.T, accuracies []float64) *ledger.Ledger {
	t.Helper()
	l := ledger.New(nil)
	for _, acc := range accuracies {
		trial, err := l.Create(models.ParameterMap{"x": models.FloatValue(acc)}, nil)
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if _, err := l.Activate(trial.ID); err != nil {
			t.Fatalf("activate failed: %v", err)
		}
		if _, err := l.Complete(trial.ID, models.Measurement{
			Metrics: map[string]float64{"accuracy": acc},
			Steps:   1,
		}); err != nil {
			t.Fatalf("complete failed: %v", err)
		}
	}
	return l
}

func TestGetAndCountTrials(t *testing.T) {
	l := seedLedger(t, []float64{0.2, 0.9, 0.5})
	pending, _ := l.Create(models.ParameterMap{"x": models.FloatValue(0)}, nil)
	_ = pending

	s := NewLedgerSupporter(l, singleObjectiveProblem())

	all, err := s.GetTrials(ledger.Filter{})
	if err != nil {
		t.Fatalf("get trials failed: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 trials, got %d", len(all))
	}

	n, err := s.CountTrials(ledger.Filter{Statuses: []models.TrialStatus{models.TrialCompleted}})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 completed trials, got %d", n)
	}

	completed, err := s.CompletedTrials()
	if err != nil {
		t.Fatalf("completed trials failed: %v", err)
	}
	if len(completed) != 3 {
		t.Fatalf("expected 3 completed trials, got %d", len(completed))
	}
}

func TestBestTrialsMaximize(t *testing.T) {
	l := seedLedger(t, []float64{0.2, 0.9, 0.5})
	s := NewLedgerSupporter(l, singleObjectiveProblem())

	best, err := s.BestTrials(2)
	if err != nil {
		t.Fatalf("best trials failed: %v", err)
	}
	if len(best) != 2 {
		t.Fatalf("expected 2 trials, got %d", len(best))
	}
	if best[0].FinalMeasurement.Metrics["accuracy"] != 0.9 {
		t.Fatalf("expected best accuracy 0.9, got %f", best[0].FinalMeasurement.Metrics["accuracy"])
	}
	if best[1].FinalMeasurement.Metrics["accuracy"] != 0.5 {
		t.Fatalf("expected second-best accuracy 0.5, got %f", best[1].FinalMeasurement.Metrics["accuracy"])
	}
}

func TestBestTrialsMinimize(t *testing.T) {
	problem := &models.ProblemStatement{
		Parameters: []models.ParameterSpec{{Name: "x", Type: models.ParameterDouble, Min: 0, Max: 1}},
		Metrics:    []models.MetricInformation{{Name: "accuracy", Goal: models.GoalMinimize}},
	}
	l := seedLedger(t, []float64{0.2, 0.9, 0.5})
	s := NewLedgerSupporter(l, problem)

	best, err := s.BestTrials(1)
	if err != nil {
		t.Fatalf("best trials failed: %v", err)
	}
	if best[0].FinalMeasurement.Metrics["accuracy"] != 0.2 {
		t.Fatalf("expected best (lowest) 0.2, got %f", best[0].FinalMeasurement.Metrics["accuracy"])
	}
}

func TestBestTrialsRejectsMultiObjective(t *testing.T) {
	problem := &models.ProblemStatement{
		Parameters: []models.ParameterSpec{{Name: "x", Type: models.ParameterDouble, Min: 0, Max: 1}},
		Metrics: []models.MetricInformation{
			{Name: "accuracy", Goal: models.GoalMaximize},
			{Name: "latency", Goal: models.GoalMinimize},
		},
	}
	s := NewLedgerSupporter(ledger.New(nil), problem)
	if _, err := s.BestTrials(1); err == nil {
		t.Fatalf("expected error for multi-objective best-trial ranking")
	}
}
