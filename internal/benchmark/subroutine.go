package benchmark

import (
	"fmt"

	"github.com/blackboxopt/tuner-core/internal/ledger"
	"github.com/blackboxopt/tuner-core/pkg/models"
)

// Subroutine is one step of a benchmark run, mutating the shared state
// by reference. Runner implements it too, so pipelines nest.
type Subroutine interface {
	Run(state *State) error
}

// GenerateSuggestions asks the algorithm for one batch and registers
// each suggestion as an active trial.
type GenerateSuggestions struct {
	// BatchSize is the number of suggestions requested. Non-positive
	// means 1.
	BatchSize int
}

func (g GenerateSuggestions) Run(state *State) error {
	count := g.BatchSize
	if count <= 0 {
		count = 1
	}
	suggestions, err := state.Algorithm.Designer.Suggest(count)
	if err != nil {
		return fmt.Errorf("suggest failed: %w", err)
	}
	for _, s := range suggestions {
		t, err := state.Algorithm.Ledger.Create(s.Parameters, s.Metadata)
		if err != nil {
			return err
		}
		if _, err := state.Algorithm.Ledger.Activate(t.ID); err != nil {
			return err
		}
	}
	return nil
}

// EvaluateActiveTrials measures every active trial with the
// experimenter, completes it, and feeds the completed batch back to
// the algorithm.
type EvaluateActiveTrials struct{}

func (EvaluateActiveTrials) Run(state *State) error {
	active, err := state.Algorithm.Ledger.List(ledger.Filter{
		Statuses: []models.TrialStatus{models.TrialActive},
	})
	if err != nil {
		return err
	}
	if len(active) == 0 {
		return nil
	}
	if err := state.Experimenter.Evaluate(active); err != nil {
		return fmt.Errorf("experimenter failed: %w", err)
	}

	completed := make([]*models.Trial, 0, len(active))
	for _, t := range active {
		if t.FinalMeasurement == nil {
			return fmt.Errorf("experimenter left trial %d unmeasured", t.ID)
		}
		done, err := state.Algorithm.Ledger.Complete(t.ID, *t.FinalMeasurement)
		if err != nil {
			return err
		}
		completed = append(completed, done)
	}
	if err := state.Algorithm.Designer.Update(completed); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	return nil
}

// GenerateAndEvaluate is the canonical one-round pipeline: one
// suggestion batch, evaluated immediately.
type GenerateAndEvaluate struct {
	BatchSize int
}

func (g GenerateAndEvaluate) Run(state *State) error {
	if err := (GenerateSuggestions{BatchSize: g.BatchSize}).Run(state); err != nil {
		return err
	}
	return EvaluateActiveTrials{}.Run(state)
}

// Runner executes an ordered subroutine pipeline NumRepeats times. It
// is itself a Subroutine, so runners compose into larger runners. All
// execution is single-threaded.
type Runner struct {
	Subroutines []Subroutine
	// NumRepeats is the number of pipeline repetitions. Non-positive
	// means 1.
	NumRepeats int
}

func (r Runner) Run(state *State) error {
	repeats := r.NumRepeats
	if repeats <= 0 {
		repeats = 1
	}
	for rep := 0; rep < repeats; rep++ {
		for i, sub := range r.Subroutines {
			if err := sub.Run(state); err != nil {
				return fmt.Errorf("repeat %d subroutine %d: %w", rep, i, err)
			}
		}
	}
	return nil
}
