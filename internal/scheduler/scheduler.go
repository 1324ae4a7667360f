// Package scheduler drives one study's suggest -> evaluate -> complete
// cycle against a live evaluator, with bounded parallelism and early
// stopping.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/blackboxopt/tuner-core/internal/algorithm"
	"github.com/blackboxopt/tuner-core/internal/ledger"
	"github.com/blackboxopt/tuner-core/pkg/logger"
	"github.com/blackboxopt/tuner-core/pkg/models"
)

// Config tunes the scheduling loop.
type Config struct {
	// BatchSize is the number of suggestions requested per round.
	BatchSize int
	// MaxParallelEvaluations bounds concurrent evaluator dispatches.
	MaxParallelEvaluations int
	// EvalTimeout bounds one evaluation; expiry marks the trial
	// errored, not stopped. Zero disables the deadline.
	EvalTimeout time.Duration
	// DispatchRatePerSec throttles evaluator submissions. Zero means
	// unthrottled.
	DispatchRatePerSec float64
	// StoppingPolicy, when set, is consulted after every intermediate
	// measurement.
	StoppingPolicy StoppingPolicy
}

// Budget caps a run by started trials and/or rounds. At least one cap
// must be positive.
type Budget struct {
	MaxTrials int
	MaxRounds int
}

// Result summarizes a run. When the run ends with a fatal
// algorithm-contract error, the counts still reflect the work done
// before the abort.
type Result struct {
	Completed int
	Errored   int
	Stopped   int
	Rounds    int
}

// Scheduler orchestrates rounds for one study. Designer calls are
// never concurrent; only evaluator dispatches run in parallel.
type Scheduler struct {
	ledger    *ledger.Ledger
	designer  algorithm.Designer
	evaluator Evaluator
	cfg       Config
	limiter   *rate.Limiter
}

// New creates a scheduler. Non-positive batch size and parallelism
// default to 1.
func New(l *ledger.Ledger, d algorithm.Designer, e Evaluator, cfg Config) *Scheduler {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1
	}
	if cfg.MaxParallelEvaluations <= 0 {
		cfg.MaxParallelEvaluations = 1
	}
	s := &Scheduler{
		ledger:    l,
		designer:  d,
		evaluator: e,
		cfg:       cfg,
	}
	if cfg.DispatchRatePerSec > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.DispatchRatePerSec), 1)
	}
	return s
}

// Run executes rounds until the budget is exhausted, the designer
// reports exhaustion by returning an empty batch twice in a row, or
// the context is cancelled. Per-trial evaluator faults are isolated;
// designer errors abort the run and are returned alongside the counts
// accumulated so far.
func (s *Scheduler) Run(ctx context.Context, budget Budget) (*Result, error) {
	if budget.MaxTrials <= 0 && budget.MaxRounds <= 0 {
		return nil, fmt.Errorf("a trial or round budget is required")
	}

	res := &Result{}
	started := 0
	emptyStreak := 0

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if budget.MaxRounds > 0 && res.Rounds >= budget.MaxRounds {
			break
		}
		want := s.cfg.BatchSize
		if budget.MaxTrials > 0 {
			if remaining := budget.MaxTrials - started; remaining < want {
				want = remaining
			}
		}
		if want <= 0 {
			break
		}

		suggestions, err := s.designer.Suggest(want)
		if err != nil {
			return res, fmt.Errorf("designer suggest failed: %w", err)
		}
		if len(suggestions) == 0 {
			emptyStreak++
			if emptyStreak >= 2 {
				logger.Info("search space exhausted", "rounds", res.Rounds)
				break
			}
			continue
		}
		emptyStreak = 0
		res.Rounds++

		trials := make([]*models.Trial, 0, len(suggestions))
		for _, sug := range suggestions {
			created, err := s.ledger.Create(sug.Parameters, sug.Metadata)
			if err != nil {
				return res, fmt.Errorf("failed to register suggestion: %w", err)
			}
			active, err := s.ledger.Activate(created.ID)
			if err != nil {
				return res, fmt.Errorf("failed to activate trial %d: %w", created.ID, err)
			}
			trials = append(trials, active)
		}
		started += len(trials)

		completed := s.evaluateRound(ctx, trials, res)
		logger.Info("round finished",
			"round", res.Rounds,
			"dispatched", len(trials),
			"completed", res.Completed,
			"errored", res.Errored,
			"stopped", res.Stopped)

		if len(completed) > 0 {
			if err := s.designer.Update(completed); err != nil {
				return res, fmt.Errorf("designer update failed: %w", err)
			}
		}
	}

	return res, nil
}

// evaluateRound dispatches the round's trials to the evaluator with
// bounded parallelism and waits until each reaches a terminal state.
func (s *Scheduler) evaluateRound(ctx context.Context, trials []*models.Trial, res *Result) []*models.Trial {
	sem := make(chan struct{}, s.cfg.MaxParallelEvaluations)
	var wg sync.WaitGroup
	var mu sync.Mutex
	completed := make([]*models.Trial, 0, len(trials))

	for _, t := range trials {
		wg.Add(1)
		go func(t *models.Trial) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			done := s.evaluateTrial(ctx, t)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case done != nil:
				res.Completed++
				completed = append(completed, done)
			default:
				final, err := s.ledger.Get(t.ID)
				if err != nil {
					return
				}
				if final.Status == models.TrialStopped {
					res.Stopped++
				} else {
					res.Errored++
				}
			}
		}(t)
	}
	wg.Wait()
	return completed
}

// evaluateTrial runs one evaluation to a terminal trial state and
// returns the completed trial, or nil when it ended stopped or
// errored.
func (s *Scheduler) evaluateTrial(ctx context.Context, t *models.Trial) *models.Trial {
	evalCtx := ctx
	if s.cfg.EvalTimeout > 0 {
		var cancel context.CancelFunc
		evalCtx, cancel = context.WithTimeout(ctx, s.cfg.EvalTimeout)
		defer cancel()
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(evalCtx); err != nil {
			s.failTrial(t.ID, evalCtx, err)
			return nil
		}
	}

	ev, err := s.evaluator.Submit(evalCtx, t.Clone())
	if err != nil {
		s.failTrial(t.ID, evalCtx, err)
		return nil
	}

	var last *models.Measurement
	for {
		m, err := ev.Next(evalCtx)
		if errors.Is(err, ErrEvaluationDone) {
			if last == nil {
				s.failTrial(t.ID, evalCtx, fmt.Errorf("evaluator finished without a measurement"))
				return nil
			}
			done, err := s.ledger.Complete(t.ID, *last)
			if err != nil {
				logger.Warn("failed to complete trial", "trial_id", t.ID, "error", err)
				return nil
			}
			return done
		}
		if err != nil {
			ev.Cancel()
			s.failTrial(t.ID, evalCtx, err)
			return nil
		}

		last = m
		if err := s.ledger.RecordMeasurement(t.ID, *m); err != nil {
			logger.Warn("failed to record measurement", "trial_id", t.ID, "error", err)
		}

		if s.cfg.StoppingPolicy != nil {
			current, err := s.ledger.Get(t.ID)
			if err == nil && s.cfg.StoppingPolicy.ShouldStop(current) {
				ev.Cancel()
				if err := s.ledger.Stop(t.ID); err != nil {
					logger.Warn("failed to stop trial", "trial_id", t.ID, "error", err)
				}
				logger.Debug("trial stopped early", "trial_id", t.ID, "measurements", len(current.Measurements))
				return nil
			}
		}
	}
}

// failTrial marks a trial errored, classifying deadline expiry as a
// timeout rather than a generic fault.
func (s *Scheduler) failTrial(id int64, evalCtx context.Context, cause error) {
	var reason error
	if errors.Is(evalCtx.Err(), context.DeadlineExceeded) || errors.Is(cause, context.DeadlineExceeded) {
		reason = &EvaluationTimeoutError{TrialID: id, Timeout: s.cfg.EvalTimeout}
	} else {
		reason = &EvaluationFaultError{TrialID: id, Cause: cause}
	}
	if err := s.ledger.MarkError(id, reason); err != nil {
		logger.Warn("failed to mark trial errored", "trial_id", id, "error", err)
		return
	}
	logger.Warn("trial errored", "trial_id", id, "reason", reason.Error())
}
