package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blackboxopt/tuner-core/internal/algorithm"
	"github.com/blackboxopt/tuner-core/internal/benchmark"
	"github.com/blackboxopt/tuner-core/internal/ledger"
	"github.com/blackboxopt/tuner-core/internal/pareto"
	"github.com/blackboxopt/tuner-core/internal/scheduler"
	"github.com/blackboxopt/tuner-core/internal/support"
	"github.com/blackboxopt/tuner-core/pkg/config"
	"github.com/blackboxopt/tuner-core/pkg/logger"
	"github.com/blackboxopt/tuner-core/pkg/models"
)

// localEvaluator serves the live scheduling path without any network
// transport: each submission is measured in-process by the same
// synthetic experimenter the benchmark mode uses.
type localEvaluator struct {
	experimenter benchmark.Experimenter
}

type localEvaluation struct {
	experimenter benchmark.Experimenter
	trial        *models.Trial
	delivered    bool
}

func (e *localEvaluator) Submit(_ context.Context, trial *models.Trial) (scheduler.Evaluation, error) {
	return &localEvaluation{experimenter: e.experimenter, trial: trial}, nil
}

func (e *localEvaluation) Next(ctx context.Context) (*models.Measurement, error) {
	if e.delivered {
		return nil, scheduler.ErrEvaluationDone
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := e.experimenter.Evaluate([]*models.Trial{e.trial}); err != nil {
		return nil, err
	}
	e.delivered = true
	return e.trial.FinalMeasurement, nil
}

func (e *localEvaluation) Cancel() {}

func objectiveByName(name string) (benchmark.ObjectiveFunc, error) {
	switch name {
	case "", "sphere":
		return benchmark.Sphere, nil
	case "rosenbrock":
		return benchmark.Rosenbrock, nil
	default:
		return nil, fmt.Errorf("unknown objective: %s", name)
	}
}

func buildExperimenter(cfg *config.StudyConfig, problem *models.ProblemStatement) (benchmark.Experimenter, error) {
	objectiveName := ""
	if cfg.Benchmark != nil {
		objectiveName = cfg.Benchmark.Objective
	}
	fn, err := objectiveByName(objectiveName)
	if err != nil {
		return nil, err
	}
	objectives := make(map[string]benchmark.ObjectiveFunc, len(problem.Metrics))
	for _, m := range problem.Metrics {
		objectives[m.Name] = fn
	}
	return benchmark.NewFunctionExperimenter(problem, objectives)
}

func reportResults(l *ledger.Ledger, problem *models.ProblemStatement) error {
	completed, err := l.List(ledger.Filter{Statuses: []models.TrialStatus{models.TrialCompleted}})
	if err != nil {
		return err
	}
	if len(completed) == 0 {
		logger.Warn("no trials completed")
		return nil
	}

	if problem.IsSingleObjective() {
		metric := problem.Metrics[0]
		best, err := pareto.Best(completed, metric)
		if err != nil {
			return err
		}
		curve := benchmark.ConvergenceCurve(completed, metric)
		logger.Info("best trial",
			"trial_id", best.ID,
			"parameters", best.Parameters.Signature(),
			metric.Name, best.FinalMeasurement.Metrics[metric.Name],
			"final_best", curve[len(curve)-1])
		return nil
	}

	frontier := pareto.NonDominated(completed, problem.Metrics)
	logger.Info("pareto frontier", "size", len(frontier), "completed", len(completed))
	for _, t := range frontier {
		logger.Info("frontier trial",
			"trial_id", t.ID,
			"parameters", t.Parameters.Signature(),
			"metrics", t.FinalMeasurement.Metrics)
	}
	return nil
}

func runBenchmark(cfg *config.StudyConfig, problem *models.ProblemStatement, opts algorithm.Options) error {
	exp, err := buildExperimenter(cfg, problem)
	if err != nil {
		return err
	}
	state, err := benchmark.NewState(exp, cfg.Algorithm.Name, opts)
	if err != nil {
		return err
	}

	repeats, batch := 10, 1
	if cfg.Benchmark != nil {
		repeats = cfg.Benchmark.NumRepeats
		batch = cfg.Benchmark.BatchSize
	}
	runner := benchmark.Runner{
		Subroutines: []benchmark.Subroutine{benchmark.GenerateAndEvaluate{BatchSize: batch}},
		NumRepeats:  repeats,
	}

	logger.Info("starting benchmark",
		"study", cfg.Name,
		"algorithm", cfg.Algorithm.Name,
		"repeats", repeats,
		"batch_size", batch)
	if err := runner.Run(state); err != nil {
		return err
	}
	return reportResults(state.Algorithm.Ledger, problem)
}

func runLive(ctx context.Context, cfg *config.StudyConfig, problem *models.ProblemStatement, opts algorithm.Options, budget int) error {
	exp, err := buildExperimenter(cfg, problem)
	if err != nil {
		return err
	}

	l := ledger.New(nil)
	sup := support.NewLedgerSupporter(l, problem)
	designer, err := algorithm.New(cfg.Algorithm.Name, problem, sup, opts)
	if err != nil {
		return err
	}

	schedCfg := scheduler.Config{BatchSize: 1, MaxParallelEvaluations: 1}
	if s := cfg.Scheduler; s != nil {
		schedCfg.BatchSize = s.BatchSize
		schedCfg.MaxParallelEvaluations = s.MaxParallelEvaluations
		schedCfg.EvalTimeout = time.Duration(s.EvalTimeoutMs) * time.Millisecond
		schedCfg.DispatchRatePerSec = s.DispatchRatePerSec
	}

	sched := scheduler.New(l, designer, &localEvaluator{experimenter: exp}, schedCfg)
	logger.Info("starting live run",
		"study", cfg.Name,
		"algorithm", cfg.Algorithm.Name,
		"budget", budget,
		"batch_size", schedCfg.BatchSize)

	res, err := sched.Run(ctx, scheduler.Budget{MaxTrials: budget})
	if res != nil {
		logger.Info("run summary",
			"rounds", res.Rounds,
			"completed", res.Completed,
			"errored", res.Errored,
			"stopped", res.Stopped)
	}
	if err != nil {
		return err
	}
	return reportResults(l, problem)
}

func main() {
	var configPath string
	var mode string
	var budget int
	var logLevel string
	var seed int64

	flag.StringVar(&configPath, "config", "", "path to the study YAML configuration")
	flag.StringVar(&mode, "mode", "benchmark", "run mode (benchmark, live)")
	flag.IntVar(&budget, "budget", 50, "maximum number of trials in live mode")
	flag.StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flag.Int64Var(&seed, "seed", 0, "random seed override (0 keeps the configured seed)")
	flag.Parse()

	if configPath == "" {
		fmt.Fprintln(os.Stderr, "usage: tunerd -config study.yaml [-mode benchmark|live]")
		os.Exit(2)
	}

	cfg, err := config.LoadStudy(configPath)
	if err != nil {
		logger.Error("failed to load study config", "path", configPath, "error", err)
		os.Exit(1)
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	logger.SetDefault(logger.NewText(level, os.Stdout))

	problem, err := cfg.ToProblemStatement()
	if err != nil {
		logger.Error("invalid problem statement", "error", err)
		os.Exit(1)
	}
	study, err := models.NewStudy(cfg.Name, problem)
	if err != nil {
		logger.Error("failed to create study", "error", err)
		os.Exit(1)
	}
	logger.Info("study created", "study_id", study.ID, "name", study.Name, "mode", mode)

	opts := algorithm.Options{
		Seed:           cfg.Algorithm.Seed,
		GridResolution: cfg.Algorithm.GridResolution,
		StepFraction:   cfg.Algorithm.StepFraction,
	}
	if seed != 0 {
		opts.Seed = seed
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch mode {
	case "benchmark":
		err = runBenchmark(cfg, problem, opts)
	case "live":
		err = runLive(ctx, cfg, problem, opts, budget)
	default:
		logger.Error("unknown mode", "mode", mode)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("run failed", "mode", mode, "error", err)
		os.Exit(1)
	}
}
