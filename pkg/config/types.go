package config

import (
	"fmt"

	"github.com/blackboxopt/tuner-core/pkg/models"
)

// StudyConfig is the top-level YAML configuration for one study.
type StudyConfig struct {
	Name       string            `yaml:"name"`
	LogLevel   string            `yaml:"log_level,omitempty"`
	Algorithm  AlgorithmConfig   `yaml:"algorithm"`
	Parameters []ParameterConfig `yaml:"parameters"`
	Metrics    []MetricConfig    `yaml:"metrics"`
	Scheduler  *SchedulerConfig  `yaml:"scheduler,omitempty"`
	Benchmark  *BenchmarkConfig  `yaml:"benchmark,omitempty"`
}

// AlgorithmConfig selects and seeds the suggestion algorithm.
type AlgorithmConfig struct {
	Name string `yaml:"name"` // random, grid, local_search
	Seed int64  `yaml:"seed,omitempty"`
	// GridResolution is the number of points a continuous parameter is
	// discretized into for grid search.
	GridResolution int `yaml:"grid_resolution,omitempty"`
	// StepFraction is the neighbor step size for local search, as a
	// fraction of each parameter's range.
	StepFraction float64 `yaml:"step_fraction,omitempty"`
}

// ParameterConfig declares one search-space dimension.
type ParameterConfig struct {
	Name       string    `yaml:"name"`
	Type       string    `yaml:"type"` // double, integer, discrete, categorical
	Min        float64   `yaml:"min,omitempty"`
	Max        float64   `yaml:"max,omitempty"`
	Values     []float64 `yaml:"values,omitempty"`
	Categories []string  `yaml:"categories,omitempty"`
}

// MetricConfig declares one objective metric.
type MetricConfig struct {
	Name            string   `yaml:"name"`
	Goal            string   `yaml:"goal"` // maximize, minimize
	SafetyThreshold *float64 `yaml:"safety_threshold,omitempty"`
	NoiseLevel      string   `yaml:"noise_level,omitempty"`
}

// SchedulerConfig tunes the live suggest/evaluate/complete loop.
type SchedulerConfig struct {
	BatchSize              int     `yaml:"batch_size"`
	MaxParallelEvaluations int     `yaml:"max_parallel_evaluations"`
	EvalTimeoutMs          int64   `yaml:"eval_timeout_ms,omitempty"`
	DispatchRatePerSec     float64 `yaml:"dispatch_rate_per_sec,omitempty"`
}

// BenchmarkConfig tunes the offline benchmark harness.
type BenchmarkConfig struct {
	NumRepeats int    `yaml:"num_repeats"`
	BatchSize  int    `yaml:"batch_size"`
	Objective  string `yaml:"objective,omitempty"` // sphere, rosenbrock
}

// ToProblemStatement converts the declared parameters and metrics into
// the validated model form.
func (c *StudyConfig) ToProblemStatement() (*models.ProblemStatement, error) {
	ps := &models.ProblemStatement{
		Parameters: make([]models.ParameterSpec, 0, len(c.Parameters)),
		Metrics:    make([]models.MetricInformation, 0, len(c.Metrics)),
	}
	for _, p := range c.Parameters {
		ps.Parameters = append(ps.Parameters, models.ParameterSpec{
			Name:       p.Name,
			Type:       models.ParameterType(p.Type),
			Min:        p.Min,
			Max:        p.Max,
			Values:     p.Values,
			Categories: p.Categories,
		})
	}
	for _, m := range c.Metrics {
		ps.Metrics = append(ps.Metrics, models.MetricInformation{
			Name:            m.Name,
			Goal:            models.MetricGoal(m.Goal),
			SafetyThreshold: m.SafetyThreshold,
			NoiseLevel:      m.NoiseLevel,
		})
	}
	if err := ps.Validate(); err != nil {
		return nil, err
	}
	return ps, nil
}

func validateStudyConfig(c *StudyConfig) error {
	if c.Name == "" {
		return fmt.Errorf("study name is required")
	}
	if c.LogLevel != "" {
		validLogLevels := map[string]bool{
			"debug": true,
			"info":  true,
			"warn":  true,
			"error": true,
		}
		if !validLogLevels[c.LogLevel] {
			return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", c.LogLevel)
		}
	}
	switch c.Algorithm.Name {
	case "random", "grid", "local_search":
	case "":
		return fmt.Errorf("algorithm name is required")
	default:
		return fmt.Errorf("unknown algorithm: %s", c.Algorithm.Name)
	}
	if _, err := c.ToProblemStatement(); err != nil {
		return err
	}
	if s := c.Scheduler; s != nil {
		if s.BatchSize <= 0 {
			return fmt.Errorf("scheduler batch_size must be positive")
		}
		if s.MaxParallelEvaluations <= 0 {
			return fmt.Errorf("scheduler max_parallel_evaluations must be positive")
		}
		if s.EvalTimeoutMs < 0 {
			return fmt.Errorf("scheduler eval_timeout_ms must not be negative")
		}
		if s.DispatchRatePerSec < 0 {
			return fmt.Errorf("scheduler dispatch_rate_per_sec must not be negative")
		}
	}
	if b := c.Benchmark; b != nil {
		if b.NumRepeats <= 0 {
			return fmt.Errorf("benchmark num_repeats must be positive")
		}
		if b.BatchSize <= 0 {
			return fmt.Errorf("benchmark batch_size must be positive")
		}
	}
	return nil
}
