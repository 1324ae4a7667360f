package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ParameterType identifies the domain shape of a tunable parameter.
type ParameterType string

const (
	ParameterDouble      ParameterType = "double"
	ParameterInteger     ParameterType = "integer"
	ParameterDiscrete    ParameterType = "discrete"
	ParameterCategorical ParameterType = "categorical"
)

// ParameterSpec describes one dimension of the search space.
// Min/Max bound double and integer parameters, Values enumerates a
// discrete numeric domain, Categories enumerates a categorical domain.
type ParameterSpec struct {
	Name       string        `json:"name"`
	Type       ParameterType `json:"type"`
	Min        float64       `json:"min,omitempty"`
	Max        float64       `json:"max,omitempty"`
	Values     []float64     `json:"values,omitempty"`
	Categories []string      `json:"categories,omitempty"`
}

// Validate checks that the spec describes a non-empty domain.
func (p *ParameterSpec) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("parameter name is required")
	}
	switch p.Type {
	case ParameterDouble, ParameterInteger:
		if p.Min > p.Max {
			return fmt.Errorf("parameter %s: min %v exceeds max %v", p.Name, p.Min, p.Max)
		}
	case ParameterDiscrete:
		if len(p.Values) == 0 {
			return fmt.Errorf("parameter %s: discrete domain has no values", p.Name)
		}
	case ParameterCategorical:
		if len(p.Categories) == 0 {
			return fmt.Errorf("parameter %s: categorical domain has no categories", p.Name)
		}
	default:
		return fmt.Errorf("parameter %s: unknown type %q", p.Name, p.Type)
	}
	return nil
}

// Contains reports whether the value lies in the parameter's domain.
func (p *ParameterSpec) Contains(v ParameterValue) bool {
	switch p.Type {
	case ParameterDouble:
		return v.Kind == ValueNumber && v.Number >= p.Min && v.Number <= p.Max
	case ParameterInteger:
		if v.Kind != ValueNumber || v.Number != float64(int64(v.Number)) {
			return false
		}
		return v.Number >= p.Min && v.Number <= p.Max
	case ParameterDiscrete:
		if v.Kind != ValueNumber {
			return false
		}
		for _, dv := range p.Values {
			if dv == v.Number {
				return true
			}
		}
		return false
	case ParameterCategorical:
		if v.Kind != ValueCategory {
			return false
		}
		for _, c := range p.Categories {
			if c == v.Category {
				return true
			}
		}
		return false
	}
	return false
}

// FeasiblePointCount returns the number of feasible assignments for the
// parameter, or -1 for continuous domains.
func (p *ParameterSpec) FeasiblePointCount() int64 {
	switch p.Type {
	case ParameterDouble:
		if p.Min > p.Max {
			return 0
		}
		if p.Min == p.Max {
			return 1
		}
		return -1
	case ParameterInteger:
		if p.Min > p.Max {
			return 0
		}
		return int64(p.Max) - int64(p.Min) + 1
	case ParameterDiscrete:
		return int64(len(p.Values))
	case ParameterCategorical:
		return int64(len(p.Categories))
	}
	return 0
}

// ParameterValueKind tags the variant held by a ParameterValue.
type ParameterValueKind string

const (
	ValueNumber   ParameterValueKind = "number"
	ValueCategory ParameterValueKind = "category"
)

// ParameterValue is one assigned value: either numeric or categorical.
type ParameterValue struct {
	Kind     ParameterValueKind `json:"kind"`
	Number   float64            `json:"number,omitempty"`
	Category string             `json:"category,omitempty"`
}

// FloatValue wraps a numeric assignment.
func FloatValue(v float64) ParameterValue {
	return ParameterValue{Kind: ValueNumber, Number: v}
}

// CategoryValue wraps a categorical assignment.
func CategoryValue(c string) ParameterValue {
	return ParameterValue{Kind: ValueCategory, Category: c}
}

func (v ParameterValue) String() string {
	if v.Kind == ValueCategory {
		return v.Category
	}
	return fmt.Sprintf("%g", v.Number)
}

// ParameterMap assigns one value per search-space dimension.
type ParameterMap map[string]ParameterValue

// Clone returns an independent copy of the map.
func (m ParameterMap) Clone() ParameterMap {
	out := make(ParameterMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Signature returns a stable textual key for the assignment, suitable
// for matching suggestions against the trials created from them.
func (m ParameterMap) Signature() string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+m[k].String())
	}
	return strings.Join(parts, ",")
}

// MetricGoal states whether a metric should be maximized or minimized.
type MetricGoal string

const (
	GoalMaximize MetricGoal = "maximize"
	GoalMinimize MetricGoal = "minimize"
)

// MetricInformation describes one objective metric.
type MetricInformation struct {
	Name string     `json:"name"`
	Goal MetricGoal `json:"goal"`
	// SafetyThreshold, when set, marks the metric as a safety constraint.
	SafetyThreshold *float64 `json:"safety_threshold,omitempty"`
	// NoiseLevel is a free-form annotation (e.g. "low", "high").
	NoiseLevel string `json:"noise_level,omitempty"`
}

// ProblemStatement is the immutable search-space and metric definition
// owned by a study.
type ProblemStatement struct {
	Parameters []ParameterSpec     `json:"parameters"`
	Metrics    []MetricInformation `json:"metrics"`
}

// Validate checks the statement for structural soundness.
func (ps *ProblemStatement) Validate() error {
	if len(ps.Parameters) == 0 {
		return fmt.Errorf("problem statement has no parameters")
	}
	if len(ps.Metrics) == 0 {
		return fmt.Errorf("problem statement has no metrics")
	}
	seen := make(map[string]bool, len(ps.Parameters))
	for i := range ps.Parameters {
		p := &ps.Parameters[i]
		if err := p.Validate(); err != nil {
			return err
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate parameter name %q", p.Name)
		}
		seen[p.Name] = true
	}
	metricSeen := make(map[string]bool, len(ps.Metrics))
	for _, m := range ps.Metrics {
		if m.Name == "" {
			return fmt.Errorf("metric name is required")
		}
		if m.Goal != GoalMaximize && m.Goal != GoalMinimize {
			return fmt.Errorf("metric %s: unknown goal %q", m.Name, m.Goal)
		}
		if metricSeen[m.Name] {
			return fmt.Errorf("duplicate metric name %q", m.Name)
		}
		metricSeen[m.Name] = true
	}
	return nil
}

// IsSingleObjective reports whether the study optimizes exactly one metric.
func (ps *ProblemStatement) IsSingleObjective() bool {
	return len(ps.Metrics) == 1
}

// MetricGoalByName returns the goal for a named metric.
func (ps *ProblemStatement) MetricGoalByName(name string) (MetricGoal, bool) {
	for _, m := range ps.Metrics {
		if m.Name == name {
			return m.Goal, true
		}
	}
	return "", false
}

// Measurement is one snapshot of metric values for a trial, taken at a
// given step of the evaluation.
type Measurement struct {
	Metrics     map[string]float64 `json:"metrics"`
	Steps       int64              `json:"steps"`
	ElapsedSecs float64            `json:"elapsed_secs,omitempty"`
}

// Clone returns an independent copy of the measurement.
func (m *Measurement) Clone() *Measurement {
	if m == nil {
		return nil
	}
	out := &Measurement{Steps: m.Steps, ElapsedSecs: m.ElapsedSecs}
	out.Metrics = make(map[string]float64, len(m.Metrics))
	for k, v := range m.Metrics {
		out.Metrics[k] = v
	}
	return out
}

// TrialStatus represents the lifecycle state of a trial.
type TrialStatus string

const (
	TrialRequested TrialStatus = "requested"
	TrialActive    TrialStatus = "active"
	TrialCompleted TrialStatus = "completed"
	TrialStopped   TrialStatus = "stopped"
	TrialError     TrialStatus = "error"
)

// Terminal reports whether the status admits no further transitions.
func (s TrialStatus) Terminal() bool {
	return s == TrialCompleted || s == TrialStopped || s == TrialError
}

// Trial is one parameter assignment tracked through its lifecycle.
// FinalMeasurement is set exactly once, on the transition to completed.
type Trial struct {
	ID               int64             `json:"id"`
	Parameters       ParameterMap      `json:"parameters"`
	Status           TrialStatus       `json:"status"`
	Measurements     []Measurement     `json:"measurements,omitempty"`
	FinalMeasurement *Measurement      `json:"final_measurement,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	Error            string            `json:"error,omitempty"`
	CreatedAtUnixMs  int64             `json:"created_at_unix_ms"`
	EndedAtUnixMs    int64             `json:"ended_at_unix_ms,omitempty"`
}

// Clone returns a deep copy so callers never alias ledger-owned state.
func (t *Trial) Clone() *Trial {
	if t == nil {
		return nil
	}
	out := &Trial{
		ID:              t.ID,
		Parameters:      t.Parameters.Clone(),
		Status:          t.Status,
		Error:           t.Error,
		CreatedAtUnixMs: t.CreatedAtUnixMs,
		EndedAtUnixMs:   t.EndedAtUnixMs,
	}
	if len(t.Measurements) > 0 {
		out.Measurements = make([]Measurement, len(t.Measurements))
		for i := range t.Measurements {
			out.Measurements[i] = *t.Measurements[i].Clone()
		}
	}
	out.FinalMeasurement = t.FinalMeasurement.Clone()
	if t.Metadata != nil {
		out.Metadata = make(map[string]string, len(t.Metadata))
		for k, v := range t.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// Suggestion is a proposed, not-yet-persisted parameter assignment.
type Suggestion struct {
	Parameters ParameterMap      `json:"parameters"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Study binds one problem statement to the trials created under it.
type Study struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Problem         *ProblemStatement `json:"problem"`
	CreatedAtUnixMs int64             `json:"created_at_unix_ms"`
}

// NewStudy validates the problem statement and mints a study identity.
func NewStudy(name string, problem *ProblemStatement) (*Study, error) {
	if name == "" {
		return nil, fmt.Errorf("study name is required")
	}
	if problem == nil {
		return nil, fmt.Errorf("problem statement is required")
	}
	if err := problem.Validate(); err != nil {
		return nil, fmt.Errorf("invalid problem statement: %w", err)
	}
	return &Study{
		ID:              uuid.NewString(),
		Name:            name,
		Problem:         problem,
		CreatedAtUnixMs: time.Now().UTC().UnixMilli(),
	}, nil
}
