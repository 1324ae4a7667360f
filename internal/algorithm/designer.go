// Package algorithm holds the pluggable suggestion algorithms. One
// Designer interface covers both capability shapes: stateful designers
// keep an internal model updated through Update, stateless policies are
// handed a PolicySupporter at construction and recompute everything
// from it on every Suggest. Callers depend only on the interface and
// never branch on which variant they hold.
package algorithm

import (
	"github.com/blackboxopt/tuner-core/internal/support"
	"github.com/blackboxopt/tuner-core/pkg/models"
)

// Designer produces parameter suggestions and consumes completed
// trials. Implementations are not safe for concurrent use; callers
// guarantee a single in-flight call per instance.
type Designer interface {
	// Suggest produces at most count suggestions. Fewer are permitted,
	// e.g. when a grid is nearly exhausted; an empty result signals
	// exhaustion. Safe to call with zero prior completed trials.
	Suggest(count int) ([]models.Suggestion, error)

	// Update informs the designer of newly completed trials since the
	// last call. Stateless policies treat it as a no-op.
	Update(completed []*models.Trial) error
}

// Options carries algorithm construction knobs from configuration.
type Options struct {
	// Seed fixes the random stream; zero seeds from the clock.
	Seed int64
	// GridResolution is the number of points a continuous parameter is
	// discretized into for grid search. Defaults to 10.
	GridResolution int
	// StepFraction is the local-search neighbor step, as a fraction of
	// each parameter's range. Defaults to 0.1.
	StepFraction float64
}

// New constructs a designer by algorithm name. Every instance is built
// from an explicit problem statement (and supporter, for policies);
// there is no shared registry of algorithm state.
func New(name string, problem *models.ProblemStatement, supporter support.PolicySupporter, opts Options) (Designer, error) {
	switch name {
	case "random":
		return NewRandomDesigner(problem, opts.Seed), nil
	case "grid":
		return NewGridSearchDesigner(problem, opts.GridResolution), nil
	case "local_search":
		return NewLocalSearchPolicy(problem, supporter, opts.StepFraction, opts.Seed), nil
	default:
		return nil, &UnknownAlgorithmError{Name: name}
	}
}
