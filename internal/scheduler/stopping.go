package scheduler

import (
	"math"

	"github.com/blackboxopt/tuner-core/pkg/models"
)

// StoppingPolicy decides, from a trial's measurement history, whether
// its evaluation should be cut short.
type StoppingPolicy interface {
	ShouldStop(t *models.Trial) bool
}

// StoppingPolicyFunc adapts a plain predicate to StoppingPolicy.
type StoppingPolicyFunc func(t *models.Trial) bool

func (f StoppingPolicyFunc) ShouldStop(t *models.Trial) bool {
	return f(t)
}

// PlateauStoppingPolicy stops a trial whose learning curve has gone
// flat: the last Window measurements of Metric all lie within
// Tolerance of each other.
type PlateauStoppingPolicy struct {
	Metric    string
	Window    int
	Tolerance float64
}

func (p *PlateauStoppingPolicy) ShouldStop(t *models.Trial) bool {
	window := p.Window
	if window < 2 {
		window = 2
	}
	if len(t.Measurements) < window {
		return false
	}

	lo := math.Inf(1)
	hi := math.Inf(-1)
	for _, m := range t.Measurements[len(t.Measurements)-window:] {
		v, ok := m.Metrics[p.Metric]
		if !ok {
			return false
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return hi-lo <= p.Tolerance
}
