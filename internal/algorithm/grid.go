package algorithm

import (
	"math"

	"github.com/blackboxopt/tuner-core/pkg/models"
)

const defaultGridResolution = 10

// GridSearchDesigner enumerates the cross-product of each parameter's
// discretized domain in a fixed order. It exhausts: once every grid
// point has been suggested, Suggest returns an empty batch, which
// schedulers treat as a termination signal.
type GridSearchDesigner struct {
	problem    *models.ProblemStatement
	resolution int
	names      []string
	axes       [][]models.ParameterValue
	built      bool
	next       int64
	total      int64
	tracker    suggestionTracker
}

// NewGridSearchDesigner creates a grid-search designer. Continuous
// parameters are discretized into resolution evenly spaced points.
func NewGridSearchDesigner(problem *models.ProblemStatement, resolution int) *GridSearchDesigner {
	if resolution <= 1 {
		resolution = defaultGridResolution
	}
	return &GridSearchDesigner{
		problem:    problem,
		resolution: resolution,
		tracker:    newSuggestionTracker(),
	}
}

// Suggest returns up to count grid points, fewer near exhaustion and
// none afterwards.
func (d *GridSearchDesigner) Suggest(count int) ([]models.Suggestion, error) {
	if !d.built {
		if err := d.buildAxes(); err != nil {
			return nil, err
		}
	}
	out := make([]models.Suggestion, 0, count)
	for i := 0; i < count && d.next < d.total; i++ {
		params := d.assignmentAt(d.next)
		d.next++
		d.tracker.record(params)
		out = append(out, models.Suggestion{Parameters: params})
	}
	return out, nil
}

// Update validates provenance; the grid position itself never depends
// on results.
func (d *GridSearchDesigner) Update(completed []*models.Trial) error {
	return d.tracker.consume(completed)
}

// Remaining reports how many grid points have not been suggested yet.
func (d *GridSearchDesigner) Remaining() int64 {
	if !d.built {
		if err := d.buildAxes(); err != nil {
			return 0
		}
	}
	return d.total - d.next
}

func (d *GridSearchDesigner) buildAxes() error {
	if err := checkFeasible(d.problem); err != nil {
		return err
	}
	d.names = make([]string, 0, len(d.problem.Parameters))
	d.axes = make([][]models.ParameterValue, 0, len(d.problem.Parameters))
	d.total = 1
	for i := range d.problem.Parameters {
		p := &d.problem.Parameters[i]
		axis := gridAxis(p, d.resolution)
		if len(axis) == 0 {
			return &InfeasibleSearchSpaceError{Parameter: p.Name, Reason: "domain admits no value"}
		}
		d.names = append(d.names, p.Name)
		d.axes = append(d.axes, axis)
		d.total *= int64(len(axis))
	}
	d.built = true
	return nil
}

// assignmentAt decodes a linear grid index into one value per axis
// (mixed-radix positional decoding).
func (d *GridSearchDesigner) assignmentAt(index int64) models.ParameterMap {
	params := make(models.ParameterMap, len(d.axes))
	for i := len(d.axes) - 1; i >= 0; i-- {
		axis := d.axes[i]
		params[d.names[i]] = axis[index%int64(len(axis))]
		index /= int64(len(axis))
	}
	return params
}

func gridAxis(p *models.ParameterSpec, resolution int) []models.ParameterValue {
	switch p.Type {
	case models.ParameterDouble:
		if p.Min == p.Max {
			return []models.ParameterValue{models.FloatValue(p.Min)}
		}
		axis := make([]models.ParameterValue, 0, resolution)
		step := (p.Max - p.Min) / float64(resolution-1)
		for i := 0; i < resolution; i++ {
			axis = append(axis, models.FloatValue(p.Min+float64(i)*step))
		}
		return axis
	case models.ParameterInteger:
		lo, hi := int64(p.Min), int64(p.Max)
		count := hi - lo + 1
		if count <= int64(resolution) {
			axis := make([]models.ParameterValue, 0, count)
			for v := lo; v <= hi; v++ {
				axis = append(axis, models.FloatValue(float64(v)))
			}
			return axis
		}
		axis := make([]models.ParameterValue, 0, resolution)
		step := float64(hi-lo) / float64(resolution-1)
		prev := int64(math.MinInt64)
		for i := 0; i < resolution; i++ {
			v := int64(math.Round(float64(lo) + float64(i)*step))
			if v == prev {
				continue
			}
			prev = v
			axis = append(axis, models.FloatValue(float64(v)))
		}
		return axis
	case models.ParameterDiscrete:
		axis := make([]models.ParameterValue, 0, len(p.Values))
		for _, v := range p.Values {
			axis = append(axis, models.FloatValue(v))
		}
		return axis
	case models.ParameterCategorical:
		axis := make([]models.ParameterValue, 0, len(p.Categories))
		for _, c := range p.Categories {
			axis = append(axis, models.CategoryValue(c))
		}
		return axis
	}
	return nil
}
