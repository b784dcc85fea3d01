// Package optim searches run parameters for the setting that minimizes a
// metric, typically the timestep that keeps energy drift lowest.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/experiment"
)

// Parameters a grid may vary.
const (
	ParamDt       = "dt"
	ParamG        = "g"
	ParamBodies   = "bodies"
	ParamSeed     = "seed"
	ParamDuration = "duration"
)

var ErrNoCandidates = errors.New("optim: every grid point failed")

// Point is one evaluated grid point. Err is set when the run could not be
// built or stopped early; Value is then +Inf.
type Point struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("optim: parameter %s has no values", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Search runs every combination of the grid and returns the point with the
// smallest |metric| together with every evaluated point in grid order.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (Point, []Point, error) {
	var points []Point
	if err := g.searchRecursive(ctx, 0, map[string]float64{}, buildExperiment, metricName, &points); err != nil {
		return Point{}, points, err
	}

	best := Point{Value: math.Inf(1)}
	for _, p := range points {
		if p.Err == nil && p.Value < best.Value {
			best = p
		}
	}
	if best.Params == nil {
		return best, points, ErrNoCandidates
	}
	return best, points, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	metricName string,
	points *[]Point,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		params := make(map[string]float64, len(current))
		for k, v := range current {
			params[k] = v
		}
		p := Point{Params: params, Value: math.Inf(1)}

		exp, err := buildExperiment(params)
		if err != nil {
			p.Err = err
			*points = append(*points, p)
			return nil
		}
		result, err := exp.Run(ctx)
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		case err != nil:
			p.Err = err
		default:
			v, ok := result.Metrics[metricName]
			if !ok {
				p.Err = fmt.Errorf("optim: metric %s not recorded", metricName)
			} else {
				p.Value = math.Abs(v)
			}
		}
		*points = append(*points, p)
		return nil
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[name] = val
		if err := g.searchRecursive(ctx, depth+1, current, buildExperiment, metricName, points); err != nil {
			return err
		}
	}
	delete(current, name)
	return nil
}

// Apply returns a copy of base with the grid parameters set.
func Apply(base *config.Config, params map[string]float64) (*config.Config, error) {
	cfg := *base
	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Strings(names)

	for _, name := range names {
		v := params[name]
		switch name {
		case ParamDt:
			cfg.Dt = v
		case ParamG:
			cfg.G = float32(v)
		case ParamBodies:
			cfg.NumBodies = int(v)
		case ParamSeed:
			cfg.Seed = int64(v)
		case ParamDuration:
			cfg.Duration = v
		default:
			return nil, fmt.Errorf("optim: unknown parameter %s", name)
		}
	}
	return &cfg, cfg.Validate()
}
