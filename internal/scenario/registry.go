package scenario

import (
	"fmt"
	"sort"
)

// Factory builds a scenario from params.
type Factory func(p Params) (*Scenario, error)

type Registry struct {
	scenarios map[string]Factory
}

func NewRegistry() *Registry {
	r := &Registry{
		scenarios: make(map[string]Factory),
	}

	r.Register("figure8", func(Params) (*Scenario, error) { return FigureEight(), nil })
	r.Register("figure8-si", func(Params) (*Scenario, error) { return FigureEightSI(), nil })
	r.Register("binary", func(Params) (*Scenario, error) { return Binary(), nil })
	r.Register("swarm", Swarm)
	r.Register("solar", Solar)

	return r
}

// Register adds or replaces a named scenario.
func (r *Registry) Register(name string, fn Factory) {
	r.scenarios[name] = fn
}

func (r *Registry) Get(name string, p Params) (*Scenario, error) {
	fn, ok := r.scenarios[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario: %s", name)
	}
	s, err := fn(p)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", name, err)
	}
	s.fillColors()
	return s, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
