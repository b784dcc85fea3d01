// Package automation runs scripted sequences of simulations described in
// a yaml batch file and stores each run.
package automation

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/experiment"
	"github.com/san-kum/orbitsim/internal/scenario"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/storage"
)

// Batch is a named list of runs.
type Batch struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step describes one run. Preset, when set, is the starting point and the
// remaining non-zero fields override it.
type Step struct {
	Scenario    string  `yaml:"scenario"`
	Preset      string  `yaml:"preset"`
	Dt          float64 `yaml:"dt"`
	Duration    float64 `yaml:"duration"`
	Seed        int64   `yaml:"seed"`
	NumBodies   int     `yaml:"num_bodies"`
	G           float32 `yaml:"g"`
	SampleEvery int     `yaml:"sample_every"`
	// Save stores the run under the data directory.
	Save bool `yaml:"save"`
}

// StepResult is the outcome of one step. RunID is empty when the step was
// not saved.
type StepResult struct {
	Step    int
	Name    string
	RunID   string
	Result  *sim.Result
	Elapsed time.Duration
}

func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var b Batch
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(b.Steps) == 0 {
		return nil, fmt.Errorf("batch %s has no steps", path)
	}
	return &b, nil
}

// Config resolves the step into a run configuration.
func (s Step) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Scenario != "" {
		cfg.Scenario = s.Scenario
	}
	if s.Preset != "" {
		p := config.GetPreset(cfg.Scenario, s.Preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %s/%s", cfg.Scenario, s.Preset)
		}
		cfg = p
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.NumBodies > 0 {
		cfg.NumBodies = s.NumBodies
	}
	if s.G > 0 {
		cfg.G = s.G
	}
	if s.SampleEvery > 0 {
		cfg.SampleEvery = s.SampleEvery
	}
	return cfg, cfg.Validate()
}

// RunBatch executes every step in order and stops at the first failure.
// st may be nil when no step saves.
func RunBatch(ctx context.Context, b *Batch, reg *scenario.Registry, st *storage.Store, logger *log.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(b.Steps))

	for i, step := range b.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		exp, err := experiment.New(cfg, reg)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		s := exp.Scenario()
		logger.Info("running step", "step", i+1, "of", len(b.Steps), "scenario", s.Name, "dt", s.Dt, "duration", cfg.Duration)

		start := time.Now()
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		sr := StepResult{Step: i + 1, Name: s.Name, Result: result, Elapsed: time.Since(start)}

		if step.Save {
			if st == nil {
				return results, fmt.Errorf("step %d: no store to save to", i+1)
			}
			sr.RunID, err = st.Save(storage.RunMetadata{
				Scenario: s.Name,
				Seed:     cfg.Seed,
				Dt:       s.Dt,
				Duration: cfg.Duration,
				G:        s.G,
				Bodies:   len(s.Bodies),
				Names:    s.Names(),
			}, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}
