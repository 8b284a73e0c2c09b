// Package rollout drives engines for evaluation and experience collection:
// a lockstep vector of independent engines, episode collection with
// summary statistics, and score plots.
package rollout

import (
	"context"
	"fmt"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tetris-gym/internal/engine"
)

// VecStep is the result of one engine in a vector step.
type VecStep struct {
	engine.StepResult

	// TerminalObservation is set when Done: the engine was reset and
	// Observation already belongs to the next episode.
	TerminalObservation engine.Observation
}

// VecEnv steps N independent engines in lockstep, each on its own
// goroutine, resetting an engine as soon as its episode terminates.
type VecEnv struct {
	envs []*engine.Engine
}

// NewVecEnv creates n engines with the same configuration. Engine i draws
// pieces from a source seeded with seed+i.
func NewVecEnv(cfg engine.Config, n int, seed int64) (*VecEnv, error) {
	if n < 1 {
		return nil, fmt.Errorf("rollout: need at least one environment, got %d", n)
	}

	v := &VecEnv{envs: make([]*engine.Engine, n)}
	for i := range v.envs {
		e, err := engine.New(cfg, rand.New(rand.NewSource(seed+int64(i))))
		if err != nil {
			return nil, fmt.Errorf("rollout: environment %d: %w", i, err)
		}
		v.envs[i] = e
	}
	return v, nil
}

// Len returns the number of engines.
func (v *VecEnv) Len() int {
	return len(v.envs)
}

// Env returns engine i. Callers must not step it concurrently with Step.
func (v *VecEnv) Env(i int) *engine.Engine {
	return v.envs[i]
}

// Reset resets every engine and returns the first observations.
func (v *VecEnv) Reset() []engine.Observation {
	obs := make([]engine.Observation, len(v.envs))
	for i, e := range v.envs {
		obs[i] = e.Reset()
	}
	return obs
}

// Step applies actions[i] to engine i, all engines in parallel. The first
// engine error cancels the remaining steps and is returned.
func (v *VecEnv) Step(ctx context.Context, actions []int) ([]VecStep, error) {
	if len(actions) != len(v.envs) {
		return nil, fmt.Errorf("rollout: got %d actions for %d environments", len(actions), len(v.envs))
	}

	out := make([]VecStep, len(v.envs))
	g, ctx := errgroup.WithContext(ctx)

	for i, e := range v.envs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			res, err := e.Step(actions[i])
			if err != nil {
				return fmt.Errorf("rollout: environment %d: %w", i, err)
			}

			step := VecStep{StepResult: res}
			if res.Done {
				step.TerminalObservation = res.Observation
				step.Observation = e.Reset()
			}
			out[i] = step
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
