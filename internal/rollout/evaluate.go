package rollout

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/vovakirdan/tetris-gym/internal/agent"
)

// Summary holds per-episode scores and their statistics.
type Summary struct {
	Scores    []int
	Mean      float64
	Std       float64 // Population standard deviation
	Min       float64
	Max       float64
	Truncated int // Episodes cut off by the step cap
	Steps     int
}

// Summarize computes statistics over episode scores.
func Summarize(scores []int) Summary {
	s := Summary{Scores: scores}
	if len(scores) == 0 {
		return s
	}

	xs := make([]float64, len(scores))
	for i, v := range scores {
		xs[i] = float64(v)
	}
	s.Mean, s.Std = stat.PopMeanStdDev(xs, nil)
	s.Min = floats.Min(xs)
	s.Max = floats.Max(xs)
	return s
}

// Options configure Collect.
type Options struct {
	Episodes int         // Episodes to complete across all engines
	MaxSteps int         // Per-episode step cap, 0 = none
	Logger   *log.Logger // nil = log.Default()
}

// Collect runs agents[i] on engine i of v until opts.Episodes episodes have
// ended, either by lock-out or by hitting the step cap. Episode scores are
// the rows cleared, in completion order.
func Collect(ctx context.Context, v *VecEnv, agents []agent.Agent, opts Options) (Summary, error) {
	if len(agents) != v.Len() {
		return Summary{}, fmt.Errorf("rollout: got %d agents for %d environments", len(agents), v.Len())
	}
	if opts.Episodes < 1 {
		return Summary{}, fmt.Errorf("rollout: episodes must be positive, got %d", opts.Episodes)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	v.Reset()
	scores := make([]int, 0, opts.Episodes)
	returns := make([]int, v.Len())
	lengths := make([]int, v.Len())
	actions := make([]int, v.Len())
	truncated, total := 0, 0

	for len(scores) < opts.Episodes {
		if err := ctx.Err(); err != nil {
			return Summarize(scores), err
		}

		for i, ag := range agents {
			actions[i] = ag.Act(v.Env(i))
		}
		steps, err := v.Step(ctx, actions)
		if err != nil {
			return Summarize(scores), err
		}
		total += v.Len()

		for i, st := range steps {
			returns[i] += st.Info.RowsCleared
			lengths[i]++

			capped := opts.MaxSteps > 0 && lengths[i] >= opts.MaxSteps && !st.Done
			if !st.Done && !capped {
				continue
			}
			if capped {
				truncated++
				v.Env(i).Reset()
			}
			if len(scores) < opts.Episodes {
				scores = append(scores, returns[i])
				logger.Debug("episode finished", "env", i, "episode", len(scores), "score", returns[i], "steps", lengths[i], "truncated", capped)
			}
			returns[i], lengths[i] = 0, 0
		}
	}

	s := Summarize(scores)
	s.Truncated = truncated
	s.Steps = total
	return s, nil
}
