// Package agent provides simple action-selection policies that drive an
// engine through the same reset/step contract a learning harness uses.
package agent

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/tetris-gym/internal/engine"
)

// Agent picks an action index for the engine's current piece.
type Agent interface {
	Act(e *engine.Engine) int
}

// New creates an agent by name. seed drives any randomness.
func New(name string, seed int64) (Agent, error) {
	switch name {
	case "random":
		return NewRandom(seed), nil
	case "greedy":
		return Greedy{}, nil
	default:
		return nil, fmt.Errorf("agent: unknown agent %q", name)
	}
}

// Random picks uniformly among the legal actions of the current piece.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a seeded random agent.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

// Act returns a uniformly random legal action.
func (r *Random) Act(e *engine.Engine) int {
	return r.rng.Intn(e.LegalActions())
}

// Greedy previews every legal action and prefers, in order: no lock-out,
// more rows cleared, a lower resting position, a lower action index.
type Greedy struct{}

// Act returns the best previewed action.
func (Greedy) Act(e *engine.Engine) int {
	best := -1
	var bestOut engine.Outcome

	for a := 0; a < e.LegalActions(); a++ {
		out, err := e.Preview(a)
		if err != nil {
			continue
		}
		if best < 0 || better(out, bestOut) {
			best, bestOut = a, out
		}
	}

	if best < 0 {
		return 0
	}
	return best
}

func better(a, b engine.Outcome) bool {
	if a.LockOut != b.LockOut {
		return !a.LockOut
	}
	if a.RowsCleared != b.RowsCleared {
		return a.RowsCleared > b.RowsCleared
	}
	return a.Top > b.Top
}
