// Package engine implements the simplified falling-block simulation: an
// occupancy grid, capped placement tables, hard drops, row clearing below a
// spawn buffer and lock-out termination.
//
// An Engine is single-threaded and not reentrant. Distinct engines share no
// mutable state and may be stepped in parallel.
package engine

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/tetris-gym/internal/pieces"
)

// Config holds the construction parameters of an Engine.
type Config struct {
	Width       int // Grid width in cells
	Height      int // Grid height in cells, spawn buffer included
	PieceSize   int // Blocks per piece; also the spawn buffer height
	PieceCount  int // Shapes in play, 0 = all shapes for the size
	ActionCount int // Global action cap, 0 = largest per-piece placement count
}

// State is the episode state.
type State int

const (
	StateReady State = iota
	StateTerminated
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Piece describes the current falling piece.
type Piece struct {
	ID       int
	Name     string
	Rotation int
	Anchor   Anchor
}

// StepInfo carries auxiliary step data.
type StepInfo struct {
	RowsCleared int
}

// StepResult is returned by Step.
type StepResult struct {
	Observation Observation
	Reward      float64
	Done        bool
	Info        StepInfo
}

// Engine owns the live grid and the episode state.
type Engine struct {
	cfg   Config
	lib   *pieces.Library
	table *ActionTable
	rng   *rand.Rand

	grid   *Grid
	piece  pieces.Shape
	rot    int
	anchor Anchor

	state   State
	score   int
	history []int
	steps   uint64
}

// New validates cfg, builds (or reuses) the action table and starts the
// first episode. rng drives piece selection; nil means a source seeded
// with 0.
func New(cfg Config, rng *rand.Rand) (*Engine, error) {
	cfg, lib, err := resolve(cfg)
	if err != nil {
		return nil, err
	}

	table, err := SharedActionTable(cfg.Width, cfg.Height, lib, cfg.PieceCount, cfg.ActionCount)
	if err != nil {
		return nil, err
	}

	if rng == nil {
		rng = rand.New(rand.NewSource(0))
	}

	e := &Engine{
		cfg:   cfg,
		lib:   lib,
		table: table,
		rng:   rng,
		grid:  NewGrid(cfg.Width, cfg.Height),
	}
	e.Reset()
	return e, nil
}

// resolve checks cfg and fills in defaults.
func resolve(cfg Config) (Config, *pieces.Library, error) {
	lib, err := pieces.ForSize(cfg.PieceSize)
	if err != nil {
		return cfg, nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if cfg.Width < 1 {
		return cfg, nil, fmt.Errorf("%w: width must be positive, got %d", ErrConfiguration, cfg.Width)
	}
	if cfg.Height <= cfg.PieceSize {
		return cfg, nil, fmt.Errorf("%w: height %d leaves no rows below the %d-row spawn buffer",
			ErrConfiguration, cfg.Height, cfg.PieceSize)
	}

	if cfg.PieceCount == 0 {
		cfg.PieceCount = lib.Count()
	}
	if cfg.PieceCount < 1 || cfg.PieceCount > lib.Count() {
		return cfg, nil, fmt.Errorf("%w: piece count %d outside [1, %d] for size %d",
			ErrConfiguration, cfg.PieceCount, lib.Count(), cfg.PieceSize)
	}

	if cfg.ActionCount == 0 {
		cfg.ActionCount = lib.MaxPlacements(cfg.Width, cfg.PieceCount)
	}
	if cfg.ActionCount < 1 {
		return cfg, nil, fmt.Errorf("%w: grid width %d admits no placement for size %d",
			ErrConfiguration, cfg.Width, cfg.PieceSize)
	}

	return cfg, lib, nil
}

// Reset clears the grid and score, spawns a new piece and returns the first
// observation. The final score history is kept.
func (e *Engine) Reset() Observation {
	e.grid.Reset()
	e.score = 0
	e.steps = 0
	e.state = StateReady
	e.spawn()
	return e.observe()
}

// spawn draws the next piece and moves the anchor to the spawn position.
func (e *Engine) spawn() {
	e.piece = e.lib.Random(e.rng, e.cfg.PieceCount)
	e.rot = 0
	e.anchor = Anchor{X: e.cfg.Width/2 - 1, Y: e.cfg.PieceSize - 1}
}

// Step places the current piece using the given action index.
//
// The piece is hard dropped and committed. If any block settles inside the
// spawn buffer the episode terminates with zero reward before any row is
// cleared. Otherwise full rows are cleared, the reward is the number of rows
// cleared and the next piece spawns.
func (e *Engine) Step(action int) (StepResult, error) {
	if e.state == StateTerminated {
		return StepResult{}, ErrInvalidState
	}

	entry, ok := e.table.Lookup(e.piece.ID, action)
	if !ok {
		return StepResult{}, fmt.Errorf("%w: index %d, piece %s has %d actions",
			ErrIllegalAction, action, e.piece.Name, e.table.Count(e.piece.ID))
	}

	e.steps++
	e.rot = entry.Rotation
	rot := e.piece.Rotation(e.rot)
	e.anchor = e.grid.HardDrop(rot, Anchor{X: entry.Translation, Y: e.cfg.PieceSize - 1})

	if e.grid.Commit(rot, e.anchor, e.piece.ID, e.cfg.PieceSize) {
		e.history = append(e.history, e.score)
		e.state = StateTerminated
		return StepResult{Observation: e.observe(), Reward: 0, Done: true}, nil
	}

	cleared := e.grid.ClearRows(e.cfg.PieceSize)
	e.score += cleared
	e.spawn()

	return StepResult{
		Observation: e.observe(),
		Reward:      float64(cleared),
		Info:        StepInfo{RowsCleared: cleared},
	}, nil
}

// Outcome describes a simulated placement.
type Outcome struct {
	Anchor      Anchor // Resting anchor
	Top         int    // Smallest row index among the settled blocks
	RowsCleared int    // 0 when LockOut is set
	LockOut     bool
}

// Preview simulates an action for the current piece on a copy of the grid.
// The engine is not modified.
func (e *Engine) Preview(action int) (Outcome, error) {
	if e.state == StateTerminated {
		return Outcome{}, ErrInvalidState
	}
	entry, ok := e.table.Lookup(e.piece.ID, action)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: index %d, piece %s has %d actions",
			ErrIllegalAction, action, e.piece.Name, e.table.Count(e.piece.ID))
	}

	g := e.grid.Clone()
	rot := e.piece.Rotation(entry.Rotation)
	a := g.HardDrop(rot, Anchor{X: entry.Translation, Y: e.cfg.PieceSize - 1})

	out := Outcome{Anchor: a, Top: a.Y}
	for _, o := range rot {
		out.Top = min(out.Top, a.Y+o.DY)
	}
	if g.Commit(rot, a, e.piece.ID, e.cfg.PieceSize) {
		out.LockOut = true
		return out, nil
	}
	out.RowsCleared = g.ClearRows(e.cfg.PieceSize)
	return out, nil
}

// Config returns the resolved configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Actions returns the engine's action table.
func (e *Engine) Actions() *ActionTable {
	return e.table
}

// LegalActionCount returns the global action cap.
func (e *Engine) LegalActionCount() int {
	return e.cfg.ActionCount
}

// LegalActions returns how many action indices are valid for the current
// piece. It never exceeds LegalActionCount.
func (e *Engine) LegalActions() int {
	return e.table.Count(e.piece.ID)
}

// Score returns the rows cleared in the current episode.
func (e *Engine) Score() int {
	return e.score
}

// FinalScoreHistory returns the final score of every terminated episode in
// order.
func (e *Engine) FinalScoreHistory() []int {
	out := make([]int, len(e.history))
	copy(out, e.history)
	return out
}

// State returns the episode state.
func (e *Engine) State() State {
	return e.state
}

// CurrentPiece returns the current piece and its anchor.
func (e *Engine) CurrentPiece() Piece {
	return Piece{
		ID:       e.piece.ID,
		Name:     e.piece.Name,
		Rotation: e.rot,
		Anchor:   e.anchor,
	}
}

// PieceName returns the name of the current piece.
func (e *Engine) PieceName() string {
	return e.piece.Name
}

// Grid returns a copy of the live grid with piece ids intact.
func (e *Engine) Grid() *Grid {
	return e.grid.Clone()
}

// Observation returns the current observation without stepping.
func (e *Engine) Observation() Observation {
	return e.observe()
}

func (e *Engine) observe() Observation {
	return NewObservation(e.grid, e.piece.ID)
}
