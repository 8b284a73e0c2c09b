package engine

// Snapshot captures the complete engine state for determinism testing and
// replay comparison.
type Snapshot struct {
	Steps   uint64 // Successful steps in the current episode
	State   string
	Score   int
	Piece   Piece
	Cells   []int
	History []int
}

// Snapshot returns the current engine snapshot.
func (e *Engine) Snapshot() Snapshot {
	cells := make([]int, len(e.grid.Cells))
	copy(cells, e.grid.Cells)

	return Snapshot{
		Steps:   e.steps,
		State:   e.state.String(),
		Score:   e.score,
		Piece:   e.CurrentPiece(),
		Cells:   cells,
		History: e.FinalScoreHistory(),
	}
}
