package engine

// Observation is the externally consumed state vector: the binarized grid
// flattened column by column, followed by the current piece id.
type Observation []int

// NewObservation builds the observation for a grid and piece id.
func NewObservation(g *Grid, pieceID int) Observation {
	return Observation(append(g.Occupancy(), pieceID))
}

// PieceID returns the trailing piece id.
func (o Observation) PieceID() int {
	if len(o) == 0 {
		return 0
	}
	return o[len(o)-1]
}

// Occupancy returns the grid part of the observation.
func (o Observation) Occupancy() []int {
	if len(o) == 0 {
		return nil
	}
	return o[:len(o)-1]
}

