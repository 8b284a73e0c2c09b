package engine

import (
	"fmt"
	"sync"

	"github.com/vovakirdan/tetris-gym/internal/pieces"
)

// ActionEntry is one placement: a horizontal translation for the anchor and
// a rotation variant index.
type ActionEntry struct {
	Translation int
	Rotation    int
}

// ActionTable maps each piece id to its ordered, capped list of placements.
// Index i of a piece's list is action index i. Immutable once built.
type ActionTable struct {
	cap     int
	entries map[int][]ActionEntry
}

// BuildActionTable discovers the legal placements of every piece in shapes
// by running the collision rules on a scratch grid of the given dimensions.
// Rotations are enumerated in declaration order, translations ascending
// within each rotation, stopping at limit entries per piece.
func BuildActionTable(width, height, buffer int, shapes []pieces.Shape, limit int) (*ActionTable, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: action count must be positive, got %d", ErrConfiguration, limit)
	}

	scratch := NewGrid(width, height)
	t := &ActionTable{
		cap:     limit,
		entries: make(map[int][]ActionEntry, len(shapes)),
	}

	for _, s := range shapes {
		list := make([]ActionEntry, 0, limit)

	rotations:
		for r, rot := range s.Rotations {
			minDX, maxDX := s.Span(r)
			for tx := -minDX; tx+maxDX < width; tx++ {
				if len(list) == limit {
					break rotations
				}

				start := Anchor{X: tx, Y: 0}
				if scratch.IsIllegal(rot, start) {
					continue
				}
				rest := scratch.HardDrop(rot, start)
				for _, o := range rot {
					if !scratch.InBounds(rest.X+o.DX, rest.Y+o.DY) {
						return nil, fmt.Errorf("%w: piece %s does not fit a %dx%d grid",
							ErrConfiguration, s.Name, width, height)
					}
				}
				scratch.Commit(rot, rest, s.ID, buffer)
				scratch.ClearPiece(rot, rest)

				list = append(list, ActionEntry{Translation: tx, Rotation: r})
			}
		}

		if len(list) == 0 {
			return nil, fmt.Errorf("%w: piece %s has no legal placement on a %dx%d grid",
				ErrConfiguration, s.Name, width, height)
		}
		t.entries[s.ID] = list
	}

	return t, nil
}

// Cap returns the global action-count cap the table was built with.
func (t *ActionTable) Cap() int {
	return t.cap
}

// Count returns the number of legal actions for a piece id.
func (t *ActionTable) Count(pieceID int) int {
	return len(t.entries[pieceID])
}

// Lookup returns the placement for a piece id and action index.
func (t *ActionTable) Lookup(pieceID, action int) (ActionEntry, bool) {
	list := t.entries[pieceID]
	if action < 0 || action >= len(list) {
		return ActionEntry{}, false
	}
	return list[action], true
}

// Entries returns a copy of a piece's placement list.
func (t *ActionTable) Entries(pieceID int) []ActionEntry {
	list := t.entries[pieceID]
	out := make([]ActionEntry, len(list))
	copy(out, list)
	return out
}

type tableKey struct {
	width, height, size, count, limit int
}

var (
	tables   = make(map[tableKey]*ActionTable)
	tablesMu sync.RWMutex
)

// SharedActionTable returns the action table for a configuration, building
// it on first use. Tables are shared read-only between engines.
func SharedActionTable(width, height int, lib *pieces.Library, count, limit int) (*ActionTable, error) {
	key := tableKey{width, height, lib.Size(), count, limit}

	tablesMu.RLock()
	t, ok := tables[key]
	tablesMu.RUnlock()
	if ok {
		return t, nil
	}

	tablesMu.Lock()
	defer tablesMu.Unlock()

	if t, ok := tables[key]; ok {
		return t, nil
	}
	t, err := BuildActionTable(width, height, lib.Size(), lib.Shapes(count), limit)
	if err != nil {
		return nil, err
	}
	tables[key] = t
	return t, nil
}
