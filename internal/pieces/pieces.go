// Package pieces holds the immutable piece geometry tables.
// Each piece size has its own ordered shape set; a shape carries its rotation
// variants as block offsets relative to an anchor (dy grows downward).
package pieces

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrUnknownPieceSize is returned when no shape set is defined for a size.
var ErrUnknownPieceSize = errors.New("pieces: unknown piece size")

// MinSize and MaxSize bound the supported piece sizes.
const (
	MinSize = 1
	MaxSize = 4
)

// Offset is a block position relative to the piece anchor.
type Offset struct {
	DX, DY int
}

// Shape is one piece type with its rotation variants in declaration order.
type Shape struct {
	ID        int
	Name      string
	Rotations [][]Offset
}

// Rotation returns the offsets of a rotation variant.
func (s Shape) Rotation(r int) []Offset {
	return s.Rotations[r]
}

// Span returns the min and max DX of a rotation variant.
func (s Shape) Span(r int) (minDX, maxDX int) {
	rot := s.Rotations[r]
	minDX, maxDX = rot[0].DX, rot[0].DX
	for _, o := range rot[1:] {
		if o.DX < minDX {
			minDX = o.DX
		}
		if o.DX > maxDX {
			maxDX = o.DX
		}
	}
	return minDX, maxDX
}

// Placements returns how many in-bounds translations each rotation of the
// shape admits on a grid of the given width, summed over rotations.
func (s Shape) Placements(width int) int {
	total := 0
	for r := range s.Rotations {
		minDX, maxDX := s.Span(r)
		if n := width - (maxDX - minDX); n > 0 {
			total += n
		}
	}
	return total
}

// Library is the ordered shape set for one piece size.
// It is read-only and safe to share between engines.
type Library struct {
	size   int
	shapes []Shape
}

// ForSize returns the library for a piece size.
func ForSize(size int) (*Library, error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPieceSize, size)
	}
	return libraries[size-1], nil
}

// Size returns the piece size (blocks per piece).
func (l *Library) Size() int {
	return l.size
}

// Count returns the number of shapes defined for this size.
func (l *Library) Count() int {
	return len(l.shapes)
}

// Shape looks up a shape by its 1-based id.
func (l *Library) Shape(id int) (Shape, bool) {
	if id < 1 || id > len(l.shapes) {
		return Shape{}, false
	}
	return l.shapes[id-1], true
}

// Shapes returns the first count shapes in id order.
func (l *Library) Shapes(count int) []Shape {
	if count <= 0 || count > len(l.shapes) {
		count = len(l.shapes)
	}
	out := make([]Shape, count)
	copy(out, l.shapes[:count])
	return out
}

// Random picks one of the first count shapes uniformly.
func (l *Library) Random(rng *rand.Rand, count int) Shape {
	if count <= 0 || count > len(l.shapes) {
		count = len(l.shapes)
	}
	return l.shapes[rng.Intn(count)]
}

// MaxPlacements returns the largest per-shape placement count over the first
// count shapes. It is the natural action cap for a grid width.
func (l *Library) MaxPlacements(width, count int) int {
	best := 0
	for _, s := range l.Shapes(count) {
		if n := s.Placements(width); n > best {
			best = n
		}
	}
	return best
}
