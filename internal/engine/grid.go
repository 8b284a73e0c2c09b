package engine

import (
	"strconv"
	"strings"

	"github.com/vovakirdan/tetris-gym/internal/pieces"
)

// Anchor is the grid cell a piece's offsets are positioned against.
// Y=0 is the top row.
type Anchor struct {
	X, Y int
}

// Grid is the occupancy store. Cells are stored in row-major order:
// index = y*W + x. 0 is empty, k>0 is a block of piece k.
type Grid struct {
	W     int
	H     int
	Cells []int
}

// NewGrid creates an empty grid.
func NewGrid(w, h int) *Grid {
	return &Grid{
		W:     w,
		H:     h,
		Cells: make([]int, w*h),
	}
}

func (g *Grid) index(x, y int) int {
	return y*g.W + x
}

// InBounds returns true if (x, y) lies inside the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// Get returns the cell value at (x, y), or 0 when out of bounds.
func (g *Grid) Get(x, y int) int {
	if !g.InBounds(x, y) {
		return 0
	}
	return g.Cells[g.index(x, y)]
}

// Set writes a cell value. Out-of-bounds writes are ignored.
func (g *Grid) Set(x, y, v int) {
	if g.InBounds(x, y) {
		g.Cells[g.index(x, y)] = v
	}
}

// Row returns a copy of row y.
func (g *Grid) Row(y int) []int {
	row := make([]int, g.W)
	copy(row, g.Cells[y*g.W:(y+1)*g.W])
	return row
}

// Reset zeroes every cell.
func (g *Grid) Reset() {
	clear(g.Cells)
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]int, len(g.Cells))
	copy(cells, g.Cells)
	return &Grid{W: g.W, H: g.H, Cells: cells}
}

// Equal returns true if two grids have the same dimensions and contents.
func (g *Grid) Equal(other *Grid) bool {
	if g.W != other.W || g.H != other.H {
		return false
	}
	for i, v := range g.Cells {
		if v != other.Cells[i] {
			return false
		}
	}
	return true
}

// IsIllegal reports whether any block of the rotation, placed at a, is out
// of bounds or overlaps an occupied cell. Blocks above the top row are
// never illegal on their own.
func (g *Grid) IsIllegal(rot []pieces.Offset, a Anchor) bool {
	for _, o := range rot {
		x, y := a.X+o.DX, a.Y+o.DY
		if y < 0 {
			continue
		}
		if x < 0 || x >= g.W || y >= g.H || g.Cells[g.index(x, y)] != 0 {
			return true
		}
	}
	return false
}

// HardDrop moves the anchor down one row at a time until the piece becomes
// illegal, then backs off one row. Only Y changes.
func (g *Grid) HardDrop(rot []pieces.Offset, a Anchor) Anchor {
	// Every shape contains its anchor block, so y >= H is always illegal.
	for limit := g.H + len(rot); limit >= 0; limit-- {
		if g.IsIllegal(rot, a) {
			break
		}
		a.Y++
	}
	a.Y--
	return a
}

// Commit writes id into every block of the rotation at a and reports whether
// any block sits in rows [0, buffer). Blocks above the grid are not written
// and always count as inside the buffer.
func (g *Grid) Commit(rot []pieces.Offset, a Anchor, id, buffer int) bool {
	inBuffer := false
	for _, o := range rot {
		x, y := a.X+o.DX, a.Y+o.DY
		if y < buffer {
			inBuffer = true
		}
		g.Set(x, y, id)
	}
	return inBuffer
}

// ClearPiece zeroes the cells a committed rotation occupies.
func (g *Grid) ClearPiece(rot []pieces.Offset, a Anchor) {
	for _, o := range rot {
		g.Set(a.X+o.DX, a.Y+o.DY, 0)
	}
}

// RowFull returns true if every cell in row y is occupied.
func (g *Grid) RowFull(y int) bool {
	for x := 0; x < g.W; x++ {
		if g.Cells[g.index(x, y)] == 0 {
			return false
		}
	}
	return true
}

// ClearRows removes full rows at or below row buffer and compacts the
// survivors downward. Rows [0, buffer) are zero afterwards regardless of
// their previous contents. Returns the number of rows removed.
func (g *Grid) ClearRows(buffer int) int {
	next := make([]int, len(g.Cells))
	cleared := 0
	dst := g.H - 1

	for y := g.H - 1; y >= buffer; y-- {
		if g.RowFull(y) {
			cleared++
			continue
		}
		copy(next[dst*g.W:(dst+1)*g.W], g.Cells[y*g.W:(y+1)*g.W])
		dst--
	}

	g.Cells = next
	return cleared
}

// Occupancy returns the binarized grid flattened column by column
// (x outer, y inner).
func (g *Grid) Occupancy() []int {
	out := make([]int, 0, g.W*g.H)
	for x := 0; x < g.W; x++ {
		for y := 0; y < g.H; y++ {
			if g.Cells[g.index(x, y)] != 0 {
				out = append(out, 1)
			} else {
				out = append(out, 0)
			}
		}
	}
	return out
}

// String renders the grid as rows of piece ids, '.' for empty cells.
func (g *Grid) String() string {
	var b strings.Builder
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			v := g.Cells[g.index(x, y)]
			if v == 0 {
				b.WriteByte('.')
			} else {
				b.WriteString(strconv.Itoa(v))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
