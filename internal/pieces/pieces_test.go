package pieces

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForSizeUnknown(t *testing.T) {
	for _, size := range []int{-1, 0, 5, 12} {
		_, err := ForSize(size)
		if !errors.Is(err, ErrUnknownPieceSize) {
			t.Errorf("ForSize(%d) err = %v, want ErrUnknownPieceSize", size, err)
		}
	}
}

func TestShapeCounts(t *testing.T) {
	tests := []struct {
		size  int
		count int
		names []string
	}{
		{1, 1, []string{"O"}},
		{2, 1, []string{"I"}},
		{3, 2, []string{"I", "L"}},
		{4, 7, []string{"I", "L", "O", "T", "J", "S", "Z"}},
	}

	for _, tt := range tests {
		lib, err := ForSize(tt.size)
		require.NoError(t, err)
		assert.Equal(t, tt.size, lib.Size())
		require.Equal(t, tt.count, lib.Count())

		for i, name := range tt.names {
			s, ok := lib.Shape(i + 1)
			require.True(t, ok)
			assert.Equal(t, i+1, s.ID)
			assert.Equal(t, name, s.Name)
		}
		_, ok := lib.Shape(tt.count + 1)
		assert.False(t, ok)
		_, ok = lib.Shape(0)
		assert.False(t, ok)
	}
}

func TestShapeGeometry(t *testing.T) {
	for size := MinSize; size <= MaxSize; size++ {
		lib, err := ForSize(size)
		require.NoError(t, err)

		for _, s := range lib.Shapes(0) {
			n := len(s.Rotations)
			assert.Contains(t, []int{1, 2, 4}, n, "size %d shape %s", size, s.Name)

			for r, rot := range s.Rotations {
				assert.Len(t, rot, size, "size %d shape %s rotation %d", size, s.Name, r)

				seen := make(map[Offset]bool)
				for _, off := range rot {
					assert.False(t, seen[off], "duplicate block %v in %s/%d", off, s.Name, r)
					seen[off] = true
				}
				assert.True(t, seen[Offset{}], "%s/%d must include the anchor block", s.Name, r)
			}
		}
	}
}

func TestSpan(t *testing.T) {
	lib, _ := ForSize(4)
	tShape, _ := lib.Shape(4)

	minDX, maxDX := tShape.Span(0)
	assert.Equal(t, -1, minDX)
	assert.Equal(t, 1, maxDX)

	minDX, maxDX = tShape.Span(1)
	assert.Equal(t, 0, minDX)
	assert.Equal(t, 1, maxDX)
}

func TestMaxPlacements(t *testing.T) {
	const width = 10
	tests := []struct {
		size int
		want int
	}{
		{1, width},
		{2, 2*width - 1},
		{3, 4*width - 4},
		{4, 4*width - 6},
	}

	for _, tt := range tests {
		lib, _ := ForSize(tt.size)
		assert.Equal(t, tt.want, lib.MaxPlacements(width, 0), "size %d", tt.size)
	}
}

func TestPlacementsNarrowGrid(t *testing.T) {
	lib, _ := ForSize(4)
	iShape, _ := lib.Shape(1)

	// Only the vertical rotation fits in a 3-wide grid.
	assert.Equal(t, 3, iShape.Placements(3))
	assert.Equal(t, 0, iShape.Placements(0))
}

func TestRandomIsSeededAndBounded(t *testing.T) {
	lib, _ := ForSize(4)

	draw := func(seed int64, count int) []int {
		rng := rand.New(rand.NewSource(seed))
		ids := make([]int, 200)
		for i := range ids {
			ids[i] = lib.Random(rng, count).ID
		}
		return ids
	}

	assert.Equal(t, draw(42, 7), draw(42, 7))

	for _, id := range draw(7, 3) {
		assert.GreaterOrEqual(t, id, 1)
		assert.LessOrEqual(t, id, 3)
	}

	seen := make(map[int]bool)
	for _, id := range draw(1, 7) {
		seen[id] = true
	}
	assert.Len(t, seen, 7)
}
