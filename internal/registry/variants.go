package registry

import (
	"fmt"

	"github.com/vovakirdan/tetris-gym/internal/engine"
)

var pieceNames = map[int]string{
	1: "Monomino",
	2: "Domino",
	3: "Tromino",
	4: "Tetromino",
}

func init() {
	for _, dims := range [][2]int{{20, 10}, {10, 10}, {8, 6}} {
		for size := 1; size <= 4; size++ {
			Register(
				pieceNames[size]+" "+dimsTitle(dims[0], dims[1]),
				engine.Config{Height: dims[0], Width: dims[1], PieceSize: size},
			)
		}
	}
}

func dimsTitle(h, w int) string {
	return fmt.Sprintf("%dx%d", h, w)
}
