package pieces

// o builds an offset list from flat dx, dy pairs.
func o(pairs ...int) []Offset {
	out := make([]Offset, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Offset{DX: pairs[i], DY: pairs[i+1]})
	}
	return out
}

// Shape sets per size, indexed by size-1. Symmetric rotations are listed once.
var libraries = [MaxSize]*Library{
	{size: 1, shapes: []Shape{
		{ID: 1, Name: "O", Rotations: [][]Offset{
			o(0, 0),
		}},
	}},
	{size: 2, shapes: []Shape{
		{ID: 1, Name: "I", Rotations: [][]Offset{
			o(0, 0, 0, -1),
			o(0, 0, 1, 0),
		}},
	}},
	{size: 3, shapes: []Shape{
		{ID: 1, Name: "I", Rotations: [][]Offset{
			o(0, 0, 0, -1, 0, -2),
			o(0, 0, 1, 0, 2, 0),
		}},
		{ID: 2, Name: "L", Rotations: [][]Offset{
			o(0, 0, 1, 0, 0, -1),
			o(0, 0, 0, 1, 1, 0),
			o(0, 0, -1, 0, 0, 1),
			o(0, 0, 0, -1, -1, 0),
		}},
	}},
	{size: 4, shapes: []Shape{
		{ID: 1, Name: "I", Rotations: [][]Offset{
			o(0, 0, 0, -1, 0, -2, 0, -3),
			o(0, 0, 1, 0, 2, 0, 3, 0),
		}},
		{ID: 2, Name: "L", Rotations: [][]Offset{
			o(0, 0, 1, 0, 0, -1, 0, -2),
			o(0, 0, 0, 1, 1, 0, 2, 0),
			o(0, 0, -1, 0, 0, 1, 0, 2),
			o(0, 0, 0, -1, -1, 0, -2, 0),
		}},
		{ID: 3, Name: "O", Rotations: [][]Offset{
			o(0, 0, 0, -1, -1, 0, -1, -1),
		}},
		{ID: 4, Name: "T", Rotations: [][]Offset{
			o(0, 0, -1, 0, 1, 0, 0, -1),
			o(0, 0, 0, -1, 0, 1, 1, 0),
			o(0, 0, 1, 0, -1, 0, 0, 1),
			o(0, 0, 0, 1, 0, -1, -1, 0),
		}},
		{ID: 5, Name: "J", Rotations: [][]Offset{
			o(0, 0, -1, 0, 0, -1, 0, -2),
			o(0, 0, 0, -1, 1, 0, 2, 0),
			o(0, 0, 1, 0, 0, 1, 0, 2),
			o(0, 0, 0, 1, -1, 0, -2, 0),
		}},
		{ID: 6, Name: "S", Rotations: [][]Offset{
			o(0, 0, -1, 0, 0, -1, 1, -1),
			o(0, 0, 0, -1, 1, 0, 1, 1),
		}},
		{ID: 7, Name: "Z", Rotations: [][]Offset{
			o(0, 0, -1, -1, 0, -1, 1, 0),
			o(0, 0, 1, -1, 1, 0, 0, 1),
		}},
	}},
}
