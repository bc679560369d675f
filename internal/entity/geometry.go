package entity

type Cell struct {
	X int
	Z int
}

// Rect is an inclusive cell rectangle describing a footprint.
type Rect struct {
	MinX int
	MinZ int
	MaxX int
	MaxZ int
}

func RectAt(origin Cell, width, depth int) Rect {
	if width < 1 {
		width = 1
	}
	if depth < 1 {
		depth = 1
	}
	return Rect{MinX: origin.X, MinZ: origin.Z, MaxX: origin.X + width - 1, MaxZ: origin.Z + depth - 1}
}

func (r Rect) Contains(c Cell) bool {
	return c.X >= r.MinX && c.X <= r.MaxX && c.Z >= r.MinZ && c.Z <= r.MaxZ
}

// Cells lists every cell of the rectangle in row-major order.
func (r Rect) Cells() []Cell {
	if r.MaxX < r.MinX || r.MaxZ < r.MinZ {
		return nil
	}
	cells := make([]Cell, 0, (r.MaxX-r.MinX+1)*(r.MaxZ-r.MinZ+1))
	for z := r.MinZ; z <= r.MaxZ; z++ {
		for x := r.MinX; x <= r.MaxX; x++ {
			cells = append(cells, Cell{X: x, Z: z})
		}
	}
	return cells
}
