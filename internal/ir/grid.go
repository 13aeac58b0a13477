package ir

// IlluminanceGrid is one illuminance map sample: Values[i][j] is the
// illuminance (lux) at X[i], Y[j].
type IlluminanceGrid struct {
	X      []float64   `json:"x"`
	Y      []float64   `json:"y"`
	Values [][]float64 `json:"values"`
}

// NewIlluminanceGrid returns a zero-filled grid over x and y.
func NewIlluminanceGrid(x, y []float64) IlluminanceGrid {
	values := make([][]float64, len(x))
	for i := range values {
		values[i] = make([]float64, len(y))
	}
	return IlluminanceGrid{
		X:      append([]float64(nil), x...),
		Y:      append([]float64(nil), y...),
		Values: values,
	}
}

// Size returns the grid dimensions (len(X), len(Y)).
func (g IlluminanceGrid) Size() (int, int) {
	return len(g.X), len(g.Y)
}

// At returns the value at X[i], Y[j].
func (g IlluminanceGrid) At(i, j int) float64 {
	return g.Values[i][j]
}

// Empty reports whether the grid has no cells.
func (g IlluminanceGrid) Empty() bool {
	return len(g.X) == 0 || len(g.Y) == 0
}
