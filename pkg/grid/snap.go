package grid

import "math"

// Snap rounds a fractional cell coordinate to the nearest whole cell.
func Snap(v float64) int {
	return int(math.Round(v))
}

// SnapPoint rounds fractional cell coordinates to the nearest whole cell.
func SnapPoint(x, y float64) Point {
	return Point{X: Snap(x), Y: Snap(y)}
}

// CeilCell rounds a fractional cell coordinate up to the next whole cell.
// Used when converting scene extents back to grid units so that everything
// inside the scene extent stays inside the grid rectangle.
func CeilCell(v float64) int {
	return int(math.Ceil(v))
}

// ToScene converts a cell coordinate to scene units for the given cell size.
func ToScene(v int, cell float32) float32 {
	return float32(v) * cell
}

// FromScene converts a scene coordinate to fractional cell units.
func FromScene(v float32, cell float32) float64 {
	return float64(v) / float64(cell)
}
