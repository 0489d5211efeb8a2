// Package lookup implements piecewise-linear lookup tables used to turn
// device curves (flow meter frequency, heating curve points) into values.
package lookup

import (
	"errors"
	"sort"
)

// ErrEmptyTable is returned when a table is built without points.
var ErrEmptyTable = errors.New("lookup table needs at least one point")

// Point is a single (x, y) pair.
type Point struct {
	X int32
	Y int32
}

// Table is an immutable, x-sorted set of points.
// The zero value is an empty table whose Get always returns 0.
type Table struct {
	points []Point
}

// New builds a table from points. Points are sorted by x; when the same x
// appears more than once the first occurrence is kept.
func New(points ...Point) (*Table, error) {
	if len(points) == 0 {
		return nil, ErrEmptyTable
	}

	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	unique := sorted[:1]
	for _, p := range sorted[1:] {
		if p.X != unique[len(unique)-1].X {
			unique = append(unique, p)
		}
	}

	return &Table{points: unique}, nil
}

// Len returns the number of distinct points.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.points)
}

// Points returns a copy of the table points in ascending x order.
func (t *Table) Points() []Point {
	if t == nil {
		return nil
	}
	out := make([]Point, len(t.points))
	copy(out, t.points)
	return out
}

// Get returns the value at key. Keys at or below the first point clamp to its
// y, keys above the last point are extrapolated along the last segment and
// everything in between is interpolated. Results are truncated toward zero.
func (t *Table) Get(key int32) int32 {
	if t == nil || len(t.points) == 0 {
		return 0
	}

	first := t.points[0]
	last := t.points[len(t.points)-1]

	if key <= first.X {
		return first.Y
	}
	if key == last.X {
		return last.Y
	}

	if key > last.X {
		if len(t.points) == 1 {
			return last.Y
		}
		lower := t.points[len(t.points)-2]
		return extrapolate(key, lower, last)
	}

	// First point with x strictly greater than key; always > 0 here.
	upper := sort.Search(len(t.points), func(i int) bool { return t.points[i].X > key })
	return interpolate(key, t.points[upper-1], t.points[upper])
}

func interpolate(x int32, p0, p1 Point) int32 {
	ratio := float32(x-p0.X) / float32(p1.X-p0.X)
	delta := float32(ratio * float32(p1.Y-p0.Y))
	return int32(float32(float32(p0.Y) + delta))
}

func extrapolate(x int32, p0, p1 Point) int32 {
	slope := float32(p1.Y-p0.Y) / float32(p1.X-p0.X)
	delta := float32(slope * float32(x-p1.X))
	return int32(float32(float32(p1.Y) + delta))
}
