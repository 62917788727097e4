package gsuper

import (
	"errors"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// Grid is a two dimensional grid of points indexed by longitude and then latitude: grid[lon][lat].
// Grids returned by [Generator] are square with side length equal to the generator precision.
type Grid [][]ms3.Vec

var errNotSquare = errors.New("grid is not square")

// Precision returns the amount of longitude divisions of the grid.
func (g Grid) Precision() int {
	return len(g)
}

// At returns the point at longitude index lon and latitude index lat.
func (g Grid) At(lon, lat int) ms3.Vec {
	return g[lon][lat]
}

// IsSquare reports whether every longitude column has as many points as there are columns.
func (g Grid) IsSquare() bool {
	for _, col := range g {
		if len(col) != len(g) {
			return false
		}
	}
	return true
}

// AppendFlat appends the grid's points to dst in vertex buffer order, that is
// the point g[x][y] lands on index x + y*precision of the appended section.
func (g Grid) AppendFlat(dst []ms3.Vec) ([]ms3.Vec, error) {
	if !g.IsSquare() {
		return dst, errNotSquare
	}
	p := len(g)
	for y := 0; y < p; y++ {
		for x := 0; x < p; x++ {
			dst = append(dst, g[x][y])
		}
	}
	return dst, nil
}

// Bounds returns the smallest box containing all non-NaN points of the grid.
// An empty grid returns the zero box.
func (g Grid) Bounds() ms3.Box {
	inf := math32.Inf(1)
	bb := ms3.Box{
		Min: ms3.Vec{X: inf, Y: inf, Z: inf},
		Max: ms3.Vec{X: -inf, Y: -inf, Z: -inf},
	}
	found := false
	for _, col := range g {
		for _, p := range col {
			if math32.IsNaN(p.X) || math32.IsNaN(p.Y) || math32.IsNaN(p.Z) {
				continue
			}
			found = true
			bb.Min = ms3.MinElem(bb.Min, p)
			bb.Max = ms3.MaxElem(bb.Max, p)
		}
	}
	if !found {
		return ms3.Box{}
	}
	return bb
}

// Equal reports whether both grids have the same shape and exactly the same points.
func (g Grid) Equal(other Grid) bool {
	if len(g) != len(other) {
		return false
	}
	for i, col := range g {
		if len(col) != len(other[i]) {
			return false
		}
		for j, p := range col {
			if p != other[i][j] {
				return false
			}
		}
	}
	return true
}
