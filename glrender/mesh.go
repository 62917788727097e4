package glrender

import (
	"io"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gsuper"
)

// GridMesh is a triangle mesh over a square grid of vertices such as the ones
// generated by [gsuper.Generator]. The vertex buffer is mutable and is meant to be
// overwritten every frame with [GridMesh.SetGrid] followed by [GridMesh.ComputeNormals].
// Faces are fixed at creation and wrap around in longitude.
type GridMesh struct {
	precision int
	// Vertices is the vertex buffer. Grid point g[x][y] is stored at index x + y*precision.
	Vertices []ms3.Vec
	// Faces indexes into Vertices. Winding is counter clockwise for outward facing normals of a UV sphere.
	Faces [][3]int
	// FaceNormals has unit normals for each face. Set by ComputeFaceNormals.
	FaceNormals []ms3.Vec
	// Normals has unit vertex normals. Set by ComputeVertexNormals.
	Normals []ms3.Vec
	// next face to be read by ReadTriangles.
	next int
}

// NewGridMesh allocates a mesh for a precision×precision grid with all vertices at the origin.
func NewGridMesh(precision int) (*GridMesh, error) {
	if precision < 2 {
		return nil, errBadPrecision
	}
	p := precision
	nv := p * p
	m := &GridMesh{
		precision: p,
		Vertices:  make([]ms3.Vec, nv),
		Normals:   make([]ms3.Vec, nv),
		Faces:     make([][3]int, 0, 2*(p-1)*(p-1)+2*(p-1)),
	}
	for y := 0; y < p-1; y++ {
		for x := 0; x < p-1; x++ {
			pos := x + y*p
			m.Faces = append(m.Faces,
				[3]int{pos, pos + p, pos + 1},
				[3]int{pos + 1, pos + p, pos + p + 1},
			)
		}
		// Close the seam between last and first longitude.
		m.Faces = append(m.Faces,
			[3]int{(y+1)*p - 1, (y+2)*p - 1, y * p},
			[3]int{y * p, (y+2)*p - 1, (y + 1) * p},
		)
	}
	m.FaceNormals = make([]ms3.Vec, len(m.Faces))
	return m, nil
}

// NewGridMeshFromGrid creates a mesh from a square grid and computes its normals.
func NewGridMeshFromGrid(g gsuper.Grid) (*GridMesh, error) {
	m, err := NewGridMesh(g.Precision())
	if err != nil {
		return nil, err
	}
	err = m.SetGrid(g)
	if err != nil {
		return nil, err
	}
	m.ComputeNormals()
	return m, nil
}

// Precision returns the side length of the grid the mesh was created for.
func (m *GridMesh) Precision() int {
	return m.precision
}

// SetGrid copies the grid's points positionally into the vertex buffer.
// Normals are not recomputed.
func (m *GridMesh) SetGrid(g gsuper.Grid) error {
	if m == nil {
		return errNilMesh
	}
	if g.Precision() != m.precision || !g.IsSquare() {
		return errGridMismatch
	}
	p := m.precision
	for y := 0; y < p; y++ {
		for x := 0; x < p; x++ {
			m.Vertices[x+y*p] = g[x][y]
		}
	}
	return nil
}

// Triangle returns the vertices of face i.
func (m *GridMesh) Triangle(i int) ms3.Triangle {
	f := m.Faces[i]
	return ms3.Triangle{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}
}

// ComputeFaceNormals sets FaceNormals to the unit normals of each face.
// Degenerate faces get a zero normal.
func (m *GridMesh) ComputeFaceNormals() {
	for i := range m.Faces {
		m.FaceNormals[i] = unit(triangleNormal(m.Triangle(i)))
	}
}

// ComputeVertexNormals sets Normals to the area weighted average of the normals
// of faces adjacent to each vertex.
func (m *GridMesh) ComputeVertexNormals() {
	clear(m.Normals)
	for i, f := range m.Faces {
		n := triangleNormal(m.Triangle(i))
		if !isFinite(n) {
			continue
		}
		m.Normals[f[0]] = ms3.Add(m.Normals[f[0]], n)
		m.Normals[f[1]] = ms3.Add(m.Normals[f[1]], n)
		m.Normals[f[2]] = ms3.Add(m.Normals[f[2]], n)
	}
	for i, n := range m.Normals {
		m.Normals[i] = unit(n)
	}
}

// ComputeNormals recomputes face normals and then vertex normals.
func (m *GridMesh) ComputeNormals() {
	m.ComputeFaceNormals()
	m.ComputeVertexNormals()
}

// Bounds returns the bounding box of the finite vertices of the mesh.
func (m *GridMesh) Bounds() ms3.Box {
	var bb ms3.Box
	first := true
	for _, v := range m.Vertices {
		if !isFinite(v) {
			continue
		}
		if first {
			bb = ms3.Box{Min: v, Max: v}
			first = false
			continue
		}
		bb.Min = ms3.MinElem(bb.Min, v)
		bb.Max = ms3.MaxElem(bb.Max, v)
	}
	return bb
}

// ReadTriangles implements [Renderer]. Triangles are read in face order. Once all faces
// are read io.EOF is returned until [GridMesh.Reset] is called. userData is unused.
func (m *GridMesh) ReadTriangles(dst []ms3.Triangle, userData any) (n int, err error) {
	if len(dst) == 0 {
		return 0, errShortTriangles
	}
	for n < len(dst) && m.next < len(m.Faces) {
		dst[n] = m.Triangle(m.next)
		n++
		m.next++
	}
	if m.next >= len(m.Faces) {
		return n, io.EOF
	}
	return n, nil
}

// Reset rewinds the triangle reader to the first face.
func (m *GridMesh) Reset() {
	m.next = 0
}
