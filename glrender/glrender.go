package glrender

import (
	"errors"
	"io"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

var (
	errNilMesh        = errors.New("nil mesh")
	errBadPrecision   = errors.New("mesh precision must be at least 2")
	errGridMismatch   = errors.New("grid precision does not match mesh precision")
	errShortTriangles = errors.New("triangle buffer too short")
)

// Renderer streams triangles in the fashion of an [io.Reader].
// ReadTriangles returns io.EOF once all triangles have been read.
type Renderer interface {
	ReadTriangles(dst []ms3.Triangle, userData any) (n int, err error)
}

// RenderAll reads the full contents of a Renderer and returns the slice read.
// It does not return error on io.EOF, like the io.ReadAll implementation.
func RenderAll(r Renderer, userData any) ([]ms3.Triangle, error) {
	const startSize = 4096
	var err error
	var nt int
	result := make([]ms3.Triangle, 0, startSize)
	buf := make([]ms3.Triangle, startSize)
	for {
		nt, err = r.ReadTriangles(buf, userData)
		if err == nil || err == io.EOF {
			result = append(result, buf[:nt]...)
		}
		if err != nil {
			break
		}
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}

// Transform places a mesh in the world. Rotation holds Euler angles in radians
// applied in Z, Y, X order around the mesh origin before the translation by Position.
type Transform struct {
	Rotation ms3.Vec
	Position ms3.Vec
}

// Apply transforms a point from mesh space to world space.
func (tf Transform) Apply(p ms3.Vec) ms3.Vec {
	return ms3.Add(tf.ApplyDir(p), tf.Position)
}

// ApplyDir rotates a direction from mesh space to world space. Translation is not applied.
func (tf Transform) ApplyDir(v ms3.Vec) ms3.Vec {
	// Rotation matrix is Rx*Ry*Rz so Z rotation goes first.
	v = rotateZ(v, tf.Rotation.Z)
	v = rotateY(v, tf.Rotation.Y)
	v = rotateX(v, tf.Rotation.X)
	return v
}

func rotateX(v ms3.Vec, a float32) ms3.Vec {
	s, c := math32.Sincos(a)
	return ms3.Vec{X: v.X, Y: c*v.Y - s*v.Z, Z: s*v.Y + c*v.Z}
}

func rotateY(v ms3.Vec, a float32) ms3.Vec {
	s, c := math32.Sincos(a)
	return ms3.Vec{X: c*v.X + s*v.Z, Y: v.Y, Z: -s*v.X + c*v.Z}
}

func rotateZ(v ms3.Vec, a float32) ms3.Vec {
	s, c := math32.Sincos(a)
	return ms3.Vec{X: c*v.X - s*v.Y, Y: s*v.X + c*v.Y, Z: v.Z}
}

// triangleNormal returns the unnormalized normal of t following the right hand rule.
// Its length is twice the triangle's area.
func triangleNormal(t ms3.Triangle) ms3.Vec {
	return ms3.Cross(ms3.Sub(t[1], t[0]), ms3.Sub(t[2], t[0]))
}

// unit returns v normalized or the zero vector if v has no well defined direction.
func unit(v ms3.Vec) ms3.Vec {
	n := ms3.Norm(v)
	if n == 0 || math32.IsNaN(n) || math32.IsInf(n, 0) {
		return ms3.Vec{}
	}
	return ms3.Scale(1/n, v)
}

func isFinite(v ms3.Vec) bool {
	return !math32.IsNaN(v.X) && !math32.IsNaN(v.Y) && !math32.IsNaN(v.Z) &&
		!math32.IsInf(v.X, 0) && !math32.IsInf(v.Y, 0) && !math32.IsInf(v.Z, 0)
}
