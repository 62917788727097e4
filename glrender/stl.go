package glrender

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/soypat/geometry/ms3"
)

const (
	stlHeaderSize   = 80
	stlTriangleSize = 50 // 12 float32 + uint16 attribute count.
	// stlMaxTriangles bounds allocations when reading untrusted files.
	stlMaxTriangles = 1 << 26
)

var stlHeader = [stlHeaderSize]byte{'g', 's', 'u', 'p', 'e', 'r', ' ', 'b', 'i', 'n', 'a', 'r', 'y', ' ', 'S', 'T', 'L'}

// WriteBinarySTL writes triangles to w in binary STL format. Facet normals are
// calculated from vertex winding. It returns the amount of bytes written.
func WriteBinarySTL(w io.Writer, triangles []ms3.Triangle) (int, error) {
	if uint64(len(triangles)) > math.MaxUint32 {
		return 0, errors.New("too many triangles for STL")
	}
	var hdr [stlHeaderSize + 4]byte
	copy(hdr[:], stlHeader[:])
	binary.LittleEndian.PutUint32(hdr[stlHeaderSize:], uint32(len(triangles)))
	n, err := w.Write(hdr[:])
	if err != nil {
		return n, err
	}
	var buf [stlTriangleSize]byte
	for _, t := range triangles {
		normal := unit(triangleNormal(t))
		putVec(buf[0:], normal)
		putVec(buf[12:], t[0])
		putVec(buf[24:], t[1])
		putVec(buf[36:], t[2])
		// Attribute byte count left as zero.
		buf[48], buf[49] = 0, 0
		ngot, err := w.Write(buf[:])
		n += ngot
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// ReadBinarySTL reads all triangles of a binary STL file. Facet normals stored in the file are discarded.
func ReadBinarySTL(r io.Reader) ([]ms3.Triangle, error) {
	var hdr [stlHeaderSize + 4]byte
	_, err := io.ReadFull(r, hdr[:])
	if err != nil {
		return nil, fmt.Errorf("reading STL header: %w", err)
	}
	count := binary.LittleEndian.Uint32(hdr[stlHeaderSize:])
	if count > stlMaxTriangles {
		return nil, fmt.Errorf("STL triangle count %d exceeds maximum %d", count, stlMaxTriangles)
	}
	triangles := make([]ms3.Triangle, count)
	var buf [stlTriangleSize]byte
	for i := range triangles {
		_, err = io.ReadFull(r, buf[:])
		if err != nil {
			return nil, fmt.Errorf("reading STL triangle %d of %d: %w", i, count, err)
		}
		triangles[i] = ms3.Triangle{getVec(buf[12:]), getVec(buf[24:]), getVec(buf[36:])}
	}
	return triangles, nil
}

func putVec(b []byte, v ms3.Vec) {
	_ = b[11]
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(v.X))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(v.Z))
}

func getVec(b []byte) ms3.Vec {
	_ = b[11]
	return ms3.Vec{
		X: math.Float32frombits(binary.LittleEndian.Uint32(b[0:])),
		Y: math.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
		Z: math.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
	}
}
