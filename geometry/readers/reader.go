package readers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/notargets/surfmesh/geometry"
)

var ErrUnsupportedFormat = errors.New("unsupported surface format")

// SurfaceReader loads a geometric file format into surfaces and their bounds.
// New formats are added as new implementations.
type SurfaceReader interface {
	Load(filename string) error
	Surfaces() []geometry.Surface
	Bounds() geometry.BoundingBox
	NumTriangles() int
	Validate() bool
	Scale(factor float64)
	Translate(offset geometry.Vector3)
	Rotate(axis geometry.Vector3, angle float64)
	ApplyTransform(m mgl64.Mat4)
}

// NewReaderForFile returns the reader matching the file extension
func NewReaderForFile(filename string) (SurfaceReader, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".stl":
		return NewSTLReader(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// ReadSurfaceFile reads a surface file based on extension
func ReadSurfaceFile(filename string) (SurfaceReader, error) {
	r, err := NewReaderForFile(filename)
	if err != nil {
		return nil, err
	}
	if err = r.Load(filename); err != nil {
		return nil, err
	}
	return r, nil
}

// surfaceSet carries the state shared by every reader: the loaded surfaces,
// their bounds and the post-load transforms
type surfaceSet struct {
	surfaces []geometry.Surface
	bounds   geometry.BoundingBox
	loaded   bool
}

func (ss *surfaceSet) reset() {
	ss.surfaces = nil
	ss.bounds = geometry.NewBoundingBox()
	ss.loaded = false
}

func (ss *surfaceSet) computeBounds() {
	ss.bounds = geometry.ComputeBounds(ss.surfaces)
}

// Surfaces returns a copy so callers cannot mutate the reader's state
func (ss *surfaceSet) Surfaces() []geometry.Surface {
	out := make([]geometry.Surface, len(ss.surfaces))
	for i, s := range ss.surfaces {
		out[i] = geometry.Surface{
			Name:      s.Name,
			Triangles: append([]geometry.Triangle(nil), s.Triangles...),
		}
	}
	return out
}

func (ss *surfaceSet) Bounds() geometry.BoundingBox { return ss.bounds }

func (ss *surfaceSet) NumTriangles() int { return geometry.CountTriangles(ss.surfaces) }

func (ss *surfaceSet) Scale(factor float64) {
	geometry.ScaleSurfaces(ss.surfaces, factor)
	ss.computeBounds()
}

func (ss *surfaceSet) Translate(offset geometry.Vector3) {
	geometry.TranslateSurfaces(ss.surfaces, offset)
	ss.computeBounds()
}

// Rotate turns the geometry by angle radians about axis through the origin
func (ss *surfaceSet) Rotate(axis geometry.Vector3, angle float64) {
	ss.ApplyTransform(geometry.RotationMatrix(axis, angle))
}

func (ss *surfaceSet) ApplyTransform(m mgl64.Mat4) {
	geometry.TransformSurfaces(ss.surfaces, m)
	ss.computeBounds()
}

// Validate checks that something was loaded and that no triangle is degenerate
func (ss *surfaceSet) Validate() bool {
	if !ss.loaded || len(ss.surfaces) == 0 {
		return false
	}
	for _, s := range ss.surfaces {
		if s.NumTriangles() == 0 {
			return false
		}
		for _, tri := range s.Triangles {
			if tri.Area() < DegenerateArea {
				return false
			}
		}
	}
	return true
}

// DegenerateArea is the area below which Validate rejects a triangle
const DegenerateArea = 1e-10
