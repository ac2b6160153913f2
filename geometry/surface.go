package geometry

import "math"

// Triangle is a surface facet. The normal is stored rather than always derived
// so that callers can override it, area and centroid always come from the vertices.
type Triangle struct {
	Vertices [3]Vector3 // Winding order is preserved
	Normal   Vector3
}

// NewTriangle creates a triangle and derives its normal from the winding order
func NewTriangle(v0, v1, v2 Vector3) (tri Triangle) {
	tri = Triangle{Vertices: [3]Vector3{v0, v1, v2}}
	tri.ComputeNormal()
	return
}

// FacetNormal returns the unit normal implied by the vertex winding
func (tri Triangle) FacetNormal() Vector3 {
	var (
		e1 = tri.Vertices[1].Sub(tri.Vertices[0])
		e2 = tri.Vertices[2].Sub(tri.Vertices[0])
	)
	return e1.Cross(e2).Normalize()
}

// ComputeNormal replaces the stored normal with the facet normal
func (tri *Triangle) ComputeNormal() {
	tri.Normal = tri.FacetNormal()
}

func (tri Triangle) Centroid() Vector3 {
	return tri.Vertices[0].Add(tri.Vertices[1]).Add(tri.Vertices[2]).Scale(1. / 3.)
}

func (tri Triangle) Area() float64 {
	var (
		e1 = tri.Vertices[1].Sub(tri.Vertices[0])
		e2 = tri.Vertices[2].Sub(tri.Vertices[0])
	)
	return 0.5 * e1.Cross(e2).Norm()
}

// Surface is a named, insertion ordered set of triangles
type Surface struct {
	Name      string
	Triangles []Triangle
}

func NewSurface(name string) Surface {
	return Surface{Name: name}
}

func (s *Surface) AddTriangle(tri Triangle) {
	s.Triangles = append(s.Triangles, tri)
}

func (s Surface) NumTriangles() int { return len(s.Triangles) }

// Area returns the summed triangle area
func (s Surface) Area() (area float64) {
	for _, tri := range s.Triangles {
		area += tri.Area()
	}
	return
}

// Bounds returns the bounding box of the surface vertices
func (s Surface) Bounds() (bb BoundingBox) {
	bb = NewBoundingBox()
	for _, tri := range s.Triangles {
		for _, v := range tri.Vertices {
			bb.Expand(v)
		}
	}
	return
}

// CountTriangles totals the triangles over a set of surfaces
func CountTriangles(surfaces []Surface) (count int) {
	for _, s := range surfaces {
		count += s.NumTriangles()
	}
	return
}

// TriangleAt returns the triangle with the given global index, where indices
// run over surfaces in order and then over triangles within each surface
func TriangleAt(surfaces []Surface, index int) (tri Triangle, ok bool) {
	if index < 0 {
		return
	}
	for _, s := range surfaces {
		if index < len(s.Triangles) {
			return s.Triangles[index], true
		}
		index -= len(s.Triangles)
	}
	return
}

// BoundingBox is an axis aligned box. A new box is inverted so that the first
// expansion establishes real bounds, its size is meaningless until then.
type BoundingBox struct {
	Min, Max Vector3
}

func NewBoundingBox() BoundingBox {
	inf := math.Inf(1)
	return BoundingBox{
		Min: Vector3{X: inf, Y: inf, Z: inf},
		Max: Vector3{X: -inf, Y: -inf, Z: -inf},
	}
}

// Expand grows the box to include p
func (bb *BoundingBox) Expand(p Vector3) {
	bb.Min.X = min(bb.Min.X, p.X)
	bb.Min.Y = min(bb.Min.Y, p.Y)
	bb.Min.Z = min(bb.Min.Z, p.Z)
	bb.Max.X = max(bb.Max.X, p.X)
	bb.Max.Y = max(bb.Max.Y, p.Y)
	bb.Max.Z = max(bb.Max.Z, p.Z)
}

// Merge grows the box to include other, an empty other is ignored
func (bb *BoundingBox) Merge(other BoundingBox) {
	if other.IsEmpty() {
		return
	}
	bb.Expand(other.Min)
	bb.Expand(other.Max)
}

// IsEmpty reports whether no point has been merged yet
func (bb BoundingBox) IsEmpty() bool {
	return bb.Min.X > bb.Max.X || bb.Min.Y > bb.Max.Y || bb.Min.Z > bb.Max.Z
}

func (bb BoundingBox) Center() Vector3 { return bb.Min.Add(bb.Max).Scale(0.5) }

func (bb BoundingBox) Size() Vector3 { return bb.Max.Sub(bb.Min) }

func (bb BoundingBox) Volume() float64 {
	s := bb.Size()
	return s.X * s.Y * s.Z
}

func (bb BoundingBox) Diagonal() float64 { return bb.Size().Norm() }

// ComputeBounds returns the bounding box over all triangles of all surfaces
func ComputeBounds(surfaces []Surface) (bb BoundingBox) {
	bb = NewBoundingBox()
	for _, s := range surfaces {
		bb.Merge(s.Bounds())
	}
	return
}
