package validator

import (
	"github.com/notargets/surfmesh/geometry"
	"github.com/notargets/surfmesh/types"
)

/*
vertexIndex assigns dense indices to distinct vertex positions in first seen order. Positions are matched exactly
unless a merge pitch is set, in which case positions are snapped to a grid of that pitch before lookup. Snapping can
still separate two points closer than the pitch when they straddle a grid line.
*/
type vertexIndex struct {
	pitch     float64
	index     map[geometry.Vector3]int
	Positions []geometry.Vector3 // Position of the first vertex seen for each index
}

func newVertexIndex(pitch float64) *vertexIndex {
	return &vertexIndex{
		pitch: pitch,
		index: make(map[geometry.Vector3]int),
	}
}

func (vi *vertexIndex) Get(v geometry.Vector3) (ind int) {
	var (
		key = v.Snap(vi.pitch)
		ok  bool
	)
	if ind, ok = vi.index[key]; ok {
		return
	}
	ind = len(vi.Positions)
	vi.index[key] = ind
	vi.Positions = append(vi.Positions, v)
	return
}

// edgeUse records one triangle's traversal of an edge
type edgeUse struct {
	Triangle int           // Global triangle index
	Dir      types.EdgeInt // Direction in which the triangle winds through the edge
	Normal   geometry.Vector3
}

// topology is the vertex and edge incidence of a set of surfaces, built once per check
type topology struct {
	Vertices  *vertexIndex
	TriVerts  [][3]int // Vertex indices per global triangle
	Edges     map[types.EdgeKey][]edgeUse
	EdgeOrder []types.EdgeKey // Edges sorted by (v0, v1)
}

func buildTopology(surfaces []geometry.Surface, pitch float64) (tp *topology) {
	tp = &topology{
		Vertices: newVertexIndex(pitch),
		Edges:    make(map[types.EdgeKey][]edgeUse),
	}
	var triID int
	for _, s := range surfaces {
		for _, tri := range s.Triangles {
			var tv [3]int
			for i, v := range tri.Vertices {
				tv[i] = tp.Vertices.Get(v)
			}
			tp.TriVerts = append(tp.TriVerts, tv)
			for i := 0; i < 3; i++ {
				dir := types.NewEdgeInt([2]int{tv[i], tv[(i+1)%3]})
				ek := dir.GetKey()
				tp.Edges[ek] = append(tp.Edges[ek], edgeUse{
					Triangle: triID,
					Dir:      dir,
					Normal:   tri.Normal,
				})
			}
			triID++
		}
	}
	tp.EdgeOrder = make([]types.EdgeKey, 0, len(tp.Edges))
	for ek := range tp.Edges {
		tp.EdgeOrder = append(tp.EdgeOrder, ek)
	}
	types.SortEdgeKeys(tp.EdgeOrder)
	return
}

// Midpoint returns the midpoint of the edge's two vertex positions
func (tp *topology) Midpoint(ek types.EdgeKey) geometry.Vector3 {
	verts := ek.GetVertices(false)
	return tp.Vertices.Positions[verts[0]].Midpoint(tp.Vertices.Positions[verts[1]])
}

// OpenEdges returns the edges used by exactly one triangle, in (v0, v1) order
func (tp *topology) OpenEdges() (open []types.EdgeKey) {
	for _, ek := range tp.EdgeOrder {
		if len(tp.Edges[ek]) == 1 {
			open = append(open, ek)
		}
	}
	return
}
