package validator

import (
	"sort"

	"github.com/notargets/surfmesh/geometry"
	"github.com/notargets/surfmesh/types"
	"github.com/notargets/surfmesh/utils"
)

const (
	DefaultDegeneracyTolerance = 1e-10
	DefaultNormalTolerance     = 0.1
)

/*
Validator checks triangle soup for the defects that prevent it from bounding a volume. Diagnostics accumulate across
checks until ClearErrors or ValidateAll is called. Vertices are identified by exact position unless
VertexMergeTolerance is positive, in which case positions are snapped to a grid of that pitch before comparison.
*/
type Validator struct {
	DegeneracyTolerance  float64
	NormalTolerance      float64
	VertexMergeTolerance float64
	Parallelism          int // Number of goroutines used by the per triangle checks

	// Statistics from the most recent checks
	TotalTriangles int
	TotalEdges     int
	TotalVertices  int

	errors []geometry.GeometryError
}

func NewValidator() *Validator {
	return &Validator{
		DegeneracyTolerance: DefaultDegeneracyTolerance,
		NormalTolerance:     DefaultNormalTolerance,
		Parallelism:         1,
	}
}

// Errors returns a copy of the accumulated diagnostics in the order they were found
func (v *Validator) Errors() []geometry.GeometryError {
	return append([]geometry.GeometryError(nil), v.errors...)
}

func (v *Validator) ClearErrors() { v.errors = v.errors[:0] }

func (v *Validator) addError(ge geometry.GeometryError) { v.errors = append(v.errors, ge) }

// ValidateAll clears previous diagnostics and runs every check. All checks run even when an earlier one fails.
func (v *Validator) ValidateAll(surfaces []geometry.Surface) (valid bool) {
	v.ClearErrors()
	valid = v.CheckDegenerateTriangles(surfaces)
	valid = v.CheckEdgeManifoldness(surfaces) && valid
	valid = v.CheckClosedVolume(surfaces) && valid
	valid = v.CheckNormalConsistency(surfaces) && valid
	return
}

func flatten(surfaces []geometry.Surface) (tris []geometry.Triangle) {
	tris = make([]geometry.Triangle, 0, geometry.CountTriangles(surfaces))
	for _, s := range surfaces {
		tris = append(tris, s.Triangles...)
	}
	return
}

/*
CheckDegenerateTriangles flags triangles with area below the degeneracy tolerance and, separately, every pair of
vertices within the tolerance of each other. With Parallelism above one the triangles are split into shards whose
diagnostics are merged in shard order, so the result matches a serial run.
*/
func (v *Validator) CheckDegenerateTriangles(surfaces []geometry.Surface) bool {
	var (
		tris = flatten(surfaces)
		pm   = utils.NewPartitionMap(v.Parallelism, len(tris))
		errs = make([][]geometry.GeometryError, pm.ParallelDegree)
		tol  = v.DegeneracyTolerance
	)
	v.TotalTriangles = len(tris)
	pm.ForEachBucket(func(bn, kMin, kMax int) {
		for k := kMin; k < kMax; k++ {
			errs[bn] = append(errs[bn], degeneracies(tris[k], tol)...)
		}
	})
	valid := true
	for _, shard := range errs {
		for _, ge := range shard {
			v.addError(ge)
			valid = false
		}
	}
	return valid
}

func degeneracies(tri geometry.Triangle, tol float64) (errs []geometry.GeometryError) {
	var (
		centroid = tri.Centroid()
	)
	if area := tri.Area(); area < tol {
		errs = append(errs, geometry.NewGeometryError(geometry.DegenerateTriangle, centroid,
			"Triangle has near-zero area: %g", area))
	}
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			if tri.Vertices[i].ApproxEqual(tri.Vertices[j], tol) {
				errs = append(errs, geometry.NewGeometryError(geometry.DegenerateTriangle, centroid,
					"Triangle has duplicate vertices %d and %d", i, j))
			}
		}
	}
	return
}

// CheckManifold is an alias of CheckEdgeManifoldness
func (v *Validator) CheckManifold(surfaces []geometry.Surface) bool {
	return v.CheckEdgeManifoldness(surfaces)
}

// CheckEdgeManifoldness flags every edge shared by more than two triangles
func (v *Validator) CheckEdgeManifoldness(surfaces []geometry.Surface) bool {
	var (
		tp    = buildTopology(surfaces, v.VertexMergeTolerance)
		valid = true
	)
	v.TotalVertices = len(tp.Vertices.Positions)
	v.TotalEdges = len(tp.Edges)
	for _, ek := range tp.EdgeOrder {
		if count := len(tp.Edges[ek]); count > 2 {
			v.addError(geometry.NewGeometryError(geometry.NonManifoldEdge, tp.Midpoint(ek),
				"Edge shared by %d triangles", count))
			valid = false
		}
	}
	return valid
}

// CheckClosedVolume flags every edge used by exactly one triangle. The surfaces are closed only if there are none.
func (v *Validator) CheckClosedVolume(surfaces []geometry.Surface) bool {
	var (
		tp   = buildTopology(surfaces, v.VertexMergeTolerance)
		open = tp.OpenEdges()
	)
	for _, ek := range open {
		v.addError(geometry.NewGeometryError(geometry.OpenEdge, tp.Midpoint(ek),
			"Edge belongs to only one triangle (open boundary)"))
	}
	return len(open) == 0
}

/*
CheckNormalConsistency compares the stored normals of the two triangles on each manifold edge and flags the edge
when they point against each other by more than the normal tolerance. Edges with any other triangle count are left
to the manifold and closed volume checks.
*/
func (v *Validator) CheckNormalConsistency(surfaces []geometry.Surface) bool {
	var (
		tp    = buildTopology(surfaces, v.VertexMergeTolerance)
		valid = true
	)
	for _, ek := range tp.EdgeOrder {
		uses := tp.Edges[ek]
		if len(uses) != 2 {
			continue
		}
		if uses[0].Normal.Dot(uses[1].Normal) < -v.NormalTolerance {
			v.addError(geometry.NewGeometryError(geometry.InconsistentNormal, tp.Midpoint(ek),
				"Adjacent triangles have inconsistent normal orientation"))
			valid = false
		}
	}
	return valid
}

/*
CheckWindingConsistency flags manifold edges that both triangles traverse in the same direction. Unlike
CheckNormalConsistency it uses only the vertex order, so it also catches flipped triangles whose stored normals were
written to agree with their neighbors.
*/
func (v *Validator) CheckWindingConsistency(surfaces []geometry.Surface) bool {
	var (
		tp    = buildTopology(surfaces, v.VertexMergeTolerance)
		valid = true
	)
	for _, ek := range tp.EdgeOrder {
		uses := tp.Edges[ek]
		verts := ek.GetVertices(false)
		if len(uses) != 2 || verts[0] == verts[1] {
			continue
		}
		if uses[0].Dir.Forward() == uses[1].Dir.Forward() {
			v.addError(geometry.NewGeometryError(geometry.InconsistentNormal, tp.Midpoint(ek),
				"Triangles %d and %d traverse their shared edge in the same direction",
				uses[0].Triangle, uses[1].Triangle))
			valid = false
		}
	}
	return valid
}

// CheckDuplicateTriangles flags each triangle whose vertex set repeats an earlier triangle, at the later one's centroid
func (v *Validator) CheckDuplicateTriangles(surfaces []geometry.Surface) bool {
	var (
		tp    = buildTopology(surfaces, v.VertexMergeTolerance)
		tris  = flatten(surfaces)
		seen  = make(map[[3]int]int, len(tris))
		valid = true
	)
	for k, tv := range tp.TriVerts {
		key := tv
		sort.Ints(key[:])
		if first, ok := seen[key]; ok {
			v.addError(geometry.NewGeometryError(geometry.DuplicateTriangle, tris[k].Centroid(),
				"Triangle %d duplicates triangle %d", k, first))
			valid = false
			continue
		}
		seen[key] = k
	}
	return valid
}

// OpenBoundaryLoops chains the open edges into loops of vertex positions. Each loop is one hole in the surface.
func (v *Validator) OpenBoundaryLoops(surfaces []geometry.Surface) (loops [][]geometry.Vector3) {
	tp := buildTopology(surfaces, v.VertexMergeTolerance)
	for _, loop := range types.BoundaryLoops(tp.OpenEdges()) {
		pts := make([]geometry.Vector3, len(loop))
		for i, vert := range loop {
			pts[i] = tp.Vertices.Positions[vert]
		}
		loops = append(loops, pts)
	}
	return
}
