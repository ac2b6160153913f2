package mesh

import (
	"fmt"

	"github.com/notargets/surfmesh/geometry"
	"github.com/notargets/surfmesh/geometry/boundary"
	"github.com/notargets/surfmesh/types"
)

/*
FromSurfaces turns closed triangle soup into a mesh of a single polyhedral cell bounded by one triangular boundary
face per input triangle. Face ids equal global triangle indices, so boundary regions map straight onto patches.
Vertices are merged into nodes by exact position. No interior cells are generated.

Each region becomes a patch of the same name, regions sharing a name share a patch. The patch type comes from
patchTypes, then from the region name when it is a known type, and is a wall otherwise.
*/
func FromSurfaces(surfaces []geometry.Surface, regions []boundary.Region,
	patchTypes map[string]types.PatchType) (m *Mesh, err error) {
	return FromSurfacesParallel(surfaces, regions, patchTypes, 1)
}

// FromSurfacesParallel is FromSurfaces with the face and cell geometry split over np goroutines
func FromSurfacesParallel(surfaces []geometry.Surface, regions []boundary.Region,
	patchTypes map[string]types.PatchType, np int) (m *Mesh, err error) {
	var (
		numTris = geometry.CountTriangles(surfaces)
		nodeIDs = make(map[geometry.Vector3]int)
		faceIDs = make([]int, 0, numTris)
	)
	if numTris == 0 {
		return nil, fmt.Errorf("no triangles to build a mesh from")
	}
	m = NewMesh()
	nodeFor := func(v geometry.Vector3) int {
		if id, ok := nodeIDs[v]; ok {
			return id
		}
		id := m.AddNode(v)
		nodeIDs[v] = id
		return id
	}
	for _, s := range surfaces {
		for _, tri := range s.Triangles {
			nodes := []int{nodeFor(tri.Vertices[0]), nodeFor(tri.Vertices[1]), nodeFor(tri.Vertices[2])}
			faceIDs = append(faceIDs, m.AddFace(nodes, 0, BoundaryNeighbor))
		}
	}
	m.AddCell(faceIDs)

	for _, r := range regions {
		if _, exists := m.Boundaries[r.Name]; !exists {
			m.AddBoundaryPatch(r.Name, patchTypeFor(r.Name, patchTypes))
		}
		for _, k := range r.TriangleIndices {
			if k < 0 || k >= numTris {
				return nil, fmt.Errorf("region %s references triangle %d of %d: %w", r.Name, k, numTris, ErrOutOfRange)
			}
			if err = m.AssignFaceToBoundary(k, r.Name); err != nil {
				return nil, err
			}
		}
	}

	if np > 1 {
		err = m.ComputeAllGeometryParallel(np)
	} else {
		err = m.ComputeAllGeometry()
	}
	if err != nil {
		return nil, err
	}
	m.BuildConnectivity()
	return
}

func patchTypeFor(name string, patchTypes map[string]types.PatchType) types.PatchType {
	if pt, ok := patchTypes[name]; ok {
		return pt
	}
	if pt := types.NewPatchType(name); pt.IsKnown() {
		return pt
	}
	return types.PatchWall
}
