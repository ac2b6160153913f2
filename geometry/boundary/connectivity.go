package boundary

import (
	"github.com/notargets/surfmesh/geometry"
	"github.com/notargets/surfmesh/types"
)

// disjointSet is a union-find forest over dense indices
type disjointSet []int

func newDisjointSet(n int) disjointSet {
	ds := make(disjointSet, n)
	for i := range ds {
		ds[i] = i
	}
	return ds
}

func (ds disjointSet) Find(i int) int {
	for ds[i] != i {
		ds[i] = ds[ds[i]] // Path halving
		i = ds[i]
	}
	return i
}

// Union joins the sets of a and b, the lower root survives so a set's root is its smallest member
func (ds disjointSet) Union(a, b int) {
	ra, rb := ds.Find(a), ds.Find(b)
	switch {
	case ra < rb:
		ds[rb] = ra
	case rb < ra:
		ds[ra] = rb
	}
}

/*
ExtractByConnectivity is an order independent alternative to ExtractByNormal. Two triangles are joined when they
share an edge and their normals are within angleTolerance degrees of each other, and each region is a connected set
of joined triangles. Regions are ordered by their lowest triangle index, so a smoothly curved patch stays whole and
two disjoint faces with the same normal stay apart.
*/
func (ex *Extractor) ExtractByConnectivity(surfaces []geometry.Surface, angleTolerance float64) {
	var (
		tris     = make([]geometry.Triangle, 0, geometry.CountTriangles(surfaces))
		vertexID = make(map[geometry.Vector3]int)
		edgeTris = make(map[types.EdgeKey][]int)
	)
	ex.Clear()
	for _, s := range surfaces {
		tris = append(tris, s.Triangles...)
	}
	for k, tri := range tris {
		var tv [3]int
		for i, v := range tri.Vertices {
			id, ok := vertexID[v]
			if !ok {
				id = len(vertexID)
				vertexID[v] = id
			}
			tv[i] = id
		}
		for i := 0; i < 3; i++ {
			ek := types.NewEdgeKey([2]int{tv[i], tv[(i+1)%3]})
			edgeTris[ek] = append(edgeTris[ek], k)
		}
	}
	ds := newDisjointSet(len(tris))
	for _, ks := range edgeTris {
		for i := 0; i < len(ks); i++ {
			for j := i + 1; j < len(ks); j++ {
				if NormalsAreSimilar(tris[ks[i]].Normal, tris[ks[j]].Normal, angleTolerance) {
					ds.Union(ks[i], ks[j])
				}
			}
		}
	}
	var (
		regionOf = make(map[int]int)
		sums     []geometry.Vector3
	)
	for k := range tris {
		root := ds.Find(k)
		ind, ok := regionOf[root]
		if !ok {
			ind = len(ex.regions)
			regionOf[root] = ind
			ex.regions = append(ex.regions, Region{})
			sums = append(sums, geometry.Vector3{})
		}
		ex.regions[ind].TriangleIndices = append(ex.regions[ind].TriangleIndices, k)
		sums[ind] = sums[ind].Add(tris[k].Normal)
	}
	for i := range ex.regions {
		ex.regions[i].AverageNormal = sums[i]
	}
	ex.ComputeRegionStatistics(surfaces)
	ex.AutoNameRegions()
}
