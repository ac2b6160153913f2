package types

import (
	"fmt"
	"math"
	"sort"
)

/*
EdgeKey is an always positive number that stores an undirected edge's vertex indices in a way that can be compared.
An edge between vertices [4] and [0] will always be stored as [0,4], in the ascending order of the index values.
The lower index occupies the high 32 bits, so ordering keys numerically orders edges lexicographically by (v0, v1).
*/
type EdgeKey uint64

func NewEdgeKey(verts [2]int) (packed EdgeKey) {
	var (
		limit = math.MaxUint32
	)
	for _, vert := range verts {
		if vert < 0 || vert > limit {
			panic(fmt.Errorf("unable to pack two ints into a uint64, have %d and %d as inputs",
				verts[0], verts[1]))
		}
	}
	var i1, i2 int
	if verts[0] <= verts[1] {
		i1, i2 = verts[0], verts[1]
	} else {
		i1, i2 = verts[1], verts[0]
	}
	packed = EdgeKey(i1<<32 | i2)
	return
}

// GetVertices returns the canonical (v0 <= v1) pair, or the reverse when rev is set
func (ek EdgeKey) GetVertices(rev bool) (verts [2]int) {
	verts[0] = int(ek >> 32)
	verts[1] = int(ek & math.MaxUint32)
	if rev {
		verts[0], verts[1] = verts[1], verts[0]
	}
	return
}

func (ek EdgeKey) Less(other EdgeKey) bool { return ek < other }

// SortEdgeKeys orders keys lexicographically by (v0, v1)
func SortEdgeKeys(keys []EdgeKey) {
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
}

/*
An EdgeInt stores the edge vertices in the original order of the vertices, so that it can be recovered with its direction
*/
type EdgeInt int64

func NewEdgeInt(verts [2]int) (packed EdgeInt) {
	// Two 31 bit indices leave room for the sign bit, which records the direction
	var (
		limit = math.MaxUint32 >> 1
		sign  bool
	)
	for _, vert := range verts {
		if vert < 0 || vert > limit {
			panic(fmt.Errorf("unable to pack two ints into an int64, have %d and %d as inputs",
				verts[0], verts[1]))
		}
	}
	var i1, i2 int
	if verts[0] <= verts[1] {
		i1, i2 = verts[0], verts[1]
	} else {
		sign = true
		i1, i2 = verts[1], verts[0]
	}
	packed = EdgeInt(i1 + i2<<32)
	if sign {
		packed = -packed
	}
	return
}

func (e EdgeInt) GetVertices() (verts [2]int) {
	var (
		eTmp EdgeInt
		sign bool
	)
	if e < 0 {
		sign = true
		e = -e
	}
	eTmp = e >> 32
	verts[1] = int(eTmp)
	verts[0] = int(e - eTmp*(1<<32))
	if sign {
		verts[0], verts[1] = verts[1], verts[0]
	}
	return
}

func (e EdgeInt) GetKey() (ek EdgeKey) {
	ek = NewEdgeKey(e.GetVertices())
	return
}

// Forward reports whether the edge runs from the lower to the higher index
func (e EdgeInt) Forward() bool { return e >= 0 }

type vertEdgeBucket struct {
	edges []EdgeKey
}

type bucketMap map[int]*vertEdgeBucket

func (bm bucketMap) AddEdge(ek EdgeKey) {
	for _, v := range ek.GetVertices(false) {
		b, ok := bm[v]
		if !ok {
			b = &vertEdgeBucket{}
			bm[v] = b
		}
		b.edges = append(b.edges, ek)
	}
}

/*
BoundaryLoops chains a set of undirected edges into vertex loops by walking from each unvisited edge through the vertex
buckets. Each returned loop lists vertex indices in walk order, a closed loop does not repeat its start vertex. Walks
start from the lowest remaining edge so the result is deterministic. Vertices shared by more than two of the edges
are walked through their first unvisited edge, so loops meeting at a vertex may be merged or split arbitrarily.
*/
func BoundaryLoops(edges []EdgeKey) (loops [][]int) {
	var (
		sorted  = make([]EdgeKey, len(edges))
		visited = make(map[EdgeKey]bool, len(edges))
		bm      = make(bucketMap, len(edges))
	)
	copy(sorted, edges)
	SortEdgeKeys(sorted)
	for _, ek := range sorted {
		bm.AddEdge(ek)
	}
	for _, start := range sorted {
		if visited[start] {
			continue
		}
		visited[start] = true
		verts := start.GetVertices(false)
		loop := []int{verts[0], verts[1]}
		cur := verts[1]
		for {
			var next EdgeKey
			found := false
			for _, ek := range bm[cur].edges {
				if !visited[ek] {
					next, found = ek, true
					break
				}
			}
			if !found {
				break
			}
			visited[next] = true
			nv := next.GetVertices(false)
			if nv[0] == cur {
				cur = nv[1]
			} else {
				cur = nv[0]
			}
			if cur == loop[0] {
				break
			}
			loop = append(loop, cur)
		}
		loops = append(loops, loop)
	}
	return
}
