package mesh

import (
	"fmt"
	"sort"

	"github.com/notargets/surfmesh/geometry"
	"github.com/notargets/surfmesh/utils"
)

func (m *Mesh) checkFaceNodes(f *Face) error {
	for _, n := range f.NodeIDs {
		if n < 0 || n >= m.NumNodes() {
			return fmt.Errorf("face %d references node %d: %w", f.ID, n, ErrOutOfRange)
		}
	}
	return nil
}

/*
ComputeFaceGeometry sets the face centroid to the mean of its node positions and its normal from the first three
nodes. The area is summed over a fan of triangles from the first node, which is exact for planar convex polygons.
A face with fewer than three nodes gets a zero normal and zero area.
*/
func (m *Mesh) ComputeFaceGeometry(faceID int) error {
	if faceID < 0 || faceID >= m.NumFaces() {
		return fmt.Errorf("face %d: %w", faceID, ErrOutOfRange)
	}
	f := &m.Faces[faceID]
	if err := m.checkFaceNodes(f); err != nil {
		return err
	}
	var (
		nn       = len(f.NodeIDs)
		centroid geometry.Vector3
		pos      = func(i int) geometry.Vector3 { return m.Nodes[f.NodeIDs[i]].Position }
	)
	for i := 0; i < nn; i++ {
		centroid = centroid.Add(pos(i))
	}
	if nn > 0 {
		centroid = centroid.Scale(1 / float64(nn))
	}
	f.Centroid = centroid
	f.Normal, f.Area = geometry.Vector3{}, 0
	if nn < 3 {
		return nil
	}
	p0 := pos(0)
	f.Normal = pos(1).Sub(p0).Cross(pos(2).Sub(p0)).Normalize()
	for i := 1; i < nn-1; i++ {
		f.Area += 0.5 * pos(i).Sub(p0).Cross(pos(i+1).Sub(p0)).Norm()
	}
	return nil
}

// cellNodes returns the sorted set of nodes referenced by the cell's faces
func (m *Mesh) cellNodes(c *Cell) (nodes []int) {
	seen := make(map[int]bool)
	for _, fid := range c.FaceIDs {
		for _, n := range m.Faces[fid].NodeIDs {
			if !seen[n] {
				seen[n] = true
				nodes = append(nodes, n)
			}
		}
	}
	sort.Ints(nodes)
	return
}

func (m *Mesh) checkCellFaces(c *Cell) error {
	for _, fid := range c.FaceIDs {
		if fid < 0 || fid >= m.NumFaces() {
			return fmt.Errorf("cell %d references face %d: %w", c.ID, fid, ErrOutOfRange)
		}
		if err := m.checkFaceNodes(&m.Faces[fid]); err != nil {
			return err
		}
	}
	return nil
}

/*
ComputeCellGeometry sets the cell centroid to the mean of its distinct nodes and its volume from the divergence
theorem, a third of the sum of area * (face centroid - cell centroid) . normal over the cell's faces. The stored face
normals are used as they are, so face geometry must be current. Volume is the magnitude of the sum, SignedVolume
keeps its sign.
*/
func (m *Mesh) ComputeCellGeometry(cellID int) error {
	if cellID < 0 || cellID >= m.NumCells() {
		return fmt.Errorf("cell %d: %w", cellID, ErrOutOfRange)
	}
	c := &m.Cells[cellID]
	if err := m.checkCellFaces(c); err != nil {
		return err
	}
	var (
		nodes    = m.cellNodes(c)
		centroid geometry.Vector3
		sum      float64
	)
	for _, n := range nodes {
		centroid = centroid.Add(m.Nodes[n].Position)
	}
	if len(nodes) > 0 {
		centroid = centroid.Scale(1 / float64(len(nodes)))
	}
	c.Centroid = centroid
	for _, fid := range c.FaceIDs {
		f := &m.Faces[fid]
		sum += f.Area * f.Centroid.Sub(centroid).Dot(f.Normal)
	}
	c.SignedVolume = sum / 3
	if c.SignedVolume < 0 {
		c.Volume = -c.SignedVolume
	} else {
		c.Volume = c.SignedVolume
	}
	return nil
}

// ComputeAllGeometry computes every face and then every cell, cells depend on their faces being done first
func (m *Mesh) ComputeAllGeometry() error {
	for i := range m.Faces {
		if err := m.ComputeFaceGeometry(i); err != nil {
			return err
		}
	}
	for i := range m.Cells {
		if err := m.ComputeCellGeometry(i); err != nil {
			return err
		}
	}
	return nil
}

/*
ComputeAllGeometryParallel splits the faces and then the cells over np goroutines. All faces are finished before any
cell starts. The results match ComputeAllGeometry, and so does the returned error, the one for the lowest id.
*/
func (m *Mesh) ComputeAllGeometryParallel(np int) error {
	run := func(n int, compute func(int) error) error {
		var (
			pm   = utils.NewPartitionMap(np, n)
			errs = make([]error, pm.ParallelDegree)
		)
		pm.ForEachBucket(func(bn, kMin, kMax int) {
			for k := kMin; k < kMax; k++ {
				if err := compute(k); err != nil {
					errs[bn] = err
					return
				}
			}
		})
		for _, err := range errs {
			if err != nil {
				return err
			}
		}
		return nil
	}
	if err := run(m.NumFaces(), m.ComputeFaceGeometry); err != nil {
		return err
	}
	return run(m.NumCells(), m.ComputeCellGeometry)
}
