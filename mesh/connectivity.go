package mesh

import (
	"github.com/james-bowman/sparse"

	"github.com/notargets/surfmesh/types"
)

func (m *Mesh) validCell(id int) bool { return id >= 0 && id < m.NumCells() }

// BuildCellNeighbors rebuilds every cell's neighbor list from the faces that join two cells
func (m *Mesh) BuildCellNeighbors() {
	for i := range m.Cells {
		m.Cells[i].Neighbors = nil
	}
	for _, f := range m.Faces {
		if !m.validCell(f.Owner) || !m.validCell(f.Neighbor) {
			continue
		}
		m.Cells[f.Owner].Neighbors = append(m.Cells[f.Owner].Neighbors, f.Neighbor)
		m.Cells[f.Neighbor].Neighbors = append(m.Cells[f.Neighbor].Neighbors, f.Owner)
	}
}

// BuildNodeCellConnectivity rebuilds every node's list of the cells that reference it through their faces
func (m *Mesh) BuildNodeCellConnectivity() {
	for i := range m.Nodes {
		m.Nodes[i].ConnectedCells = nil
	}
	for cellID := range m.Cells {
		c := &m.Cells[cellID]
		if m.checkCellFaces(c) != nil {
			continue
		}
		for _, n := range m.cellNodes(c) {
			m.Nodes[n].ConnectedCells = append(m.Nodes[n].ConnectedCells, cellID)
		}
	}
}

// BuildConnectivity builds cell neighbors and node to cell connectivity
func (m *Mesh) BuildConnectivity() {
	m.BuildCellNeighbors()
	m.BuildNodeCellConnectivity()
}

/*
CellAdjacency returns the symmetric cell to cell adjacency matrix with a one for every pair of cells sharing a face.
Neighbor lists must be current. Returns nil for a mesh without cells.
*/
func (m *Mesh) CellAdjacency() *sparse.CSR {
	if m.NumCells() == 0 {
		return nil
	}
	adj := sparse.NewDOK(m.NumCells(), m.NumCells())
	for i, c := range m.Cells {
		for _, j := range c.Neighbors {
			adj.Set(i, j, 1)
			adj.Set(j, i, 1)
		}
	}
	return adj.ToCSR()
}

/*
CheckOrientation returns the ids of cells whose faces do not bound them consistently outward. Each face is taken in
its stored winding when the cell owns it and reversed when the cell is its neighbor. The cell is flagged when any edge
is walked twice in the same direction by its faces, or when the walk is consistent but encloses a non positive volume,
meaning every face points inward. Face geometry must be current. Cells with invalid face ids are flagged.
*/
func (m *Mesh) CheckOrientation() (bad []int) {
	for cellID := range m.Cells {
		if !m.cellOriented(cellID) {
			bad = append(bad, cellID)
		}
	}
	return
}

func (m *Mesh) cellOriented(cellID int) bool {
	c := &m.Cells[cellID]
	if m.checkCellFaces(c) != nil {
		return false
	}
	var (
		walked   = make(map[types.EdgeInt]bool)
		centroid = c.Centroid
		volume   float64
	)
	for _, fid := range c.FaceIDs {
		var (
			f    = &m.Faces[fid]
			sign = 1.
			nn   = len(f.NodeIDs)
		)
		if f.Owner != cellID && f.Neighbor == cellID {
			sign = -1
		}
		for i := 0; i < nn; i++ {
			a, b := f.NodeIDs[i], f.NodeIDs[(i+1)%nn]
			if a == b {
				continue
			}
			if sign < 0 {
				a, b = b, a
			}
			e := types.NewEdgeInt([2]int{a, b})
			if walked[e] {
				return false
			}
			walked[e] = true
		}
		volume += sign * f.Area * f.Centroid.Sub(centroid).Dot(f.Normal)
	}
	return volume > 0
}
