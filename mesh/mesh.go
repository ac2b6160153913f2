package mesh

import (
	"errors"
	"fmt"
	"io"

	"github.com/notargets/surfmesh/geometry"
	"github.com/notargets/surfmesh/types"
)

// ErrOutOfRange is wrapped by every accessor given an id outside its table
var ErrOutOfRange = errors.New("id out of range")

// BoundaryNeighbor marks a face with no neighbor cell
const BoundaryNeighbor = -1

type Node struct {
	ID             int
	Position       geometry.Vector3
	ConnectedCells []int // Derived by BuildNodeCellConnectivity
}

// Face is a planar polygon between its owner cell and an optional neighbor cell
type Face struct {
	ID       int
	NodeIDs  []int // Winding order determines the normal
	Owner    int
	Neighbor int // BoundaryNeighbor on the domain boundary

	// Derived by ComputeFaceGeometry
	Centroid geometry.Vector3
	Normal   geometry.Vector3
	Area     float64
}

func (f Face) IsBoundary() bool { return f.Neighbor == BoundaryNeighbor }

type Cell struct {
	ID        int
	FaceIDs   []int
	Neighbors []int // Derived by BuildCellNeighbors

	// Derived by ComputeCellGeometry
	Centroid     geometry.Vector3
	Volume       float64 // Magnitude of SignedVolume
	SignedVolume float64 // Divergence sum over the stored face normals, positive when they point away from the centroid
}

// BoundaryPatch is a named, typed set of boundary faces
type BoundaryPatch struct {
	Name    string
	Type    types.PatchType
	FaceIDs []int
}

/*
Mesh is a polyhedral mesh held as flat node, face and cell tables. Ids are dense, zero based and equal to the
position in their table, entities are only ever appended. Geometry and connectivity are derived on demand and are
stale after any table changes until recomputed.
*/
type Mesh struct {
	Nodes      []Node
	Faces      []Face
	Cells      []Cell
	Boundaries map[string]*BoundaryPatch
	PatchNames []string // Boundary patch names in creation order
}

// NewMesh creates a new empty mesh
func NewMesh() *Mesh {
	return &Mesh{
		Boundaries: make(map[string]*BoundaryPatch),
	}
}

func (m *Mesh) AddNode(position geometry.Vector3) (id int) {
	id = len(m.Nodes)
	m.Nodes = append(m.Nodes, Node{ID: id, Position: position})
	return
}

// AddFace appends a face without checking its ids, pass BoundaryNeighbor as neighbor for a boundary face
func (m *Mesh) AddFace(nodeIDs []int, owner, neighbor int) (id int) {
	id = len(m.Faces)
	m.Faces = append(m.Faces, Face{
		ID:       id,
		NodeIDs:  append([]int(nil), nodeIDs...),
		Owner:    owner,
		Neighbor: neighbor,
	})
	return
}

func (m *Mesh) AddCell(faceIDs []int) (id int) {
	id = len(m.Cells)
	m.Cells = append(m.Cells, Cell{ID: id, FaceIDs: append([]int(nil), faceIDs...)})
	return
}

// AddBoundaryPatch creates a patch, an existing patch of the same name is replaced by an empty one
func (m *Mesh) AddBoundaryPatch(name string, patchType types.PatchType) {
	if _, exists := m.Boundaries[name]; !exists {
		m.PatchNames = append(m.PatchNames, name)
	}
	m.Boundaries[name] = &BoundaryPatch{Name: name, Type: patchType}
}

func (m *Mesh) AssignFaceToBoundary(faceID int, patchName string) error {
	bp, ok := m.Boundaries[patchName]
	if !ok {
		return fmt.Errorf("boundary patch not found: %s", patchName)
	}
	bp.FaceIDs = append(bp.FaceIDs, faceID)
	return nil
}

// Patches returns the boundary patches in creation order
func (m *Mesh) Patches() (patches []*BoundaryPatch) {
	for _, name := range m.PatchNames {
		patches = append(patches, m.Boundaries[name])
	}
	return
}

func (m *Mesh) NumNodes() int { return len(m.Nodes) }
func (m *Mesh) NumFaces() int { return len(m.Faces) }
func (m *Mesh) NumCells() int { return len(m.Cells) }

func (m *Mesh) NumBoundaryFaces() (count int) {
	for _, f := range m.Faces {
		if f.IsBoundary() {
			count++
		}
	}
	return
}

func (m *Mesh) NumInternalFaces() int { return m.NumFaces() - m.NumBoundaryFaces() }

func (m *Mesh) Node(id int) (Node, error) {
	if id < 0 || id >= m.NumNodes() {
		return Node{}, fmt.Errorf("node %d: %w", id, ErrOutOfRange)
	}
	return m.Nodes[id], nil
}

func (m *Mesh) Face(id int) (Face, error) {
	if id < 0 || id >= m.NumFaces() {
		return Face{}, fmt.Errorf("face %d: %w", id, ErrOutOfRange)
	}
	return m.Faces[id], nil
}

func (m *Mesh) Cell(id int) (Cell, error) {
	if id < 0 || id >= m.NumCells() {
		return Cell{}, fmt.Errorf("cell %d: %w", id, ErrOutOfRange)
	}
	return m.Cells[id], nil
}

func (m *Mesh) CellNeighbors(cellID int) ([]int, error) {
	c, err := m.Cell(cellID)
	if err != nil {
		return nil, err
	}
	return append([]int(nil), c.Neighbors...), nil
}

func (m *Mesh) CellFaces(cellID int) ([]int, error) {
	c, err := m.Cell(cellID)
	if err != nil {
		return nil, err
	}
	return append([]int(nil), c.FaceIDs...), nil
}

func (m *Mesh) NodeCells(nodeID int) ([]int, error) {
	n, err := m.Node(nodeID)
	if err != nil {
		return nil, err
	}
	return append([]int(nil), n.ConnectedCells...), nil
}

/*
Validate checks referential integrity only: face node ids and owners must name existing entities, neighbors must be
an existing cell or BoundaryNeighbor, and cell face ids must name existing faces. It reports no detail about what failed.
*/
func (m *Mesh) Validate() bool {
	for _, f := range m.Faces {
		for _, n := range f.NodeIDs {
			if n < 0 || n >= m.NumNodes() {
				return false
			}
		}
		if f.Owner < 0 || f.Owner >= m.NumCells() {
			return false
		}
		if f.Neighbor != BoundaryNeighbor && !m.validCell(f.Neighbor) {
			return false
		}
	}
	for _, c := range m.Cells {
		for _, fid := range c.FaceIDs {
			if fid < 0 || fid >= m.NumFaces() {
				return false
			}
		}
	}
	return true
}

// PrintStatistics prints mesh statistics
func (m *Mesh) PrintStatistics(w io.Writer) {
	var volume float64
	for _, c := range m.Cells {
		volume += c.Volume
	}
	fmt.Fprintf(w, "Mesh Statistics:\n")
	fmt.Fprintf(w, "  Nodes: %d\n", m.NumNodes())
	fmt.Fprintf(w, "  Faces: %d\n", m.NumFaces())
	fmt.Fprintf(w, "    Boundary: %d\n", m.NumBoundaryFaces())
	fmt.Fprintf(w, "    Internal: %d\n", m.NumInternalFaces())
	fmt.Fprintf(w, "  Cells: %d\n", m.NumCells())
	fmt.Fprintf(w, "  Total volume: %g\n", volume)
	fmt.Fprintf(w, "  Boundary patches:\n")
	for _, bp := range m.Patches() {
		fmt.Fprintf(w, "    %s (%s): %d faces\n", bp.Name, bp.Type, len(bp.FaceIDs))
	}
}
