package mesh

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	DefaultAspectRatioThreshold = 10.
	DefaultSkewnessThreshold    = 0.85
	minEdgeLength               = 1e-10
)

// Quality holds per cell shape metrics and their summary over a mesh
type Quality struct {
	AspectRatioThreshold float64
	SkewnessThreshold    float64

	AspectRatios []float64 // Per cell
	Skewness     []float64 // Per cell

	MinAspectRatio, MaxAspectRatio, AvgAspectRatio float64
	MinSkewness, MaxSkewness, AvgSkewness          float64
	NumBadCells                                    int
	BadCells                                       []int
}

func NewQuality() *Quality {
	return &Quality{
		AspectRatioThreshold: DefaultAspectRatioThreshold,
		SkewnessThreshold:    DefaultSkewnessThreshold,
		MinAspectRatio:       1, MaxAspectRatio: 1, AvgAspectRatio: 1,
	}
}

/*
ComputeMetrics evaluates every cell of m. A cell is bad when its aspect ratio or skewness exceeds the thresholds.
Face geometry and cell centroids must be current. A mesh without cells leaves the summary untouched.
*/
func (q *Quality) ComputeMetrics(m *Mesh) {
	n := m.NumCells()
	if n == 0 {
		return
	}
	q.AspectRatios = make([]float64, n)
	q.Skewness = make([]float64, n)
	q.BadCells = nil
	for i := 0; i < n; i++ {
		q.AspectRatios[i] = m.CellAspectRatio(i)
		q.Skewness[i] = m.CellSkewness(i)
		if q.AspectRatios[i] > q.AspectRatioThreshold || q.Skewness[i] > q.SkewnessThreshold {
			q.BadCells = append(q.BadCells, i)
		}
	}
	q.NumBadCells = len(q.BadCells)
	q.MinAspectRatio, q.MaxAspectRatio = floats.Min(q.AspectRatios), floats.Max(q.AspectRatios)
	q.AvgAspectRatio = stat.Mean(q.AspectRatios, nil)
	q.MinSkewness, q.MaxSkewness = floats.Min(q.Skewness), floats.Max(q.Skewness)
	q.AvgSkewness = stat.Mean(q.Skewness, nil)
}

// Report formats the summary metrics
func (q *Quality) Report() string {
	var sb strings.Builder
	sb.WriteString("=== Mesh Quality Report ===\n")
	sb.WriteString("Aspect Ratio:\n")
	fmt.Fprintf(&sb, "  Min: %.3f\n  Max: %.3f\n  Avg: %.3f\n\n", q.MinAspectRatio, q.MaxAspectRatio, q.AvgAspectRatio)
	sb.WriteString("Skewness:\n")
	fmt.Fprintf(&sb, "  Min: %.3f\n  Max: %.3f\n  Avg: %.3f\n\n", q.MinSkewness, q.MaxSkewness, q.AvgSkewness)
	fmt.Fprintf(&sb, "Bad Cells: %d\n", q.NumBadCells)
	return sb.String()
}

// CellAspectRatio is the ratio of the longest to the shortest face edge of the cell, 1 when the shortest is degenerate
func (m *Mesh) CellAspectRatio(cellID int) float64 {
	if cellID < 0 || cellID >= m.NumCells() || m.checkCellFaces(&m.Cells[cellID]) != nil {
		return 1
	}
	var lengths []float64
	for _, fid := range m.Cells[cellID].FaceIDs {
		nodes := m.Faces[fid].NodeIDs
		for i := range nodes {
			a, b := m.Nodes[nodes[i]].Position, m.Nodes[nodes[(i+1)%len(nodes)]].Position
			lengths = append(lengths, b.Sub(a).Norm())
		}
	}
	if len(lengths) == 0 {
		return 1
	}
	minEdge := floats.Min(lengths)
	if minEdge <= minEdgeLength {
		return 1
	}
	return floats.Max(lengths) / minEdge
}

/*
CellSkewness is the largest misalignment over the cell's faces between the face normal and the line from the cell
centroid to the face centroid, as 1 - |cos| of the angle between them. Zero for a cell whose faces all sit square to
its centroid. Faces with no normal or no offset from the centroid are skipped.
*/
func (m *Mesh) CellSkewness(cellID int) (skew float64) {
	if cellID < 0 || cellID >= m.NumCells() || m.checkCellFaces(&m.Cells[cellID]) != nil {
		return
	}
	c := &m.Cells[cellID]
	for _, fid := range c.FaceIDs {
		var (
			f = &m.Faces[fid]
			d = f.Centroid.Sub(c.Centroid)
		)
		if d.Norm() == 0 || f.Normal.Norm() == 0 {
			continue
		}
		cos := math.Abs(d.Normalize().Dot(f.Normal))
		skew = math.Max(skew, 1-math.Min(1, cos))
	}
	return
}

// FaceAngle is the interior angle in degrees at the face's first node, between its second and last nodes
func (m *Mesh) FaceAngle(faceID int) float64 {
	if faceID < 0 || faceID >= m.NumFaces() {
		return 0
	}
	f := &m.Faces[faceID]
	if len(f.NodeIDs) < 3 || m.checkFaceNodes(f) != nil {
		return 0
	}
	var (
		v0 = m.Nodes[f.NodeIDs[0]].Position
		e1 = m.Nodes[f.NodeIDs[1]].Position.Sub(v0).Normalize()
		e2 = m.Nodes[f.NodeIDs[len(f.NodeIDs)-1]].Position.Sub(v0).Normalize()
	)
	cos := math.Max(-1, math.Min(1, e1.Dot(e2)))
	return math.Acos(cos) * 180 / math.Pi
}
