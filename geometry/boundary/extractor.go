package boundary

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/notargets/surfmesh/geometry"
)

// DefaultAngleTolerance is the normal similarity threshold in degrees
const DefaultAngleTolerance = 30.

// Region is a named group of triangles, indexed globally over surfaces in order and then triangles in order
type Region struct {
	Name            string
	TriangleIndices []int
	AverageNormal   geometry.Vector3
	Centroid        geometry.Vector3 // Area weighted
	TotalArea       float64
}

func (r Region) NumTriangles() int { return len(r.TriangleIndices) }

func (r Region) copy() Region {
	r.TriangleIndices = append([]int(nil), r.TriangleIndices...)
	return r
}

/*
Extractor groups surface triangles into boundary regions. Each extraction replaces the regions held by the
extractor, which can then be renamed and merged before they are turned into mesh boundary patches.
*/
type Extractor struct {
	AngleTolerance float64 // Degrees, used when matching against user supplied directions
	regions        []Region
}

func NewExtractor() *Extractor {
	return &Extractor{AngleTolerance: DefaultAngleTolerance}
}

// ExtractBoundaries groups triangles by normal using the default tolerance
func (ex *Extractor) ExtractBoundaries(surfaces []geometry.Surface) {
	ex.ExtractByNormal(surfaces, DefaultAngleTolerance)
}

/*
ExtractByNormal makes a single greedy pass over the triangles. Each triangle joins the first region whose running
normal sum lies within angleTolerance degrees of the triangle normal, otherwise it seeds a new region. Regions are
never revisited, so the grouping depends on triangle order. Regions are named after the dominant axis of their normal.
*/
func (ex *Extractor) ExtractByNormal(surfaces []geometry.Surface, angleTolerance float64) {
	var (
		sums []geometry.Vector3
		k    int
	)
	ex.Clear()
	for _, s := range surfaces {
		for _, tri := range s.Triangles {
			assigned := false
			for i := range ex.regions {
				if NormalsAreSimilar(tri.Normal, sums[i].Normalize(), angleTolerance) {
					ex.regions[i].TriangleIndices = append(ex.regions[i].TriangleIndices, k)
					sums[i] = sums[i].Add(tri.Normal)
					assigned = true
					break
				}
			}
			if !assigned {
				ex.regions = append(ex.regions, Region{TriangleIndices: []int{k}})
				sums = append(sums, tri.Normal)
			}
			k++
		}
	}
	for i := range ex.regions {
		ex.regions[i].AverageNormal = sums[i]
	}
	ex.ComputeRegionStatistics(surfaces)
	ex.AutoNameRegions()
}

/*
ExtractByUserDefinition seeds one region per named direction, in name order, and gives each triangle to the region
whose direction has the largest dot product with the triangle normal. The assignment is only made when that best
direction is also within AngleTolerance degrees, other triangles belong to no region.
*/
func (ex *Extractor) ExtractByUserDefinition(surfaces []geometry.Surface, directions map[string]geometry.Vector3) {
	var (
		names = make([]string, 0, len(directions))
		k     int
	)
	ex.Clear()
	for name := range directions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ex.regions = append(ex.regions, Region{
			Name:          name,
			AverageNormal: directions[name].Normalize(),
		})
	}
	for _, s := range surfaces {
		for _, tri := range s.Triangles {
			var (
				best    = -1
				bestDot = -1.
			)
			for i, r := range ex.regions {
				if dot := tri.Normal.Dot(r.AverageNormal); dot > bestDot {
					best, bestDot = i, dot
				}
			}
			if best >= 0 && NormalsAreSimilar(tri.Normal, ex.regions[best].AverageNormal, ex.AngleTolerance) {
				ex.regions[best].TriangleIndices = append(ex.regions[best].TriangleIndices, k)
			}
			k++
		}
	}
	ex.ComputeRegionStatistics(surfaces)
}

/*
ComputeRegionStatistics refreshes each region's total area and area weighted centroid from the surfaces its
triangle indices refer to, and normalizes its normal. Indices beyond the surfaces are skipped.
*/
func (ex *Extractor) ComputeRegionStatistics(surfaces []geometry.Surface) {
	tris := make([]geometry.Triangle, 0, geometry.CountTriangles(surfaces))
	for _, s := range surfaces {
		tris = append(tris, s.Triangles...)
	}
	for i := range ex.regions {
		r := &ex.regions[i]
		var (
			n          = len(r.TriangleIndices)
			xs, ys, zs = make([]float64, 0, n), make([]float64, 0, n), make([]float64, 0, n)
			areas      = make([]float64, 0, n)
		)
		r.TotalArea = 0
		for _, k := range r.TriangleIndices {
			if k < 0 || k >= len(tris) {
				continue
			}
			c := tris[k].Centroid()
			xs, ys, zs = append(xs, c.X), append(ys, c.Y), append(zs, c.Z)
			area := tris[k].Area()
			areas = append(areas, area)
			r.TotalArea += area
		}
		r.AverageNormal = r.AverageNormal.Normalize()
		if len(areas) == 0 {
			r.Centroid = geometry.Vector3{}
			continue
		}
		weights := areas
		if r.TotalArea == 0 {
			weights = nil
		}
		r.Centroid = geometry.NewVector3(stat.Mean(xs, weights), stat.Mean(ys, weights), stat.Mean(zs, weights))
	}
}

// AutoNameRegions names every unnamed region after its dominant normal axis
func (ex *Extractor) AutoNameRegions() {
	for i := range ex.regions {
		if ex.regions[i].Name == "" {
			ex.regions[i].Name = NameFromNormal(ex.regions[i].AverageNormal)
		}
	}
}

// NameFromNormal returns the axis name of the largest normal component, ties go to z then y
func NameFromNormal(n geometry.Vector3) string {
	var (
		absX, absY, absZ = math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)
		sign             = func(c float64) string {
			if c > 0 {
				return "positive"
			}
			return "negative"
		}
	)
	switch {
	case absX > absY && absX > absZ:
		return "x_" + sign(n.X)
	case absY > absX && absY > absZ:
		return "y_" + sign(n.Y)
	default:
		return "z_" + sign(n.Z)
	}
}

// NormalsAreSimilar reports whether the angle between unit normals n1 and n2 is below tolerance degrees
func NormalsAreSimilar(n1, n2 geometry.Vector3, tolerance float64) bool {
	dot := math.Max(-1, math.Min(1, n1.Dot(n2)))
	return math.Acos(dot)*180/math.Pi < tolerance
}

// SetRegionName renames a region, names need not be unique. Returns false if index is out of range.
func (ex *Extractor) SetRegionName(index int, name string) bool {
	if index < 0 || index >= len(ex.regions) {
		return false
	}
	ex.regions[index].Name = name
	return true
}

/*
MergeRegions replaces the regions at indices with one region named newName appended at the end. Triangle lists are
concatenated in the order given, areas are summed, and the normal and centroid are the area weighted averages of the
merged regions. Out of range and repeated indices are ignored. If no index is valid the regions are unchanged and
MergeRegions returns false.
*/
func (ex *Extractor) MergeRegions(indices []int, newName string) bool {
	var (
		merged     = Region{Name: newName}
		seen       = make(map[int]bool, len(indices))
		valid      []int
		normal     geometry.Vector3
		centroid   geometry.Vector3
		unweighted geometry.Vector3
	)
	for _, idx := range indices {
		if idx < 0 || idx >= len(ex.regions) || seen[idx] {
			continue
		}
		seen[idx] = true
		valid = append(valid, idx)
		r := ex.regions[idx]
		merged.TriangleIndices = append(merged.TriangleIndices, r.TriangleIndices...)
		merged.TotalArea += r.TotalArea
		normal = normal.Add(r.AverageNormal.Scale(r.TotalArea))
		centroid = centroid.Add(r.Centroid.Scale(r.TotalArea))
		unweighted = unweighted.Add(r.AverageNormal)
	}
	if len(valid) == 0 {
		return false
	}
	if merged.TotalArea > 0 {
		merged.AverageNormal = normal.Normalize()
		merged.Centroid = centroid.Scale(1 / merged.TotalArea)
	} else {
		merged.AverageNormal = unweighted.Normalize()
	}
	sort.Sort(sort.Reverse(sort.IntSlice(valid)))
	for _, idx := range valid {
		ex.regions = append(ex.regions[:idx], ex.regions[idx+1:]...)
	}
	ex.regions = append(ex.regions, merged)
	return true
}

// Regions returns a copy of the current regions
func (ex *Extractor) Regions() []Region {
	out := make([]Region, len(ex.regions))
	for i, r := range ex.regions {
		out[i] = r.copy()
	}
	return out
}

func (ex *Extractor) NumRegions() int { return len(ex.regions) }

func (ex *Extractor) Region(index int) (r Region, ok bool) {
	if index < 0 || index >= len(ex.regions) {
		return
	}
	return ex.regions[index].copy(), true
}

// RegionIndex returns the index of the first region with the given name, or -1
func (ex *Extractor) RegionIndex(name string) int {
	for i, r := range ex.regions {
		if r.Name == name {
			return i
		}
	}
	return -1
}

func (ex *Extractor) Clear() { ex.regions = nil }
