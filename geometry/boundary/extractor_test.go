package boundary

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/surfmesh/geometry"
)

func vec(x, y, z float64) geometry.Vector3 { return geometry.NewVector3(x, y, z) }

// facing returns a unit right triangle at the origin whose stored normal is n
func facing(n geometry.Vector3) geometry.Triangle {
	tri := geometry.NewTriangle(vec(0, 0, 0), vec(1, 0, 0), vec(0, 1, 0))
	tri.Normal = n.Normalize()
	return tri
}

// tilted returns a normal rotated by deg degrees from +z towards +x
func tilted(deg float64) geometry.Vector3 {
	rad := deg * math.Pi / 180
	return vec(math.Sin(rad), 0, math.Cos(rad))
}

func surfaceOf(tris ...geometry.Triangle) []geometry.Surface {
	s := geometry.NewSurface("test")
	for _, tri := range tris {
		s.AddTriangle(tri)
	}
	return []geometry.Surface{s}
}

func assertVector(t *testing.T, expected, actual geometry.Vector3) {
	t.Helper()
	assert.InDelta(t, expected.X, actual.X, 1e-12)
	assert.InDelta(t, expected.Y, actual.Y, 1e-12)
	assert.InDelta(t, expected.Z, actual.Z, 1e-12)
}

func regionNames(ex *Extractor) (names []string) {
	for _, r := range ex.Regions() {
		names = append(names, r.Name)
	}
	return
}

func TestExtractCube(t *testing.T) {
	var (
		ex       = NewExtractor()
		surfaces = []geometry.Surface{geometry.UnitCube()}
	)
	ex.ExtractBoundaries(surfaces)
	require.Equal(t, 6, ex.NumRegions())
	assert.Equal(t, []string{"z_negative", "z_positive", "y_negative", "y_positive", "x_negative", "x_positive"},
		regionNames(ex))
	for i, r := range ex.Regions() {
		assert.Equal(t, []int{2 * i, 2*i + 1}, r.TriangleIndices)
		assert.InDelta(t, 1., r.TotalArea, 1e-12)
		assert.InDelta(t, 1., r.AverageNormal.Norm(), 1e-12)
	}
	bottom, ok := ex.Region(0)
	require.True(t, ok)
	assertVector(t, vec(0, 0, -1), bottom.AverageNormal)
	assertVector(t, vec(0.5, 0.5, 0), bottom.Centroid)
	right, _ := ex.Region(5)
	assertVector(t, vec(1, 0.5, 0.5), right.Centroid)

	_, ok = ex.Region(6)
	assert.False(t, ok)
	assert.Equal(t, 3, ex.RegionIndex("y_positive"))
	assert.Equal(t, -1, ex.RegionIndex("inlet"))

	// A repeat extraction replaces the regions
	ex.ExtractByNormal(surfaces, 180.1)
	assert.Equal(t, 1, ex.NumRegions())
	ex.Clear()
	assert.Equal(t, 0, ex.NumRegions())
}

func TestExtractByNormal(t *testing.T) {
	testCases := []struct {
		name    string
		normals []geometry.Vector3
		regions int
	}{
		{"Opposite normals", []geometry.Vector3{vec(0, 0, 1), vec(0, 0, -1)}, 2},
		{"Just inside tolerance", []geometry.Vector3{tilted(0), tilted(29)}, 1},
		{"Outside tolerance", []geometry.Vector3{tilted(0), tilted(31)}, 2},
		// The running sum drifts towards later members, so 40 degrees joins a region seeded at 0
		{"Running normal", []geometry.Vector3{tilted(0), tilted(25), tilted(25), tilted(25), tilted(40)}, 1},
		{"Order dependent", []geometry.Vector3{tilted(40), tilted(0), tilted(25), tilted(25), tilted(25)}, 2},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var tris []geometry.Triangle
			for _, n := range tc.normals {
				tris = append(tris, facing(n))
			}
			ex := NewExtractor()
			ex.ExtractByNormal(surfaceOf(tris...), 30)
			assert.Equal(t, tc.regions, ex.NumRegions())
			var total int
			for _, r := range ex.Regions() {
				total += r.NumTriangles()
			}
			assert.Equal(t, len(tc.normals), total)
		})
	}
}

func TestExtractByUserDefinition(t *testing.T) {
	ex := NewExtractor()
	ex.ExtractByUserDefinition([]geometry.Surface{geometry.UnitCube()}, map[string]geometry.Vector3{
		"top":    vec(0, 0, 2),
		"bottom": vec(0, 0, -1),
	})
	require.Equal(t, 2, ex.NumRegions())
	assert.Equal(t, []string{"bottom", "top"}, regionNames(ex))
	bottom, _ := ex.Region(0)
	top, _ := ex.Region(1)
	assert.Equal(t, []int{0, 1}, bottom.TriangleIndices)
	assert.Equal(t, []int{2, 3}, top.TriangleIndices)
	assertVector(t, vec(0, 0, 1), top.AverageNormal)
	assert.InDelta(t, 1., top.TotalArea, 1e-12)

	// The closest direction must also be within tolerance
	ex.ExtractByUserDefinition(surfaceOf(facing(tilted(45))), map[string]geometry.Vector3{"up": vec(0, 0, 1)})
	r, _ := ex.Region(0)
	assert.Empty(t, r.TriangleIndices)
	ex.AngleTolerance = 50
	ex.ExtractByUserDefinition(surfaceOf(facing(tilted(45))), map[string]geometry.Vector3{"up": vec(0, 0, 1)})
	r, _ = ex.Region(0)
	assert.Equal(t, []int{0}, r.TriangleIndices)
}

func TestMergeAndRename(t *testing.T) {
	ex := NewExtractor()
	ex.ExtractBoundaries([]geometry.Surface{geometry.UnitCube()})

	assert.False(t, ex.MergeRegions([]int{-1, 6}, "nothing"))
	assert.Equal(t, 6, ex.NumRegions())

	assert.True(t, ex.MergeRegions([]int{1, 0, 1, 9}, "caps"))
	require.Equal(t, 5, ex.NumRegions())
	assert.Equal(t, []string{"y_negative", "y_positive", "x_negative", "x_positive", "caps"}, regionNames(ex))
	caps, _ := ex.Region(4)
	assert.Equal(t, []int{2, 3, 0, 1}, caps.TriangleIndices)
	assert.InDelta(t, 2., caps.TotalArea, 1e-12)
	assertVector(t, vec(0.5, 0.5, 0.5), caps.Centroid)
	// Opposite faces cancel
	assertVector(t, vec(0, 0, 0), caps.AverageNormal)

	assert.True(t, ex.MergeRegions([]int{2, 3}, "x_faces"))
	assert.Equal(t, []string{"y_negative", "y_positive", "caps", "x_faces"}, regionNames(ex))
	assert.True(t, ex.MergeRegions([]int{0}, "front"))
	front, _ := ex.Region(3)
	assertVector(t, vec(0, -1, 0), front.AverageNormal)

	assert.True(t, ex.SetRegionName(0, "caps"))
	assert.False(t, ex.SetRegionName(4, "bad"))
	assert.False(t, ex.SetRegionName(-1, "bad"))
	assert.Equal(t, []string{"caps", "caps", "x_faces", "front"}, regionNames(ex))
}

func TestNameFromNormal(t *testing.T) {
	testCases := []struct {
		normal geometry.Vector3
		name   string
	}{
		{vec(1, 0, 0), "x_positive"},
		{vec(-0.9, 0.1, 0.3), "x_negative"},
		{vec(0, -1, 0), "y_negative"},
		{vec(0.2, 0.7, 0.1), "y_positive"},
		{vec(0, 0, 1), "z_positive"},
		{vec(1, 1, 1), "z_positive"},
		{vec(1, 1, 0), "z_negative"}, // An x-y tie falls through to z
		{vec(0, 0, 0), "z_negative"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.name, NameFromNormal(tc.normal), tc.normal.String())
	}
}

func TestExtractByConnectivity(t *testing.T) {
	{ // Each cube side is connected and sharp edged
		ex := NewExtractor()
		ex.ExtractByConnectivity([]geometry.Surface{geometry.UnitCube()}, DefaultAngleTolerance)
		assert.Equal(t, []string{"z_negative", "z_positive", "y_negative", "y_positive", "x_negative", "x_positive"},
			regionNames(ex))
	}
	{ // Two separated squares facing the same way
		var (
			square = func(x0 float64) []geometry.Triangle {
				return []geometry.Triangle{
					geometry.NewTriangle(vec(x0, 0, 0), vec(x0+1, 0, 0), vec(x0+1, 1, 0)),
					geometry.NewTriangle(vec(x0, 0, 0), vec(x0+1, 1, 0), vec(x0, 1, 0)),
				}
			}
			surfaces = surfaceOf(append(square(0), square(5)...)...)
			ex       = NewExtractor()
		)
		ex.ExtractByNormal(surfaces, DefaultAngleTolerance)
		assert.Equal(t, 1, ex.NumRegions())
		ex.ExtractByConnectivity(surfaces, DefaultAngleTolerance)
		require.Equal(t, 2, ex.NumRegions())
		first, _ := ex.Region(0)
		second, _ := ex.Region(1)
		assert.Equal(t, []int{0, 1}, first.TriangleIndices)
		assert.Equal(t, []int{2, 3}, second.TriangleIndices)
		assert.Equal(t, "z_positive", second.Name)
		assertVector(t, vec(5.5, 0.5, 0), second.Centroid)
	}
}

func TestRegionsAreCopies(t *testing.T) {
	ex := NewExtractor()
	ex.ExtractBoundaries([]geometry.Surface{geometry.UnitCube()})
	regions := ex.Regions()
	regions[0].TriangleIndices[0] = 99
	regions[0].Name = "changed"
	r, _ := ex.Region(0)
	assert.Equal(t, 0, r.TriangleIndices[0])
	assert.Equal(t, "z_negative", r.Name)
}
