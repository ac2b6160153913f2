package mesh

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/surfmesh/geometry"
	"github.com/notargets/surfmesh/geometry/boundary"
	"github.com/notargets/surfmesh/types"
)

func cubeRegions(t *testing.T, surfaces []geometry.Surface) []boundary.Region {
	ex := boundary.NewExtractor()
	ex.ExtractBoundaries(surfaces)
	require.Equal(t, 6, ex.NumRegions())
	return ex.Regions()
}

func TestFromSurfacesCube(t *testing.T) {
	var (
		surfaces = []geometry.Surface{geometry.UnitCube()}
		regions  = cubeRegions(t, surfaces)
	)
	regions[0].Name = "inlet"
	m, err := FromSurfaces(surfaces, regions, map[string]types.PatchType{"z_positive": types.PatchOutlet})
	require.NoError(t, err)

	assert.Equal(t, 8, m.NumNodes())
	assert.Equal(t, 12, m.NumFaces())
	assert.Equal(t, 1, m.NumCells())
	assert.Equal(t, 12, m.NumBoundaryFaces())
	assert.Equal(t, 0, m.NumInternalFaces())
	assert.True(t, m.Validate())

	c := m.Cells[0]
	assert.InDelta(t, 1., c.Volume, 1e-12)
	assert.InDelta(t, 1., c.SignedVolume, 1e-12)
	assertVector(t, geometry.NewVector3(0.5, 0.5, 0.5), c.Centroid, 1e-12)
	assert.Empty(t, m.CheckOrientation())
	for i := range m.Nodes {
		cells, err := m.NodeCells(i)
		require.NoError(t, err)
		assert.Equal(t, []int{0}, cells)
	}
	for i, f := range m.Faces {
		assert.InDelta(t, 0.5, f.Area, 1e-12)
		assertVector(t, surfaces[0].Triangles[i].Normal, f.Normal, 1e-12)
	}

	patches := m.Patches()
	require.Len(t, patches, 6)
	expected := []struct {
		name      string
		patchType types.PatchType
	}{
		{"inlet", types.PatchInlet},
		{"z_positive", types.PatchOutlet},
		{"y_negative", types.PatchWall},
		{"y_positive", types.PatchWall},
		{"x_negative", types.PatchWall},
		{"x_positive", types.PatchWall},
	}
	for i, e := range expected {
		assert.Equal(t, e.name, patches[i].Name)
		assert.Equal(t, e.patchType, patches[i].Type)
		assert.Equal(t, []int{2 * i, 2*i + 1}, patches[i].FaceIDs)
	}

	q := NewQuality()
	q.ComputeMetrics(m)
	assert.InDelta(t, 1.4142135623730951, q.MaxAspectRatio, 1e-12)
	assert.Equal(t, 0, q.NumBadCells)
}

func TestFromSurfacesInverted(t *testing.T) {
	cube := geometry.UnitCube()
	for i, tri := range cube.Triangles {
		cube.Triangles[i] = geometry.NewTriangle(tri.Vertices[0], tri.Vertices[2], tri.Vertices[1])
	}
	m, err := FromSurfaces([]geometry.Surface{cube}, nil, nil)
	require.NoError(t, err)
	assert.InDelta(t, 1., m.Cells[0].Volume, 1e-12)
	assert.InDelta(t, -1., m.Cells[0].SignedVolume, 1e-12)
	assert.Equal(t, []int{0}, m.CheckOrientation())
	assert.Empty(t, m.Patches())
}

func TestFromSurfacesSharedNames(t *testing.T) {
	surfaces := []geometry.Surface{geometry.UnitCube()}
	regions := cubeRegions(t, surfaces)
	for i := range regions {
		regions[i].Name = "walls"
	}
	m, err := FromSurfaces(surfaces, regions, nil)
	require.NoError(t, err)
	require.Len(t, m.Patches(), 1)
	assert.Len(t, m.Boundaries["walls"].FaceIDs, 12)
	assert.Equal(t, types.PatchWall, m.Boundaries["walls"].Type)
}

func TestFromSurfacesFailures(t *testing.T) {
	_, err := FromSurfaces(nil, nil, nil)
	assert.Error(t, err)
	_, err = FromSurfaces([]geometry.Surface{geometry.NewSurface("empty")}, nil, nil)
	assert.Error(t, err)

	regions := []boundary.Region{{Name: "bad", TriangleIndices: []int{0, 12}}}
	_, err = FromSurfaces([]geometry.Surface{geometry.UnitCube()}, regions, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

func TestFromSurfacesParallel(t *testing.T) {
	var (
		surfaces = []geometry.Surface{geometry.UnitCube()}
		regions  = cubeRegions(t, surfaces)
	)
	serial, err := FromSurfaces(surfaces, regions, nil)
	require.NoError(t, err)
	for _, np := range []int{0, 1, 3, 16} {
		m, err := FromSurfacesParallel(surfaces, regions, nil, np)
		require.NoError(t, err)
		for i := range serial.Faces {
			assert.InDelta(t, serial.Faces[i].Area, m.Faces[i].Area, 1e-14)
			assert.Equal(t, serial.Faces[i].Normal, m.Faces[i].Normal)
			assert.Equal(t, serial.Faces[i].Centroid, m.Faces[i].Centroid)
		}
		assert.Equal(t, serial.Cells[0].Volume, m.Cells[0].Volume)
		assert.Equal(t, serial.Cells[0].SignedVolume, m.Cells[0].SignedVolume)
		assert.Equal(t, serial.Cells[0].Centroid, m.Cells[0].Centroid)
		assert.Equal(t, serial.Cells[0].Neighbors, m.Cells[0].Neighbors)
	}
}
