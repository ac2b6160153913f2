package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/surfmesh/geometry"
	"github.com/notargets/surfmesh/geometry/readers"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func writeSTL(t *testing.T, dir, name string, s geometry.Surface) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, readers.WriteSTLText(&buf, []geometry.Surface{s}))
	fileName := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(fileName, buf.Bytes(), 0644))
	return fileName
}

func TestValidateCommand(t *testing.T) {
	var (
		dir  = t.TempDir()
		cube = writeSTL(t, dir, "cube.stl", geometry.UnitCube())
		box  = writeSTL(t, dir, "box.stl", geometry.OpenBox())
	)
	out, err := executeCommand(t, "validate", "--extended=false", cube)
	require.NoError(t, err)
	assert.Contains(t, out, "Geometry is valid")

	out, err = executeCommand(t, "validate", "--extended=true", box)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "4 geometry defects")
	assert.Contains(t, out, "4 open_edge")

	_, err = executeCommand(t, "validate", "--extended=false", filepath.Join(dir, "missing.stl"))
	assert.Error(t, err)
}

func TestRegionsAndMeshCommands(t *testing.T) {
	var (
		dir     = t.TempDir()
		cube    = writeSTL(t, dir, "cube.stl", geometry.UnitCube())
		patches = filepath.Join(dir, "patches.stl")
		params  = filepath.Join(dir, "pipeline.yaml")
	)
	out, err := executeCommand(t, "regions", cube)
	require.NoError(t, err)
	assert.Contains(t, out, "Extracted 6 boundary regions")
	assert.Contains(t, out, "x_positive")

	require.NoError(t, os.WriteFile(params, []byte(`
Geometry:
  File: cube.stl
Boundary:
  Rename:
    z_negative: floor
  PatchTypes:
    floor: symmetry
`), 0644))
	t.Cleanup(func() {
		_ = rootCmd.PersistentFlags().Set("params", "")
		_ = MeshCmd.Flags().Set("patches", "")
	})
	out, err = executeCommand(t, "mesh", "-I", params, "--patches", patches)
	require.NoError(t, err)
	assert.Contains(t, out, "Cells: 1")
	assert.Contains(t, out, "floor (symmetry): 2 faces")
	assert.Contains(t, out, "=== Mesh Quality Report ===")

	r, err := readers.ReadSurfaceFile(patches)
	require.NoError(t, err)
	surfaces := r.Surfaces()
	require.Len(t, surfaces, 6)
	assert.Equal(t, "floor", surfaces[0].Name)
	assert.Equal(t, 12, r.NumTriangles())
}

func TestTransformCommand(t *testing.T) {
	var (
		dir    = t.TempDir()
		cube   = writeSTL(t, dir, "cube.stl", geometry.UnitCube())
		output = filepath.Join(dir, "big.stl")
	)
	_, err := executeCommand(t, "transform", cube)
	assert.Error(t, err)

	_, err = executeCommand(t, "transform", "--scale", "2", "--translate", "1,0,0", "--binary", "-o", output, cube)
	require.NoError(t, err)
	r, err := readers.ReadSurfaceFile(output)
	require.NoError(t, err)
	assert.Equal(t, 12, r.NumTriangles())
	assert.Equal(t, geometry.NewVector3(1, 0, 0), r.Bounds().Min)
	assert.Equal(t, geometry.NewVector3(3, 2, 2), r.Bounds().Max)
}
