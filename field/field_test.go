package field

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/surfmesh/geometry"
	"github.com/notargets/surfmesh/mesh"
)

func TestFieldLayout(t *testing.T) {
	testCases := []struct {
		ft         FieldType
		components int
		name       string
	}{
		{Scalar, 1, "scalar"},
		{Vector, 3, "vector"},
		{Tensor, 9, "tensor"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := NewField("f", tc.ft, 4)
			assert.Equal(t, tc.components, f.NumComponents())
			assert.Equal(t, 4, f.Size())
			assert.Len(t, f.Data, 4*tc.components)
			assert.Equal(t, tc.name, tc.ft.String())

			f.Set(2, tc.components-1, 7)
			assert.Equal(t, 7., f.At(2, tc.components-1))
			assert.Equal(t, 7., f.Data[3*tc.components-1])

			d := f.Dense()
			r, c := d.Dims()
			assert.Equal(t, [2]int{4, tc.components}, [2]int{r, c})
			d.Set(0, 0, -1)
			assert.Equal(t, -1., f.At(0, 0))
		})
	}
	assert.Nil(t, NewField("empty", Scalar, 0).Dense())
}

func TestFieldArithmetic(t *testing.T) {
	u := NewField("U", Vector, 3)
	u.FillComponent(0, 1)
	u.FillComponent(2, -2)
	assert.Equal(t, []float64{1, 1, 1}, u.Component(0))
	assert.Equal(t, []float64{0, 0, 0}, u.Component(1))
	assert.Equal(t, -2., u.MinComponent(2))
	assert.Equal(t, 1., u.MaxComponent(0))
	assert.Equal(t, -2., u.Min())
	assert.Equal(t, 1., u.Max())
	assert.InDelta(t, -1./3., u.Mean(), 1e-15)

	u.Scale(2)
	assert.Equal(t, 2., u.At(1, 0))
	assert.Equal(t, -4., u.At(1, 2))

	v := NewField("V", Vector, 3)
	v.Fill(1)
	require.NoError(t, u.Add(v))
	assert.Equal(t, []float64{3, 1, -3}, u.Data[:3])
	require.NoError(t, u.Subtract(v))
	require.NoError(t, u.Subtract(v))
	assert.Equal(t, []float64{1, -1, -5}, u.Data[6:])

	p := NewField("p", Scalar, 3)
	err := u.Add(p)
	assert.True(t, errors.Is(err, ErrSizeMismatch))
	assert.True(t, errors.Is(u.Subtract(p), ErrSizeMismatch))
	assert.Equal(t, []float64{1, -1, -5}, u.Data[6:])

	// Equal total length is enough
	q := NewField("q", Scalar, 9)
	q.Fill(1)
	assert.NoError(t, u.Add(q))

	u.Clamp(-2, 1.5)
	assert.Equal(t, -2., u.Min())
	assert.Equal(t, 1.5, u.Max())
	u.Fill(10)
	u.ClampComponent(1, 0, 3)
	assert.Equal(t, []float64{10, 3, 10}, u.Data[3:6])

	empty := NewField("e", Tensor, 0)
	assert.Equal(t, 0., empty.Min())
	assert.Equal(t, 0., empty.Max())
	assert.Equal(t, 0., empty.Mean())
	assert.Equal(t, 0., empty.MinComponent(4))
	assert.Equal(t, 0., empty.MaxComponent(4))
	assert.True(t, empty.IsValid())
}

func TestFieldValidity(t *testing.T) {
	f := NewField("T", Scalar, 2)
	assert.True(t, f.IsValid())
	f.Set(1, 0, math.NaN())
	assert.True(t, f.HasNaN())
	assert.False(t, f.HasInf())
	assert.False(t, f.IsValid())
	f.Set(1, 0, math.Inf(-1))
	assert.False(t, f.HasNaN())
	assert.True(t, f.HasInf())
	assert.False(t, f.IsValid())
}

func TestManager(t *testing.T) {
	fm := NewManager()
	fm.Register("p", Scalar, 4)
	fm.Register("U", Vector, 4)
	fm.Register("T", Scalar, 4)
	fm.Register("tau", Tensor, 4)

	assert.Equal(t, 4, fm.NumFields())
	assert.Equal(t, 4, fm.Size())
	assert.Equal(t, []string{"T", "U", "p", "tau"}, fm.Names())
	assert.Equal(t, []string{"T", "p"}, fm.ScalarNames())
	assert.Equal(t, []string{"U"}, fm.VectorNames())
	assert.True(t, fm.Has("U"))
	assert.False(t, fm.Has("k"))
	assert.Equal(t, (1+3+1+9)*4*8, fm.MemoryUsage())

	_, err := fm.Field("k")
	assert.True(t, errors.Is(err, ErrFieldNotFound))

	fm.FillAll(2)
	fm.ScaleAll(1.5)
	u, err := fm.Field("U")
	require.NoError(t, err)
	assert.Equal(t, 3., u.At(3, 2))
	assert.True(t, fm.ValidateAll())
	assert.Empty(t, fm.InvalidFields())

	u.Set(0, 1, math.NaN())
	tau, _ := fm.Field("tau")
	tau.Set(0, 0, math.Inf(1))
	assert.False(t, fm.ValidateAll())
	assert.Equal(t, []string{"U", "tau"}, fm.InvalidFields())

	// Re-registering replaces the field with a zeroed one
	fm.Register("U", Vector, 4)
	assert.Equal(t, []string{"tau"}, fm.InvalidFields())

	fm.Remove("tau")
	fm.Remove("missing")
	assert.Equal(t, []string{"T", "U", "p"}, fm.Names())

	var buf bytes.Buffer
	fm.Print(&buf)
	assert.Contains(t, buf.String(), "Fields: 3, cells: 4")

	fm.ClearAll()
	assert.Equal(t, 0, fm.NumFields())
	assert.Equal(t, 0, fm.Size())
	assert.Empty(t, fm.Names())
}

func TestManagerResize(t *testing.T) {
	fm := NewManager()
	p := fm.Register("p", Scalar, 3)
	u := fm.Register("U", Vector, 3)
	p.Fill(1)
	u.Fill(2)

	fm.Resize(5)
	assert.Equal(t, 5, fm.Size())
	assert.Equal(t, []float64{1, 1, 1, 0, 0}, p.Data)
	assert.Len(t, u.Data, 15)
	assert.Equal(t, 2., u.At(2, 2))
	assert.Equal(t, 0., u.At(3, 0))

	// Shrinking and growing again does not bring old values back
	fm.Resize(2)
	assert.Equal(t, []float64{1, 1}, p.Data)
	fm.Resize(3)
	assert.Equal(t, []float64{1, 1, 0}, p.Data)
	assert.Equal(t, 0., u.At(2, 0))
}

func TestManagerForMesh(t *testing.T) {
	m, err := mesh.FromSurfaces([]geometry.Surface{geometry.UnitCube()}, nil, nil)
	require.NoError(t, err)
	fm := NewManagerForMesh(m)
	assert.Equal(t, 1, fm.Size())
	vol := fm.RegisterSized("volume", Scalar)
	vol.Set(0, 0, m.Cells[0].Volume)
	assert.InDelta(t, 1., vol.Mean(), 1e-12)

	m.AddCell(nil)
	fm.ResizeForMesh(m)
	assert.Equal(t, 2, vol.Size())
	assert.Equal(t, 0., vol.At(1, 0))
}
