package field

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrFieldNotFound = errors.New("field not found")
	ErrSizeMismatch  = errors.New("field sizes do not match")
)

type FieldType uint8

const (
	Scalar FieldType = iota
	Vector
	Tensor
)

var FieldTypeNames = map[FieldType]string{
	Scalar: "scalar",
	Vector: "vector",
	Tensor: "tensor",
}

func (ft FieldType) String() string { return FieldTypeNames[ft] }

// NumComponents is the number of values stored per cell
func (ft FieldType) NumComponents() int {
	switch ft {
	case Vector:
		return 3
	case Tensor:
		return 9
	default:
		return 1
	}
}

/*
Field is a flat per cell array. The components of a cell are contiguous, so component c of cell i lives at
Data[i*NumComponents + c]. Cell and component indices are not checked beyond what slice indexing does.
*/
type Field struct {
	Name string
	Type FieldType
	Data []float64
}

func NewField(name string, ft FieldType, size int) *Field {
	return &Field{
		Name: name,
		Type: ft,
		Data: make([]float64, size*ft.NumComponents()),
	}
}

func (f *Field) NumComponents() int { return f.Type.NumComponents() }

// Size is the number of cells
func (f *Field) Size() int { return len(f.Data) / f.NumComponents() }

func (f *Field) At(cell, comp int) float64 { return f.Data[cell*f.NumComponents()+comp] }

func (f *Field) Set(cell, comp int, val float64) { f.Data[cell*f.NumComponents()+comp] = val }

// Component returns a copy of one component over all cells
func (f *Field) Component(comp int) (vals []float64) {
	nc := f.NumComponents()
	vals = make([]float64, f.Size())
	for i := range vals {
		vals[i] = f.Data[i*nc+comp]
	}
	return
}

// Dense returns a Size x NumComponents matrix sharing storage with the field, nil for an empty field
func (f *Field) Dense() *mat.Dense {
	if f.Size() == 0 {
		return nil
	}
	return mat.NewDense(f.Size(), f.NumComponents(), f.Data)
}

func (f *Field) Fill(val float64) {
	for i := range f.Data {
		f.Data[i] = val
	}
}

func (f *Field) FillComponent(comp int, val float64) {
	nc := f.NumComponents()
	for i := comp; i < len(f.Data); i += nc {
		f.Data[i] = val
	}
}

func (f *Field) Scale(factor float64) { floats.Scale(factor, f.Data) }

func (f *Field) checkSize(other *Field) error {
	if len(f.Data) != len(other.Data) {
		return fmt.Errorf("%s (%d values) and %s (%d values): %w",
			f.Name, len(f.Data), other.Name, len(other.Data), ErrSizeMismatch)
	}
	return nil
}

// Add adds other element wise, fields of different total length are left untouched
func (f *Field) Add(other *Field) error {
	if err := f.checkSize(other); err != nil {
		return err
	}
	floats.Add(f.Data, other.Data)
	return nil
}

func (f *Field) Subtract(other *Field) error {
	if err := f.checkSize(other); err != nil {
		return err
	}
	floats.Sub(f.Data, other.Data)
	return nil
}

// Min is taken over all components, 0 for an empty field
func (f *Field) Min() float64 {
	if len(f.Data) == 0 {
		return 0
	}
	return floats.Min(f.Data)
}

func (f *Field) Max() float64 {
	if len(f.Data) == 0 {
		return 0
	}
	return floats.Max(f.Data)
}

func (f *Field) Mean() float64 {
	if len(f.Data) == 0 {
		return 0
	}
	return stat.Mean(f.Data, nil)
}

func (f *Field) MinComponent(comp int) float64 {
	if f.Size() == 0 {
		return 0
	}
	return floats.Min(f.Component(comp))
}

func (f *Field) MaxComponent(comp int) float64 {
	if f.Size() == 0 {
		return 0
	}
	return floats.Max(f.Component(comp))
}

func clamp(val, minVal, maxVal float64) float64 {
	return math.Max(minVal, math.Min(maxVal, val))
}

func (f *Field) Clamp(minVal, maxVal float64) {
	for i, val := range f.Data {
		f.Data[i] = clamp(val, minVal, maxVal)
	}
}

func (f *Field) ClampComponent(comp int, minVal, maxVal float64) {
	nc := f.NumComponents()
	for i := comp; i < len(f.Data); i += nc {
		f.Data[i] = clamp(f.Data[i], minVal, maxVal)
	}
}

func (f *Field) HasNaN() bool { return floats.HasNaN(f.Data) }

func (f *Field) HasInf() bool {
	for _, val := range f.Data {
		if math.IsInf(val, 0) {
			return true
		}
	}
	return false
}

func (f *Field) IsValid() bool { return !f.HasNaN() && !f.HasInf() }

// resize keeps the leading cells and zero fills any new ones
func (f *Field) resize(size int) {
	n := size * f.NumComponents()
	if n <= cap(f.Data) {
		old := len(f.Data)
		f.Data = f.Data[:n]
		for i := old; i < n; i++ {
			f.Data[i] = 0
		}
		return
	}
	data := make([]float64, n)
	copy(data, f.Data)
	f.Data = data
}
