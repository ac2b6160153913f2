package field

import (
	"fmt"
	"io"
	"sort"
)

// CellCounter is anything that can size a set of per cell fields, mesh.Mesh among others
type CellCounter interface {
	NumCells() int
}

/*
Manager owns a set of named fields kept at a common cell count. Registering a field sets the common size, Resize
changes every field to a new one. All name listings are sorted.
*/
type Manager struct {
	fields map[string]*Field
	size   int
}

func NewManager() *Manager {
	return &Manager{fields: make(map[string]*Field)}
}

// NewManagerForMesh creates a manager whose fields will be sized to the cells of m
func NewManagerForMesh(m CellCounter) *Manager {
	fm := NewManager()
	fm.size = m.NumCells()
	return fm
}

// Register creates a zeroed field, replacing any field of the same name
func (fm *Manager) Register(name string, ft FieldType, size int) *Field {
	f := NewField(name, ft, size)
	fm.fields[name] = f
	fm.size = size
	return f
}

// RegisterSized registers a field at the manager's current cell count
func (fm *Manager) RegisterSized(name string, ft FieldType) *Field {
	return fm.Register(name, ft, fm.size)
}

func (fm *Manager) Field(name string) (*Field, error) {
	f, ok := fm.fields[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrFieldNotFound)
	}
	return f, nil
}

func (fm *Manager) Has(name string) bool {
	_, ok := fm.fields[name]
	return ok
}

func (fm *Manager) Remove(name string) { delete(fm.fields, name) }

func (fm *Manager) ClearAll() {
	fm.fields = make(map[string]*Field)
	fm.size = 0
}

func (fm *Manager) NumFields() int { return len(fm.fields) }

// Size is the common cell count
func (fm *Manager) Size() int { return fm.size }

func (fm *Manager) namesWhere(keep func(f *Field) bool) (names []string) {
	for name, f := range fm.fields {
		if keep(f) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return
}

func (fm *Manager) Names() []string {
	return fm.namesWhere(func(*Field) bool { return true })
}

func (fm *Manager) ScalarNames() []string {
	return fm.namesWhere(func(f *Field) bool { return f.Type == Scalar })
}

func (fm *Manager) VectorNames() []string {
	return fm.namesWhere(func(f *Field) bool { return f.Type == Vector })
}

func (fm *Manager) FillAll(val float64) {
	for _, f := range fm.fields {
		f.Fill(val)
	}
}

func (fm *Manager) ScaleAll(factor float64) {
	for _, f := range fm.fields {
		f.Scale(factor)
	}
}

// ValidateAll reports whether no field holds a NaN or an Inf
func (fm *Manager) ValidateAll() bool {
	return len(fm.InvalidFields()) == 0
}

func (fm *Manager) InvalidFields() []string {
	return fm.namesWhere(func(f *Field) bool { return !f.IsValid() })
}

const bytesPerValue = 8

// MemoryUsage is the number of bytes held by field values
func (fm *Manager) MemoryUsage() (total int) {
	for _, f := range fm.fields {
		total += len(f.Data) * bytesPerValue
	}
	return
}

// Resize changes every field to size cells, keeping existing values and zero filling new cells
func (fm *Manager) Resize(size int) {
	for _, f := range fm.fields {
		f.resize(size)
	}
	fm.size = size
}

// ResizeForMesh keeps the fields in step with the cell count of m
func (fm *Manager) ResizeForMesh(m CellCounter) {
	fm.Resize(m.NumCells())
}

func (fm *Manager) Print(w io.Writer) {
	fmt.Fprintf(w, "Fields: %d, cells: %d, memory: %d bytes\n", fm.NumFields(), fm.size, fm.MemoryUsage())
	for _, name := range fm.Names() {
		f := fm.fields[name]
		fmt.Fprintf(w, "  %-16s %-7s min %-12.5g max %-12.5g mean %.5g\n", name, f.Type, f.Min(), f.Max(), f.Mean())
	}
}
