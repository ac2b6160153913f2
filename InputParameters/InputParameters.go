package InputParameters

import (
	"fmt"
	"io"
	"io/ioutil"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/mitchellh/go-homedir"

	"github.com/notargets/surfmesh/types"
)

// Parameters obtained from the YAML pipeline file
type PipelineParameters struct {
	Title      string               `json:"Title"`
	Geometry   GeometryParameters   `json:"Geometry"`
	Validation ValidationParameters `json:"Validation"`
	Boundary   BoundaryParameters   `json:"Boundary"`
	Mesh       MeshParameters       `json:"Mesh"`
}

type GeometryParameters struct {
	File          string    `json:"File"`
	Scale         float64   `json:"Scale"`
	Translate     []float64 `json:"Translate"`     // Offset, applied after scaling
	RotateAxis    []float64 `json:"RotateAxis"`    // Axis through the origin, applied last
	RotateDegrees float64   `json:"RotateDegrees"`
}

type ValidationParameters struct {
	DegeneracyTolerance  float64 `json:"DegeneracyTolerance"`
	NormalTolerance      float64 `json:"NormalTolerance"`
	VertexMergeTolerance float64 `json:"VertexMergeTolerance"` // Zero keys vertices by exact position
	Parallelism          int     `json:"Parallelism"`
	Strict               bool    `json:"Strict"` // Stop the pipeline on any geometry defect
}

type BoundaryParameters struct {
	Method         string                `json:"Method"` // normal, connectivity or user
	AngleTolerance float64               `json:"AngleTolerance"`
	Directions     map[string][3]float64 `json:"Directions"` // Region name to outward direction, for the user method
	Merge          map[string][]string   `json:"Merge"`      // New region name to the regions merged into it
	Rename         map[string]string     `json:"Rename"`
	PatchTypes     map[string]string     `json:"PatchTypes"` // Region name to patch type
}

type MeshParameters struct {
	Parallelism          int     `json:"Parallelism"`
	AspectRatioThreshold float64 `json:"AspectRatioThreshold"`
	SkewnessThreshold    float64 `json:"SkewnessThreshold"`
}

const (
	MethodNormal       = "normal"
	MethodConnectivity = "connectivity"
	MethodUser         = "user"
)

// NewPipelineParameters returns the defaults every parsed file starts from
func NewPipelineParameters() *PipelineParameters {
	return &PipelineParameters{
		Geometry: GeometryParameters{Scale: 1},
		Validation: ValidationParameters{
			DegeneracyTolerance: 1e-10,
			NormalTolerance:     0.1,
			Parallelism:         1,
		},
		Boundary: BoundaryParameters{
			Method:         MethodNormal,
			AngleTolerance: 30,
		},
		Mesh: MeshParameters{
			Parallelism:          1,
			AspectRatioThreshold: 10,
			SkewnessThreshold:    0.85,
		},
	}
}

// Parse overlays the YAML in data on the current values
func (pp *PipelineParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, pp)
}

/*
ReadFile parses a parameter file. A leading ~ is expanded in both the file name and the geometry file, and a relative
geometry file is taken relative to the directory of the parameter file.
*/
func ReadFile(fileName string) (pp *PipelineParameters, err error) {
	var data []byte
	if fileName, err = homedir.Expand(fileName); err != nil {
		return
	}
	if data, err = ioutil.ReadFile(fileName); err != nil {
		return nil, fmt.Errorf("unable to read parameter file %s: %w", fileName, err)
	}
	pp = NewPipelineParameters()
	if err = pp.Parse(data); err != nil {
		return nil, fmt.Errorf("unable to parse parameter file %s: %w", fileName, err)
	}
	if pp.Geometry.File, err = homedir.Expand(pp.Geometry.File); err != nil {
		return
	}
	if pp.Geometry.File != "" && !filepath.IsAbs(pp.Geometry.File) {
		pp.Geometry.File = filepath.Join(filepath.Dir(fileName), pp.Geometry.File)
	}
	return
}

/*
Validate returns problems that stop the pipeline as errs and questionable but usable settings as warnings. Nothing is
corrected.
*/
func (pp *PipelineParameters) Validate() (warnings, errs []string) {
	var (
		g = pp.Geometry
		v = pp.Validation
		b = pp.Boundary
		m = pp.Mesh
	)
	if g.File == "" {
		errs = append(errs, "Geometry file is required")
	} else if ext := strings.ToLower(filepath.Ext(g.File)); ext != ".stl" {
		warnings = append(warnings, fmt.Sprintf("Geometry file extension %q has no reader", ext))
	}
	if g.Scale <= 0 {
		errs = append(errs, "Geometry scale must be positive")
	}
	if len(g.Translate) != 0 && len(g.Translate) != 3 {
		errs = append(errs, "Geometry translate must have 3 components")
	}
	if len(g.RotateAxis) != 0 && len(g.RotateAxis) != 3 {
		errs = append(errs, "Geometry rotate axis must have 3 components")
	}
	if g.RotateDegrees != 0 && len(g.RotateAxis) == 0 {
		errs = append(errs, "Geometry rotation needs a rotate axis")
	}

	if v.DegeneracyTolerance <= 0 {
		errs = append(errs, "Validation degeneracy tolerance must be positive")
	}
	if v.NormalTolerance <= 0 {
		errs = append(errs, "Validation normal tolerance must be positive")
	}
	if v.VertexMergeTolerance < 0 {
		errs = append(errs, "Validation vertex merge tolerance must not be negative")
	}
	if v.Parallelism < 0 || m.Parallelism < 0 {
		errs = append(errs, "Parallelism must not be negative")
	}

	if b.AngleTolerance <= 0 || b.AngleTolerance > 180 {
		errs = append(errs, "Boundary angle tolerance must be in (0, 180] degrees")
	}
	switch b.Method {
	case MethodNormal, MethodConnectivity:
		if len(b.Directions) != 0 {
			warnings = append(warnings, fmt.Sprintf("Boundary directions are ignored by the %s method", b.Method))
		}
	case MethodUser:
		if len(b.Directions) == 0 {
			errs = append(errs, "Boundary method user needs at least one direction")
		}
		for _, name := range sortedKeys(b.Directions) {
			d := b.Directions[name]
			if d[0] == 0 && d[1] == 0 && d[2] == 0 {
				errs = append(errs, fmt.Sprintf("Boundary direction %s is a zero vector", name))
			}
		}
	default:
		errs = append(errs, fmt.Sprintf("Unknown boundary method %q", b.Method))
	}
	for _, name := range sortedKeys(b.Merge) {
		if len(b.Merge[name]) == 0 {
			errs = append(errs, fmt.Sprintf("Boundary merge %s lists no regions", name))
		}
	}
	for _, name := range sortedKeys(b.PatchTypes) {
		if !types.NewPatchType(b.PatchTypes[name]).IsKnown() {
			warnings = append(warnings, fmt.Sprintf("Patch %s has unrecognized type %q", name, b.PatchTypes[name]))
		}
	}

	if m.AspectRatioThreshold <= 0 {
		errs = append(errs, "Mesh aspect ratio threshold must be positive")
	}
	if m.SkewnessThreshold <= 0 {
		errs = append(errs, "Mesh skewness threshold must be positive")
	}
	return
}

// PatchTypeMap resolves the configured patch types
func (pp *PipelineParameters) PatchTypeMap() (ptm map[string]types.PatchType) {
	ptm = make(map[string]types.PatchType, len(pp.Boundary.PatchTypes))
	for name, token := range pp.Boundary.PatchTypes {
		ptm[name] = types.NewPatchType(token)
	}
	return
}

func (pp *PipelineParameters) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", pp.Title)
	fmt.Fprintf(w, "[%s]\t= Geometry File\n", pp.Geometry.File)
	fmt.Fprintf(w, "%8.5f\t\t= Scale\n", pp.Geometry.Scale)
	if len(pp.Geometry.Translate) != 0 {
		fmt.Fprintf(w, "%v\t= Translate\n", pp.Geometry.Translate)
	}
	if pp.Geometry.RotateDegrees != 0 {
		fmt.Fprintf(w, "%8.3f about %v\t= Rotate\n", pp.Geometry.RotateDegrees, pp.Geometry.RotateAxis)
	}
	fmt.Fprintf(w, "%8.2g\t\t= Degeneracy Tolerance\n", pp.Validation.DegeneracyTolerance)
	fmt.Fprintf(w, "%8.5f\t\t= Normal Tolerance\n", pp.Validation.NormalTolerance)
	fmt.Fprintf(w, "[%s]\t\t\t= Boundary Method\n", pp.Boundary.Method)
	fmt.Fprintf(w, "%8.3f\t\t= Angle Tolerance\n", pp.Boundary.AngleTolerance)
	for _, key := range sortedKeys(pp.Boundary.Directions) {
		fmt.Fprintf(w, "Directions[%s] = %v\n", key, pp.Boundary.Directions[key])
	}
	for _, key := range sortedKeys(pp.Boundary.Merge) {
		fmt.Fprintf(w, "Merge[%s] = %v\n", key, pp.Boundary.Merge[key])
	}
	for _, key := range sortedKeys(pp.Boundary.Rename) {
		fmt.Fprintf(w, "Rename[%s] = %s\n", key, pp.Boundary.Rename[key])
	}
	for _, key := range sortedKeys(pp.Boundary.PatchTypes) {
		fmt.Fprintf(w, "PatchTypes[%s] = %s\n", key, pp.Boundary.PatchTypes[key])
	}
	fmt.Fprintf(w, "[%d]\t\t\t\t= Mesh Parallelism\n", pp.Mesh.Parallelism)
}

func sortedKeys[V any](m map[string]V) (keys []string) {
	keys = make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return
}
