package pipeline

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"sort"
	"strings"

	"github.com/notargets/surfmesh/InputParameters"
	"github.com/notargets/surfmesh/field"
	"github.com/notargets/surfmesh/geometry"
	"github.com/notargets/surfmesh/geometry/boundary"
	"github.com/notargets/surfmesh/geometry/readers"
	"github.com/notargets/surfmesh/geometry/validator"
	"github.com/notargets/surfmesh/mesh"
)

// ErrInvalidGeometry stops a strict run that found geometry defects
var ErrInvalidGeometry = errors.New("geometry failed validation")

// Result carries what each stage produced, stages that did not run leave their part empty
type Result struct {
	Surfaces       []geometry.Surface
	Bounds         geometry.BoundingBox
	Valid          bool
	GeometryErrors []geometry.GeometryError
	Regions        []boundary.Region
	Mesh           *mesh.Mesh
	Quality        *mesh.Quality
	Fields         *field.Manager
}

/*
Pipeline runs surface reading, validation, region extraction and mesh building from one set of parameters. Every
stage reports through Logger, per defect and per region detail is only logged when Verbose is set.
*/
type Pipeline struct {
	Params  *InputParameters.PipelineParameters
	Logger  *log.Logger
	Verbose bool
}

// New creates a pipeline, a nil logger discards all output
func New(pp *InputParameters.PipelineParameters, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Pipeline{Params: pp, Logger: logger}
}

// CheckParameters logs warnings and fails on any parameter error
func (p *Pipeline) CheckParameters() error {
	warnings, errs := p.Params.Validate()
	for _, w := range warnings {
		p.Logger.Printf("warning: %s", w)
	}
	if len(errs) != 0 {
		return fmt.Errorf("invalid parameters: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads the geometry file and applies the configured scale, translation and rotation in that order
func (p *Pipeline) Load() (surfaces []geometry.Surface, bounds geometry.BoundingBox, err error) {
	var (
		g = p.Params.Geometry
		r readers.SurfaceReader
	)
	if r, err = readers.ReadSurfaceFile(g.File); err != nil {
		return
	}
	if g.Scale != 1 {
		r.Scale(g.Scale)
	}
	if len(g.Translate) == 3 {
		r.Translate(geometry.NewVector3(g.Translate[0], g.Translate[1], g.Translate[2]))
	}
	if g.RotateDegrees != 0 && len(g.RotateAxis) == 3 {
		axis := geometry.NewVector3(g.RotateAxis[0], g.RotateAxis[1], g.RotateAxis[2])
		r.Rotate(axis, g.RotateDegrees*math.Pi/180)
	}
	surfaces, bounds = r.Surfaces(), r.Bounds()
	p.Logger.Printf("Read %s: %d surfaces, %d triangles", g.File, len(surfaces), r.NumTriangles())
	p.Logger.Printf("Bounds: %s to %s", bounds.Min, bounds.Max)
	return
}

// NewValidator returns a validator set up from the validation parameters
func (p *Pipeline) NewValidator() (v *validator.Validator) {
	vp := p.Params.Validation
	v = validator.NewValidator()
	v.DegeneracyTolerance = vp.DegeneracyTolerance
	v.NormalTolerance = vp.NormalTolerance
	v.VertexMergeTolerance = vp.VertexMergeTolerance
	v.Parallelism = vp.Parallelism
	return
}

// Validate runs every geometry check and logs a summary of the defects by type
func (p *Pipeline) Validate(surfaces []geometry.Surface) (valid bool, errs []geometry.GeometryError) {
	v := p.NewValidator()
	valid = v.ValidateAll(surfaces)
	errs = v.Errors()
	p.Logger.Printf("Validated %d triangles, %d edges, %d vertices", v.TotalTriangles, v.TotalEdges, v.TotalVertices)
	if valid {
		p.Logger.Printf("Geometry is valid")
		return
	}
	p.LogDefects(errs)
	if loops := v.OpenBoundaryLoops(surfaces); len(loops) != 0 {
		p.Logger.Printf("  %d open boundary loops", len(loops))
	}
	return
}

// LogDefects logs the number of defects of each type, and every defect when verbose
func (p *Pipeline) LogDefects(errs []geometry.GeometryError) {
	var (
		counts = geometry.CountByType(errs)
		ets    = make([]geometry.ErrorType, 0, len(counts))
	)
	for et := range counts {
		ets = append(ets, et)
	}
	sort.Slice(ets, func(i, j int) bool { return ets[i] < ets[j] })
	for _, et := range ets {
		p.Logger.Printf("  %d %s", counts[et], et)
	}
	if p.Verbose {
		for _, ge := range errs {
			p.Logger.Printf("    %s", ge.Error())
		}
	}
}

/*
ExtractRegions groups triangles with the configured method, then merges and renames regions. Merges run in sorted
order of their new names and take every region carrying one of the listed names. Renames apply to every region of
the old name. Names that match no region are logged and skipped.
*/
func (p *Pipeline) ExtractRegions(surfaces []geometry.Surface) (regions []boundary.Region, err error) {
	var (
		bp = p.Params.Boundary
		ex = boundary.NewExtractor()
	)
	ex.AngleTolerance = bp.AngleTolerance
	switch bp.Method {
	case InputParameters.MethodNormal:
		ex.ExtractByNormal(surfaces, bp.AngleTolerance)
	case InputParameters.MethodConnectivity:
		ex.ExtractByConnectivity(surfaces, bp.AngleTolerance)
	case InputParameters.MethodUser:
		directions := make(map[string]geometry.Vector3, len(bp.Directions))
		for name, d := range bp.Directions {
			directions[name] = geometry.NewVector3(d[0], d[1], d[2])
		}
		ex.ExtractByUserDefinition(surfaces, directions)
	default:
		return nil, fmt.Errorf("unknown boundary method %q", bp.Method)
	}

	for _, newName := range sortedKeys(bp.Merge) {
		var (
			wanted  = make(map[string]bool)
			indices []int
		)
		for _, name := range bp.Merge[newName] {
			wanted[name] = true
		}
		for i, r := range ex.Regions() {
			if wanted[r.Name] {
				indices = append(indices, i)
			}
		}
		if !ex.MergeRegions(indices, newName) {
			p.Logger.Printf("warning: merge %s matched no regions", newName)
		}
	}
	for _, oldName := range sortedKeys(bp.Rename) {
		renamed := 0
		for i, r := range ex.Regions() {
			if r.Name == oldName {
				ex.SetRegionName(i, bp.Rename[oldName])
				renamed++
			}
		}
		if renamed == 0 {
			p.Logger.Printf("warning: rename %s matched no regions", oldName)
		}
	}

	regions = ex.Regions()
	p.Logger.Printf("Extracted %d boundary regions", len(regions))
	if p.Verbose {
		for _, r := range regions {
			p.Logger.Printf("  %-16s %6d triangles, area %.6g, normal %s", r.Name, r.NumTriangles(), r.TotalArea,
				r.AverageNormal)
		}
	}
	return
}

// BuildMesh converts the surfaces into a mesh, checks its orientation and computes its quality
func (p *Pipeline) BuildMesh(surfaces []geometry.Surface,
	regions []boundary.Region) (m *mesh.Mesh, q *mesh.Quality, err error) {
	mp := p.Params.Mesh
	if m, err = mesh.FromSurfacesParallel(surfaces, regions, p.Params.PatchTypeMap(), mp.Parallelism); err != nil {
		return
	}
	if !m.Validate() {
		return nil, nil, fmt.Errorf("mesh failed its integrity check")
	}
	if bad := m.CheckOrientation(); len(bad) != 0 {
		p.Logger.Printf("warning: %d cells are not bounded consistently outward: %v", len(bad), bad)
	}
	q = mesh.NewQuality()
	q.AspectRatioThreshold = mp.AspectRatioThreshold
	q.SkewnessThreshold = mp.SkewnessThreshold
	q.ComputeMetrics(m)
	p.Logger.Printf("Mesh: %d nodes, %d faces, %d cells, %d patches",
		m.NumNodes(), m.NumFaces(), m.NumCells(), len(m.PatchNames))
	if p.Verbose {
		p.Logger.Print(q.Report())
	}
	return
}

/*
PatchSurfaces returns one surface per boundary patch, in patch order, made of the patch faces. Faces with more than
three nodes are split into a fan of triangles from their first node. Face ids outside the mesh are skipped.
*/
func PatchSurfaces(m *mesh.Mesh) (surfaces []geometry.Surface) {
	for _, bp := range m.Patches() {
		s := geometry.NewSurface(bp.Name)
		for _, fid := range bp.FaceIDs {
			f, err := m.Face(fid)
			if err != nil {
				continue
			}
			for i := 1; i+1 < len(f.NodeIDs); i++ {
				s.AddTriangle(geometry.NewTriangle(
					m.Nodes[f.NodeIDs[0]].Position,
					m.Nodes[f.NodeIDs[i]].Position,
					m.Nodes[f.NodeIDs[i+1]].Position))
			}
		}
		surfaces = append(surfaces, s)
	}
	return
}

// CellFields registers the per cell geometry as fields sized to the mesh
func CellFields(m *mesh.Mesh) (fm *field.Manager) {
	fm = field.NewManagerForMesh(m)
	var (
		volume   = fm.RegisterSized("volume", field.Scalar)
		centroid = fm.RegisterSized("centroid", field.Vector)
	)
	for i, c := range m.Cells {
		volume.Set(i, 0, c.Volume)
		centroid.Set(i, 0, c.Centroid.X)
		centroid.Set(i, 1, c.Centroid.Y)
		centroid.Set(i, 2, c.Centroid.Z)
	}
	return
}

/*
Run executes every stage. Geometry defects are logged and the run carries on unless the validation parameters are
strict, in which case the partial result is returned with ErrInvalidGeometry.
*/
func (p *Pipeline) Run() (res *Result, err error) {
	res = &Result{}
	if err = p.CheckParameters(); err != nil {
		return
	}
	if res.Surfaces, res.Bounds, err = p.Load(); err != nil {
		return
	}
	res.Valid, res.GeometryErrors = p.Validate(res.Surfaces)
	if !res.Valid && p.Params.Validation.Strict {
		return res, fmt.Errorf("%d defects: %w", len(res.GeometryErrors), ErrInvalidGeometry)
	}
	if res.Regions, err = p.ExtractRegions(res.Surfaces); err != nil {
		return
	}
	if res.Mesh, res.Quality, err = p.BuildMesh(res.Surfaces, res.Regions); err != nil {
		return
	}
	res.Fields = CellFields(res.Mesh)
	if !res.Fields.ValidateAll() {
		p.Logger.Printf("warning: non finite cell geometry in %v", res.Fields.InvalidFields())
	}
	return
}

// Run is a convenience for New(pp, logger).Run()
func Run(pp *InputParameters.PipelineParameters, logger *log.Logger) (*Result, error) {
	return New(pp, logger).Run()
}

func sortedKeys[V any](m map[string]V) (keys []string) {
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return
}
