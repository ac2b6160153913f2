package readers

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/surfmesh/geometry"
)

const (
	stlHeaderSize    = 80
	stlRecordSize    = 50 // 12 float32 + 2 byte attribute count
	stlDefaultSolid  = "default"
	stlTextMarker    = "solid"
	stlTextProbeSize = 80
)

// STLReader reads triangle soup in either the text or the binary STL encoding
type STLReader struct {
	surfaceSet
}

func NewSTLReader() *STLReader {
	r := &STLReader{}
	r.reset()
	return r
}

// Load replaces any previously loaded geometry. On failure no surfaces are retained.
func (r *STLReader) Load(filename string) (err error) {
	var data []byte
	r.reset()
	if data, err = os.ReadFile(filename); err != nil {
		return fmt.Errorf("unable to read STL file %s: %w", filename, err)
	}
	var surfaces []geometry.Surface
	if IsTextSTL(data) {
		surfaces, err = ParseTextSTL(data)
	} else {
		surfaces, err = ParseBinarySTL(data)
	}
	if err != nil {
		return fmt.Errorf("unable to load STL file %s: %w", filename, err)
	}
	r.surfaces = surfaces
	r.computeBounds()
	r.loaded = true
	return nil
}

/*
IsTextSTL reports whether data is the text encoding. Binary files may also begin with "solid" in their header, so the
second line is probed for a "facet" or "endsolid" keyword before accepting the text encoding.
*/
func IsTextSTL(data []byte) bool {
	probe := data
	if len(probe) > stlTextProbeSize {
		probe = probe[:stlTextProbeSize]
	}
	if !bytes.HasPrefix(bytes.ToLower(probe), []byte(stlTextMarker)) {
		return false
	}
	lines := bytes.SplitN(data, []byte("\n"), 3)
	if len(lines) < 2 {
		return false
	}
	second := bytes.ToLower(lines[1])
	return bytes.Contains(second, []byte("facet")) || bytes.Contains(second, []byte("endsolid"))
}

// ParseTextSTL parses the line oriented text encoding. Each solid/endsolid block becomes one surface.
func ParseTextSTL(data []byte) (surfaces []geometry.Surface, err error) {
	var (
		scanner     = bufio.NewScanner(bytes.NewReader(data))
		surface     = geometry.NewSurface(stlDefaultSolid)
		tri         geometry.Triangle
		normal      geometry.Vector3
		vertexCount int
		lineNumber  int
	)
	for scanner.Scan() {
		lineNumber++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		keyword, tokens := strings.ToLower(fields[0]), fields[1:]
		switch keyword {
		case "solid":
			if len(tokens) > 0 {
				surface.Name = tokens[0]
			}
		case "facet":
			normal = geometry.Vector3{}
			if len(tokens) >= 4 && strings.ToLower(tokens[0]) == "normal" {
				if normal, err = parseVector(tokens[1:4]); err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNumber, err)
				}
			}
			vertexCount = 0
		case "vertex":
			if len(tokens) >= 3 && vertexCount < 3 {
				if tri.Vertices[vertexCount], err = parseVector(tokens[:3]); err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNumber, err)
				}
				vertexCount++
			}
		case "endfacet":
			if vertexCount == 3 {
				tri.Normal = normal
				surface.AddTriangle(tri)
			}
			vertexCount = 0
		case "endsolid":
			if surface.NumTriangles() > 0 {
				surfaces = append(surfaces, surface)
				surface = geometry.NewSurface(stlDefaultSolid)
			}
		}
	}
	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading text STL: %w", err)
	}
	if surface.NumTriangles() > 0 {
		surfaces = append(surfaces, surface)
	}
	if len(surfaces) == 0 {
		return nil, fmt.Errorf("no triangles found in text STL")
	}
	return
}

func parseVector(tokens []string) (v geometry.Vector3, err error) {
	var xyz [3]float64
	for i := 0; i < 3; i++ {
		if xyz[i], err = strconv.ParseFloat(tokens[i], 64); err != nil {
			return geometry.Vector3{}, fmt.Errorf("invalid numeric token %q: %w", tokens[i], err)
		}
	}
	return geometry.NewVector3(xyz[0], xyz[1], xyz[2]), nil
}

// ParseBinarySTL parses the fixed record binary encoding into a single surface
func ParseBinarySTL(data []byte) (surfaces []geometry.Surface, err error) {
	if len(data) < stlHeaderSize+4 {
		return nil, fmt.Errorf("binary STL too short for header: %d bytes", len(data))
	}
	var (
		count    = int64(binary.LittleEndian.Uint32(data[stlHeaderSize:]))
		body     = data[stlHeaderSize+4:]
		required = count * stlRecordSize
		surface  = geometry.NewSurface(stlDefaultSolid)
	)
	if count == 0 {
		return nil, fmt.Errorf("binary STL declares zero triangles")
	}
	if int64(len(body)) < required {
		return nil, fmt.Errorf("malformed binary STL: %d triangles declared, %d bytes of records present, need %d",
			count, len(body), required)
	}
	surface.Triangles = make([]geometry.Triangle, count)
	for i := int64(0); i < count; i++ {
		rec := body[i*stlRecordSize : (i+1)*stlRecordSize]
		surface.Triangles[i] = geometry.Triangle{
			Normal: getVector(rec[0:12]),
			Vertices: [3]geometry.Vector3{
				getVector(rec[12:24]),
				getVector(rec[24:36]),
				getVector(rec[36:48]),
			},
		}
	}
	return []geometry.Surface{surface}, nil
}

func getVector(b []byte) geometry.Vector3 {
	_ = b[:12]
	return geometry.Vector3{
		X: float64(math.Float32frombits(binary.LittleEndian.Uint32(b[:4]))),
		Y: float64(math.Float32frombits(binary.LittleEndian.Uint32(b[4:8]))),
		Z: float64(math.Float32frombits(binary.LittleEndian.Uint32(b[8:12]))),
	}
}
