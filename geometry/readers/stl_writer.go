package readers

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/notargets/surfmesh/geometry"
)

// WriteSTLText writes each surface as its own solid block. Coordinates are
// written with the shortest representation that parses back to the same value.
func WriteSTLText(w io.Writer, surfaces []geometry.Surface) error {
	bw := bufio.NewWriter(w)
	for _, s := range surfaces {
		name := s.Name
		if name == "" {
			name = stlDefaultSolid
		}
		fmt.Fprintf(bw, "solid %s\n", name)
		for _, tri := range s.Triangles {
			fmt.Fprintf(bw, "  facet normal %s\n", formatVector(tri.Normal))
			fmt.Fprintf(bw, "    outer loop\n")
			for _, v := range tri.Vertices {
				fmt.Fprintf(bw, "      vertex %s\n", formatVector(v))
			}
			fmt.Fprintf(bw, "    endloop\n")
			fmt.Fprintf(bw, "  endfacet\n")
		}
		fmt.Fprintf(bw, "endsolid %s\n", name)
	}
	return bw.Flush()
}

func formatVector(v geometry.Vector3) string {
	return strconv.FormatFloat(v.X, 'g', -1, 64) + " " +
		strconv.FormatFloat(v.Y, 'g', -1, 64) + " " +
		strconv.FormatFloat(v.Z, 'g', -1, 64)
}

// WriteSTLBinary writes all triangles of all surfaces as one binary solid.
// Coordinates are narrowed to float32.
func WriteSTLBinary(w io.Writer, header string, surfaces []geometry.Surface) error {
	var (
		hdr   [stlHeaderSize]byte
		count = geometry.CountTriangles(surfaces)
		rec   [stlRecordSize]byte
	)
	if count > math.MaxUint32 {
		return fmt.Errorf("too many triangles for binary STL: %d", count)
	}
	copy(hdr[:], header)
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	var cnt [4]byte
	binary.LittleEndian.PutUint32(cnt[:], uint32(count))
	if _, err := w.Write(cnt[:]); err != nil {
		return err
	}
	for _, s := range surfaces {
		for _, tri := range s.Triangles {
			putVector(rec[0:12], tri.Normal)
			putVector(rec[12:24], tri.Vertices[0])
			putVector(rec[24:36], tri.Vertices[1])
			putVector(rec[36:48], tri.Vertices[2])
			binary.LittleEndian.PutUint16(rec[48:], 0)
			if _, err := w.Write(rec[:]); err != nil {
				return err
			}
		}
	}
	return nil
}

func putVector(b []byte, v geometry.Vector3) {
	_ = b[:12]
	binary.LittleEndian.PutUint32(b[:4], math.Float32bits(float32(v.X)))
	binary.LittleEndian.PutUint32(b[4:8], math.Float32bits(float32(v.Y)))
	binary.LittleEndian.PutUint32(b[8:12], math.Float32bits(float32(v.Z)))
}
