package geometry

import (
	"github.com/go-gl/mathgl/mgl64"
)

func toVec3(v Vector3) mgl64.Vec3 { return mgl64.Vec3{v.X, v.Y, v.Z} }

func fromVec3(v mgl64.Vec3) Vector3 { return Vector3{X: v[0], Y: v[1], Z: v[2]} }

// ScaleSurfaces multiplies every vertex by factor and recomputes normals from the
// scaled vertices
func ScaleSurfaces(surfaces []Surface, factor float64) {
	for s := range surfaces {
		tris := surfaces[s].Triangles
		for i := range tris {
			for j := 0; j < 3; j++ {
				tris[i].Vertices[j] = tris[i].Vertices[j].Scale(factor)
			}
			tris[i].ComputeNormal()
		}
	}
}

// TranslateSurfaces adds offset to every vertex, normals are unchanged
func TranslateSurfaces(surfaces []Surface, offset Vector3) {
	for s := range surfaces {
		tris := surfaces[s].Triangles
		for i := range tris {
			for j := 0; j < 3; j++ {
				tris[i].Vertices[j] = tris[i].Vertices[j].Add(offset)
			}
		}
	}
}

// RotationMatrix returns the homogeneous rotation of angle radians about axis
func RotationMatrix(axis Vector3, angle float64) mgl64.Mat4 {
	return mgl64.HomogRotate3D(angle, toVec3(axis.Normalize()))
}

// TransformSurfaces applies the affine transform m to every vertex. Stored
// normals are carried through the inverse transpose of m, a singular m falls
// back to recomputing normals from the transformed vertices.
func TransformSurfaces(surfaces []Surface, m mgl64.Mat4) {
	var (
		singular  = m.Det() == 0
		normalMat mgl64.Mat4
	)
	if !singular {
		normalMat = m.Inv().Transpose()
	}
	for s := range surfaces {
		tris := surfaces[s].Triangles
		for i := range tris {
			for j := 0; j < 3; j++ {
				tris[i].Vertices[j] = fromVec3(mgl64.TransformCoordinate(toVec3(tris[i].Vertices[j]), m))
			}
			if singular {
				tris[i].ComputeNormal()
				continue
			}
			n := mgl64.TransformNormal(toVec3(tris[i].Normal), normalMat)
			tris[i].Normal = fromVec3(n).Normalize()
		}
	}
}
