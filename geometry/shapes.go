package geometry

// Standard closed and open shapes shared by tests across packages. Every shape
// is wound counter clockwise when seen from outside, so derived normals point out.

var cubeVertices = [8]Vector3{
	{X: 0, Y: 0, Z: 0}, // 0: origin
	{X: 1, Y: 0, Z: 0}, // 1: x
	{X: 1, Y: 1, Z: 0}, // 2: xy
	{X: 0, Y: 1, Z: 0}, // 3: y
	{X: 0, Y: 0, Z: 1}, // 4: z
	{X: 1, Y: 0, Z: 1}, // 5: xz
	{X: 1, Y: 1, Z: 1}, // 6: xyz
	{X: 0, Y: 1, Z: 1}, // 7: yz
}

// CubeTriangles lists the vertex indices of the 12 cube triangles, two per side,
// in the order bottom, top, front, back, left, right
var CubeTriangles = [12][3]int{
	{0, 2, 1}, {0, 3, 2}, // z = 0
	{4, 5, 6}, {4, 6, 7}, // z = 1
	{0, 1, 5}, {0, 5, 4}, // y = 0
	{3, 7, 6}, {3, 6, 2}, // y = 1
	{0, 4, 7}, {0, 7, 3}, // x = 0
	{1, 2, 6}, {1, 6, 5}, // x = 1
}

// UnitCube returns the closed cube spanning [0,0,0]-[1,1,1] as one surface
func UnitCube() Surface {
	s := NewSurface("cube")
	for _, t := range CubeTriangles {
		s.AddTriangle(NewTriangle(cubeVertices[t[0]], cubeVertices[t[1]], cubeVertices[t[2]]))
	}
	return s
}

// OpenBox returns the unit cube without its two top triangles, leaving four open edges
func OpenBox() Surface {
	s := UnitCube()
	s.Name = "open_box"
	s.Triangles = append(s.Triangles[:2:2], s.Triangles[4:]...)
	return s
}

// UnitTetrahedron returns the closed tetrahedron on the origin and the unit axis points
func UnitTetrahedron() Surface {
	var (
		p = [4]Vector3{{}, {X: 1}, {Y: 1}, {Z: 1}}
		s = NewSurface("tetrahedron")
	)
	for _, t := range [4][3]int{{0, 2, 1}, {0, 1, 3}, {0, 3, 2}, {1, 2, 3}} {
		s.AddTriangle(NewTriangle(p[t[0]], p[t[1]], p[t[2]]))
	}
	return s
}
