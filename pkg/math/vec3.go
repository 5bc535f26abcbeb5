package math

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// Vec3FromArray converts a [3]float32 (glTF accessor layout) to a Vec3.
func Vec3FromArray(a [3]float32) Vec3 {
	return Vec3{a[0], a[1], a[2]}
}

// Array returns the vector as [3]float32.
func (v Vec3) Array() [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}
