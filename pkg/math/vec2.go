// Package math provides the small vector types used for mesh geometry and
// texture coordinates.
package math

// Vec2 is a 2D vector. Used for UV coordinates.
type Vec2 struct {
	X, Y float32
}

// Vec2FromArray converts a [2]float32 (glTF accessor layout) to a Vec2.
func Vec2FromArray(a [2]float32) Vec2 {
	return Vec2{a[0], a[1]}
}

// Array returns the vector as [2]float32.
func (v Vec2) Array() [2]float32 {
	return [2]float32{v.X, v.Y}
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// FlipV mirrors a texture coordinate vertically (v -> 1-v).
// Converts between top-left and bottom-left image origins.
func (v Vec2) FlipV() Vec2 {
	return Vec2{v.X, 1 - v.Y}
}
