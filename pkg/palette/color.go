// Package palette lays out per-material values as texels of small square
// images and handles the color space conversions needed to store them.
package palette

import "math"

// sRGB transfer function constants.
const (
	srgbLinearCutoff = 0.0031308
	srgbLinearSlope  = 12.92
	srgbGamma        = 2.4
	srgbScale        = 1.055
	srgbOffset       = 0.055
)

// Color represents an RGBA color with float channels.
type Color struct {
	R float64 `json:"r" yaml:"r"` // Red channel component
	G float64 `json:"g" yaml:"g"` // Green channel component
	B float64 `json:"b" yaml:"b"` // Blue channel component
	A float64 `json:"a" yaml:"a"` // Alpha channel component
}

// RGBA creates a Color from RGBA values.
func RGBA(r, g, b, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// RGB creates a Color with alpha=1.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// Black is opaque black, the content of a freshly created image.
var Black = RGB(0, 0, 0)

// Array returns the color as [4]float64 (glTF factor layout).
func (c Color) Array() [4]float64 {
	return [4]float64{c.R, c.G, c.B, c.A}
}

// ColorFromArray converts a [4]float64 to a Color.
func ColorFromArray(a [4]float64) Color {
	return Color{R: a[0], G: a[1], B: a[2], A: a[3]}
}

// ToSRGB gamma-encodes the RGB channels. Alpha is left linear.
func (c Color) ToSRGB() Color {
	return Color{
		R: LinearToSRGB(c.R),
		G: LinearToSRGB(c.G),
		B: LinearToSRGB(c.B),
		A: c.A,
	}
}

// LinearToSRGB applies the sRGB transfer function to one linear channel.
func LinearToSRGB(lin float64) float64 {
	if lin > srgbLinearCutoff {
		return srgbScale*math.Pow(lin, 1.0/srgbGamma) - srgbOffset
	}
	return srgbLinearSlope * lin
}

// Clamp01 clamps v to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
