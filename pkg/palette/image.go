package palette

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	// Source textures may be JPEG, BMP or WebP (EXT_texture_webp).
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Image is a float RGBA pixel buffer with its origin at the bottom-left
// texel, matching the UV convention (v grows upward).
type Image struct {
	Name   string
	Width  int
	Height int
	Pix    []float32 // RGBA, row-major from the bottom row

	// Hash identifies the inputs the image was generated from. Empty for
	// images not produced by the palette rasterizer.
	Hash string
}

// NewImage creates an opaque black image.
func NewImage(name string, width, height int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	img := &Image{
		Name:   name,
		Width:  width,
		Height: height,
		Pix:    make([]float32, width*height*4),
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 1
	}
	return img, nil
}

// Set writes c at texel (x, y).
func (img *Image) Set(x, y int, c Color) {
	o := (y*img.Width + x) * 4
	img.Pix[o] = float32(c.R)
	img.Pix[o+1] = float32(c.G)
	img.Pix[o+2] = float32(c.B)
	img.Pix[o+3] = float32(c.A)
}

// SetRGB writes the RGB channels at texel (x, y), keeping alpha.
func (img *Image) SetRGB(x, y int, c Color) {
	o := (y*img.Width + x) * 4
	img.Pix[o] = float32(c.R)
	img.Pix[o+1] = float32(c.G)
	img.Pix[o+2] = float32(c.B)
}

// At returns the color at texel (x, y).
func (img *Image) At(x, y int) Color {
	o := (y*img.Width + x) * 4
	return Color{
		R: float64(img.Pix[o]),
		G: float64(img.Pix[o+1]),
		B: float64(img.Pix[o+2]),
		A: float64(img.Pix[o+3]),
	}
}

// Sample returns the texel under uv using nearest filtering.
func (img *Image) Sample(u, v float32) Color {
	x := clampIndex(int(math.Floor(float64(u)*float64(img.Width))), img.Width)
	y := clampIndex(int(math.Floor(float64(v)*float64(img.Height))), img.Height)
	return img.At(x, y)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// ToNRGBA quantizes the image to 8 bits per channel. The rows are flipped
// since image.Image has its origin at the top-left.
func (img *Image) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		dstY := img.Height - 1 - y
		for x := 0; x < img.Width; x++ {
			c := img.At(x, y)
			out.SetNRGBA(x, dstY, color.NRGBA{
				R: quantize(c.R),
				G: quantize(c.G),
				B: quantize(c.B),
				A: quantize(c.A),
			})
		}
	}
	return out
}

func quantize(v float64) uint8 {
	return uint8(math.Round(Clamp01(v) * 255))
}

// FromImage converts a decoded image into an Image, flipping rows back to
// a bottom-left origin. Channel values are taken as stored.
func FromImage(name string, src image.Image) *Image {
	b := src.Bounds()
	img := &Image{
		Name:   name,
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    make([]float32, b.Dx()*b.Dy()*4),
	}
	for y := 0; y < img.Height; y++ {
		srcY := b.Min.Y + img.Height - 1 - y
		for x := 0; x < img.Width; x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, srcY)).(color.NRGBA)
			img.Set(x, y, Color{
				R: float64(c.R) / 255,
				G: float64(c.G) / 255,
				B: float64(c.B) / 255,
				A: float64(c.A) / 255,
			})
		}
	}
	return img
}

// EncodePNG writes the image as an 8-bit PNG.
func (img *Image) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, img.ToNRGBA()); err != nil {
		return fmt.Errorf("encoding PNG %s: %w", img.Name, err)
	}
	return nil
}

// Decode reads a PNG, JPEG, BMP or WebP stream into an Image.
func Decode(name string, r io.Reader) (*Image, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding image %s: %w", name, err)
	}
	return FromImage(name, src), nil
}
