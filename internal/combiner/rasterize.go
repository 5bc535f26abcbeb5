package combiner

import (
	"go.uber.org/zap"

	"github.com/Faultbox/autopalette/pkg/palette"
)

// Palette is the set of images written by one run. Disabled images are nil.
type Palette struct {
	Side       int
	Color      *palette.Image
	RoughMetal *palette.Image
	Emission   *palette.Image
	Reused     bool
}

func (p *Palette) names() []string {
	var out []string
	for _, img := range []*palette.Image{p.Color, p.RoughMetal, p.Emission} {
		if img != nil {
			out = append(out, img.Name)
		}
	}
	return out
}

// Paint writes one texel per entry, entry i at palette.Texel(i, side).
// With srgb set the RGB channels are gamma-encoded first. Alpha is kept.
func Paint(img *palette.Image, colors []palette.Color, srgb bool) {
	for i, c := range colors {
		if srgb {
			c = c.ToSRGB()
		}
		x, y := palette.Texel(i, img.Width)
		img.SetRGB(x, y, c)
	}
}

func (c *Combiner) rasterize(attrs []MaterialAttributes, side int, hash string, opts Options) (*Palette, error) {
	names := opts.Names
	if opts.SkipUnchanged {
		if pal, ok := c.reusable(side, hash, opts); ok {
			c.log.Debug("reusing palette images", zap.String("hash", hash))
			if !opts.RoughMetal() {
				c.host.RemoveImage(names.RoughMetal)
			}
			if !opts.IncludeEmission {
				c.host.RemoveImage(names.Emission)
			}
			return pal, nil
		}
	}

	for _, name := range []string{names.Color, names.RoughMetal, names.Emission} {
		if c.host.RemoveImage(name) {
			c.log.Debug("removed previous palette image", zap.String("image", name))
		}
	}

	colors := make([]palette.Color, len(attrs))
	roughMetal := make([]palette.Color, len(attrs))
	emission := make([]palette.Color, len(attrs))
	for i, a := range attrs {
		colors[i] = a.BaseColor
		roughMetal[i] = a.RoughMetal()
		emission[i] = a.Emission
	}

	pal := &Palette{Side: side}
	var err error
	if pal.Color, err = c.newPaletteImage(names.Color, side, hash); err != nil {
		return nil, err
	}
	Paint(pal.Color, colors, true)

	if opts.RoughMetal() {
		if pal.RoughMetal, err = c.newPaletteImage(names.RoughMetal, side, hash); err != nil {
			return nil, err
		}
		Paint(pal.RoughMetal, roughMetal, false)
	}

	if opts.IncludeEmission {
		if pal.Emission, err = c.newPaletteImage(names.Emission, side, hash); err != nil {
			return nil, err
		}
		Paint(pal.Emission, emission, true)
	}
	return pal, nil
}

func (c *Combiner) newPaletteImage(name string, side int, hash string) (*palette.Image, error) {
	img, err := c.host.NewImage(name, side, side)
	if err != nil {
		return nil, err
	}
	img.Hash = hash
	c.log.Debug("created palette image",
		zap.String("image", img.Name),
		zap.Int("side", side))
	return img, nil
}

// reusable returns the existing palette images when every enabled one was
// generated from the same hash at the same size.
func (c *Combiner) reusable(side int, hash string, opts Options) (*Palette, bool) {
	pal := &Palette{Side: side, Reused: true}
	lookup := func(name string) (*palette.Image, bool) {
		img, ok := c.host.Image(name)
		if !ok || img.Hash != hash || img.Width != side || img.Height != side {
			return nil, false
		}
		return img, true
	}

	var ok bool
	if pal.Color, ok = lookup(opts.Names.Color); !ok {
		return nil, false
	}
	if opts.RoughMetal() {
		if pal.RoughMetal, ok = lookup(opts.Names.RoughMetal); !ok {
			return nil, false
		}
	}
	if opts.IncludeEmission {
		if pal.Emission, ok = lookup(opts.Names.Emission); !ok {
			return nil, false
		}
	}
	return pal, true
}
