// Package combiner merges the material slots of a mesh object into palette
// textures and a single shared material.
//
// A run has four phases, always in this order: collect the principled
// inputs of every slot, rasterize them into palette images, snap each
// slot's UVs to its texel, and rebuild one material sampling the images.
// The host registries are mutated in place and not rolled back on error.
package combiner

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/autopalette/pkg/palette"
	"github.com/Faultbox/autopalette/pkg/scene"
)

// Host is the part of the authoring application the combiner drives.
// *scene.Scene implements it.
type Host interface {
	Image(name string) (*palette.Image, bool)
	NewImage(name string, width, height int) (*palette.Image, error)
	RemoveImage(name string) bool
	NewMaterial(name string) (*scene.Material, error)
	RemoveMaterial(name string) bool
	MaterialUsers(m *scene.Material) int
	Edit(o *scene.Object) (scene.UVEditor, error)
}

// Names are the registry names of everything the combiner generates.
type Names struct {
	Material   string `yaml:"material_name"`
	Color      string `yaml:"color_image"`
	RoughMetal string `yaml:"rough_metal_image"`
	Emission   string `yaml:"emission_image"`
}

// DefaultNames returns the standard generated names.
func DefaultNames() Names {
	return Names{
		Material:   "Palette",
		Color:      "color_palette",
		RoughMetal: "rough_metal_palette",
		Emission:   "emission_palette",
	}
}

// Options are the per-run feature gates.
type Options struct {
	IncludeMetallic  bool
	IncludeRoughness bool
	IncludeEmission  bool

	// SkipUnchanged reuses palette images generated from identical inputs
	// and leaves objects that already carry a palette material untouched.
	SkipUnchanged bool

	Names Names
}

// DefaultOptions returns metallic and roughness enabled, emission disabled.
func DefaultOptions() Options {
	return Options{
		IncludeMetallic:  true,
		IncludeRoughness: true,
		Names:            DefaultNames(),
	}
}

// RoughMetal reports whether the roughness-metallic palette is generated.
func (o Options) RoughMetal() bool {
	return o.IncludeMetallic || o.IncludeRoughness
}

// Result summarises one run.
type Result struct {
	Object         string
	Slots          int
	Side           int
	Images         []string
	Material       string
	Hash           string
	Reused         bool // palette images were reused instead of re-rasterized
	Skipped        bool // object already carried a palette material
	UVLayerCreated bool
	Duration       time.Duration
}

// Combiner runs palette combination against a host.
type Combiner struct {
	host Host
	log  *zap.Logger
}

// New creates a Combiner. A nil logger disables logging.
func New(host Host, log *zap.Logger) *Combiner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Combiner{host: host, log: log}
}

// Combine merges every material slot of obj into palette textures, remaps
// its UVs and replaces its slots with one palette material.
func (c *Combiner) Combine(obj *scene.Object, opts Options) (*Result, error) {
	start := time.Now()
	if opts.Names == (Names{}) {
		opts.Names = DefaultNames()
	}
	log := c.log.With(zap.String("object", obj.Name))

	if opts.SkipUnchanged && alreadyCombined(obj) {
		log.Info("object already uses a palette material, skipping")
		hash, _ := obj.Slots[0].PaletteHash()
		return &Result{
			Object:   obj.Name,
			Slots:    1,
			Material: obj.Slots[0].Name,
			Hash:     hash,
			Skipped:  true,
			Duration: time.Since(start),
		}, nil
	}

	attrs, err := Collect(obj, opts)
	if err != nil {
		return nil, err
	}
	side, err := palette.Side(len(attrs))
	if err != nil {
		return nil, fmt.Errorf("sizing palette: %w", err)
	}
	hash := Hash(attrs, opts)
	log.Debug("collected material attributes",
		zap.Int("slots", len(attrs)),
		zap.Int("side", side),
		zap.String("hash", hash))

	pal, err := c.rasterize(attrs, side, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("rasterizing palette: %w", err)
	}

	created, err := c.remap(obj, len(attrs), side)
	if err != nil {
		return nil, fmt.Errorf("remapping UVs: %w", err)
	}

	mat, err := c.rebuild(obj, pal, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("rebuilding material: %w", err)
	}

	res := &Result{
		Object:         obj.Name,
		Slots:          len(attrs),
		Side:           side,
		Images:         pal.names(),
		Material:       mat.Name,
		Hash:           hash,
		Reused:         pal.Reused,
		UVLayerCreated: created,
		Duration:       time.Since(start),
	}
	log.Info("palette created",
		zap.Int("slots", res.Slots),
		zap.Int("side", res.Side),
		zap.Strings("images", res.Images),
		zap.Bool("reused", res.Reused),
		zap.Duration("elapsed", res.Duration))
	return res, nil
}

// alreadyCombined reports whether obj's only slot is a generated palette material.
func alreadyCombined(obj *scene.Object) bool {
	if len(obj.Slots) != 1 || obj.Slots[0] == nil {
		return false
	}
	_, ok := obj.Slots[0].PaletteHash()
	return ok
}
