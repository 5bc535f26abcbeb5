package combiner

import (
	"errors"
	"fmt"

	"github.com/Faultbox/autopalette/pkg/palette"
	"github.com/Faultbox/autopalette/pkg/scene"
	"github.com/Faultbox/autopalette/pkg/shadergraph"
)

// Precondition errors. They are raised before the scene is modified.
var (
	ErrNotMesh           = scene.ErrNotMesh
	ErrNoMaterials       = errors.New("object has no material slots")
	ErrEmptySlot         = errors.New("material slot is empty")
	ErrMissingPrincipled = errors.New("material has no Principled BSDF node")
)

// MaterialAttributes are the principled inputs of one material slot.
type MaterialAttributes struct {
	Material  string        `yaml:"material"`
	BaseColor palette.Color `yaml:"base_color"`
	Metallic  float64       `yaml:"metallic"`
	Roughness float64       `yaml:"roughness"`
	Emission  palette.Color `yaml:"emission"`
}

// RoughMetal returns the packed roughness-metallic texel: R unused,
// G roughness, B metallic.
func (a MaterialAttributes) RoughMetal() palette.Color {
	return palette.RGB(0, a.Roughness, a.Metallic)
}

// Collect reads the principled inputs of every slot of obj, in slot order.
// Linked inputs contribute their unlinked default value. Metallic and
// roughness are reported as 0 when their option is off.
func Collect(obj *scene.Object, opts Options) ([]MaterialAttributes, error) {
	if obj.Type != scene.TypeMesh || obj.Mesh == nil {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotMesh, obj.Name, obj.Type)
	}
	if len(obj.Slots) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMaterials, obj.Name)
	}

	attrs := make([]MaterialAttributes, 0, len(obj.Slots))
	for i, mat := range obj.Slots {
		if mat == nil {
			return nil, fmt.Errorf("%w: slot %d of %s", ErrEmptySlot, i, obj.Name)
		}
		bsdf, ok := mat.Principled()
		if !ok {
			return nil, fmt.Errorf("%w: %s (slot %d)", ErrMissingPrincipled, mat.Name, i)
		}

		a := MaterialAttributes{
			Material:  mat.Name,
			BaseColor: colorInput(bsdf, shadergraph.InBaseColor),
			Emission:  colorInput(bsdf, shadergraph.InEmission),
		}
		if opts.IncludeMetallic {
			a.Metallic = floatInput(bsdf, shadergraph.InMetallic)
		}
		if opts.IncludeRoughness {
			a.Roughness = floatInput(bsdf, shadergraph.InRoughness)
		}
		attrs = append(attrs, a)
	}
	return attrs, nil
}

func colorInput(n *shadergraph.Node, name string) palette.Color {
	if s := n.Input(name); s != nil {
		return s.Color
	}
	return palette.Black
}

func floatInput(n *shadergraph.Node, name string) float64 {
	if s := n.Input(name); s != nil {
		return s.Float
	}
	return 0
}
