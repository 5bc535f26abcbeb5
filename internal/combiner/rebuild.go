package combiner

import (
	"fmt"

	"go.uber.org/zap"

	pmath "github.com/Faultbox/autopalette/pkg/math"
	"github.com/Faultbox/autopalette/pkg/palette"
	"github.com/Faultbox/autopalette/pkg/scene"
	"github.com/Faultbox/autopalette/pkg/shadergraph"
)

// Node editor placement of the generated nodes.
var (
	locColorTex      = pmath.Vec2{X: -600, Y: 400}
	locRoughMetalTex = pmath.Vec2{X: -600, Y: 100}
	locSeparate      = pmath.Vec2{X: -300, Y: 100}
	locEmissionTex   = pmath.Vec2{X: -600, Y: -200}
	locEmission      = pmath.Vec2{X: -300, Y: -200}
	locAddShader     = pmath.Vec2{X: 300, Y: 300}
	locOutput        = pmath.Vec2{X: 500, Y: 300}
)

// rebuild replaces every slot of obj with one material sampling pal.
func (c *Combiner) rebuild(obj *scene.Object, pal *Palette, hash string, opts Options) (*scene.Material, error) {
	originals := make([]*scene.Material, 0, len(obj.Slots))
	for len(obj.Slots) > 0 {
		if m := obj.Slots[0]; m != nil {
			originals = append(originals, m)
		}
		if err := obj.RemoveSlot(0); err != nil {
			return nil, err
		}
	}
	for _, m := range originals {
		if c.host.MaterialUsers(m) == 0 && c.host.RemoveMaterial(m.Name) {
			c.log.Debug("removed material", zap.String("material", m.Name))
		}
	}

	c.host.RemoveMaterial(opts.Names.Material)
	mat, err := c.host.NewMaterial(opts.Names.Material)
	if err != nil {
		return nil, err
	}
	mat.Props[scene.PropPaletteHash] = hash
	obj.AppendMaterial(mat)

	if err := BuildGraph(mat.Tree, pal, opts); err != nil {
		return nil, err
	}
	c.log.Debug("built palette material",
		zap.String("material", mat.Name),
		zap.Int("nodes", len(mat.Tree.Nodes())),
		zap.Int("links", len(mat.Tree.Links())))
	return mat, nil
}

// BuildGraph wires the palette textures into a default material tree.
// The topology depends only on which options are enabled.
func BuildGraph(tree *shadergraph.Tree, pal *Palette, opts Options) error {
	bsdf, ok := tree.Node(shadergraph.KindPrincipledBSDF.String())
	if !ok {
		return ErrMissingPrincipled
	}
	out, ok := tree.Node(shadergraph.KindMaterialOutput.String())
	if !ok {
		return fmt.Errorf("material tree has no %s node", shadergraph.KindMaterialOutput)
	}

	var err error
	link := func(from *shadergraph.Node, output string, to *shadergraph.Node, input string) {
		if err != nil {
			return
		}
		_, err = tree.Link(from, output, to, input)
	}

	colorTex := addTexture(tree, pal.Color, locColorTex)
	link(colorTex, shadergraph.OutColor, bsdf, shadergraph.InBaseColor)

	if opts.RoughMetal() {
		rmTex := addTexture(tree, pal.RoughMetal, locRoughMetalTex)
		sep := tree.Add(shadergraph.KindSeparateRGB)
		sep.Location = locSeparate
		link(rmTex, shadergraph.OutColor, sep, shadergraph.InImage)
		if opts.IncludeMetallic {
			link(sep, shadergraph.OutB, bsdf, shadergraph.InMetallic)
		}
		if opts.IncludeRoughness {
			link(sep, shadergraph.OutG, bsdf, shadergraph.InRoughness)
		}
	}

	if opts.IncludeEmission {
		emTex := addTexture(tree, pal.Emission, locEmissionTex)
		em := tree.Add(shadergraph.KindEmission)
		em.Location = locEmission
		add := tree.Add(shadergraph.KindAddShader)
		add.Location = locAddShader
		out.Location = locOutput
		link(emTex, shadergraph.OutColor, em, shadergraph.InColor)
		link(bsdf, shadergraph.OutBSDF, add, shadergraph.InShader)
		link(em, shadergraph.OutEmission, add, shadergraph.InShader2)
		link(add, shadergraph.OutShader, out, shadergraph.InSurface)
	}
	return err
}

func addTexture(tree *shadergraph.Tree, img *palette.Image, loc pmath.Vec2) *shadergraph.Node {
	n := tree.Add(shadergraph.KindTexImage)
	if img != nil {
		n.Image = img.Name
	}
	n.Interpolation = shadergraph.InterpClosest
	n.Location = loc
	return n
}
