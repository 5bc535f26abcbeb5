package scene

import "github.com/Faultbox/autopalette/pkg/shadergraph"

// PropPaletteHash is the material property holding the content hash of the
// attributes a palette material was generated from.
const PropPaletteHash = "autopalette.hash"

// Material is a named shader node tree with free-form string properties.
type Material struct {
	Name  string
	Tree  *shadergraph.Tree
	Props map[string]string
}

// NewMaterial creates a material with the default principled tree.
func NewMaterial(name string) *Material {
	return &Material{
		Name:  name,
		Tree:  shadergraph.NewMaterialTree(),
		Props: make(map[string]string),
	}
}

// Principled returns the material's principled BSDF node.
func (m *Material) Principled() (*shadergraph.Node, bool) {
	if m.Tree == nil {
		return nil, false
	}
	return m.Tree.Node(shadergraph.KindPrincipledBSDF.String())
}

// PaletteHash returns the stored palette hash, if the material was
// generated by the palette combiner.
func (m *Material) PaletteHash() (string, bool) {
	h, ok := m.Props[PropPaletteHash]
	return h, ok && h != ""
}
