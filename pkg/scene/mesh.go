package scene

import (
	pmath "github.com/Faultbox/autopalette/pkg/math"
)

// DefaultUVLayer is the name given to a UV layer created on a mesh that has none.
const DefaultUVLayer = "UVMap"

// Loop is one face corner: a vertex reference plus the corner's UV.
// Corners sharing a vertex may carry different UVs.
type Loop struct {
	Vertex int
	UV     pmath.Vec2
}

// Face is a polygon assigned to one material slot of its object.
type Face struct {
	MaterialIndex int
	Loops         []Loop
}

// Mesh holds polygon geometry with at most one UV layer.
type Mesh struct {
	Name      string
	Positions []pmath.Vec3
	Normals   []pmath.Vec3 // per vertex; empty when the source had none
	Faces     []Face

	// UVLayer names the mesh's UV channel. Empty means the mesh has no UVs
	// and Loop.UV carries no data.
	UVLayer string
}

// HasUVs reports whether the mesh has a UV layer.
func (m *Mesh) HasUVs() bool {
	return m.UVLayer != ""
}

// FacesWithMaterial returns the indices of faces assigned to slot.
func (m *Mesh) FacesWithMaterial(slot int) []int {
	var out []int
	for i := range m.Faces {
		if m.Faces[i].MaterialIndex == slot {
			out = append(out, i)
		}
	}
	return out
}

// LoopCount returns the total number of face corners.
func (m *Mesh) LoopCount() int {
	n := 0
	for i := range m.Faces {
		n += len(m.Faces[i].Loops)
	}
	return n
}
