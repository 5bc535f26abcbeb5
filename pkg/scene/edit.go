package scene

import (
	pmath "github.com/Faultbox/autopalette/pkg/math"
	"github.com/Faultbox/autopalette/pkg/palette"
)

// UVEditor is the edit-mode selection and UV snapping surface of a mesh.
//
// Face selection and UV selection are separate. UV operations act on the
// selected UVs of selected faces only, so deselecting UVs after a snap
// protects those corners from later snaps while their faces stay selected.
type UVEditor interface {
	// EnsureUVLayer creates a UV layer if the mesh has none and reports
	// whether it did.
	EnsureUVLayer() bool
	SelectAllUVs()
	DeselectAllUVs()
	DeselectAllFaces()
	// SelectByMaterial adds the faces of a slot to the face selection and
	// returns how many were added.
	SelectByMaterial(slot int) int
	SetCursor(uv pmath.Vec2)
	// SnapSelectedToCursor moves the selected UVs to the cursor and returns
	// how many moved.
	SnapSelectedToCursor() int
	// SnapSelectedToPixels moves the selected UVs to the centre of the
	// texel they fall in on a width x height image.
	SnapSelectedToPixels(width, height int) int
}

// EditMesh implements UVEditor on a Mesh.
type EditMesh struct {
	mesh    *Mesh
	faceSel []bool
	uvSel   [][]bool
	cursor  pmath.Vec2
}

// NewEditMesh starts editing m with nothing selected.
func NewEditMesh(m *Mesh) *EditMesh {
	e := &EditMesh{
		mesh:    m,
		faceSel: make([]bool, len(m.Faces)),
		uvSel:   make([][]bool, len(m.Faces)),
	}
	for i := range m.Faces {
		e.uvSel[i] = make([]bool, len(m.Faces[i].Loops))
	}
	return e
}

// EnsureUVLayer implements UVEditor.
func (e *EditMesh) EnsureUVLayer() bool {
	if e.mesh.HasUVs() {
		return false
	}
	e.mesh.UVLayer = DefaultUVLayer
	for f := range e.mesh.Faces {
		for l := range e.mesh.Faces[f].Loops {
			e.mesh.Faces[f].Loops[l].UV = pmath.Vec2{}
		}
	}
	return true
}

// SelectAllUVs implements UVEditor.
func (e *EditMesh) SelectAllUVs() {
	for f := range e.uvSel {
		for l := range e.uvSel[f] {
			e.uvSel[f][l] = true
		}
	}
}

// DeselectAllUVs implements UVEditor. Only UVs of selected faces are
// visible to the UV editor, so only those are deselected.
func (e *EditMesh) DeselectAllUVs() {
	for f := range e.uvSel {
		if !e.faceSel[f] {
			continue
		}
		for l := range e.uvSel[f] {
			e.uvSel[f][l] = false
		}
	}
}

// DeselectAllFaces implements UVEditor.
func (e *EditMesh) DeselectAllFaces() {
	for f := range e.faceSel {
		e.faceSel[f] = false
	}
}

// SelectByMaterial implements UVEditor.
func (e *EditMesh) SelectByMaterial(slot int) int {
	n := 0
	for _, f := range e.mesh.FacesWithMaterial(slot) {
		if !e.faceSel[f] {
			e.faceSel[f] = true
			n++
		}
	}
	return n
}

// SetCursor implements UVEditor.
func (e *EditMesh) SetCursor(uv pmath.Vec2) {
	e.cursor = uv
}

// SnapSelectedToCursor implements UVEditor.
func (e *EditMesh) SnapSelectedToCursor() int {
	return e.eachSelected(func(pmath.Vec2) pmath.Vec2 { return e.cursor })
}

// SnapSelectedToPixels implements UVEditor.
func (e *EditMesh) SnapSelectedToPixels(width, height int) int {
	return e.eachSelected(func(uv pmath.Vec2) pmath.Vec2 {
		return palette.SnapToTexelCenter(uv, width, height)
	})
}

func (e *EditMesh) eachSelected(fn func(pmath.Vec2) pmath.Vec2) int {
	if !e.mesh.HasUVs() {
		return 0
	}
	n := 0
	for f := range e.mesh.Faces {
		if !e.faceSel[f] {
			continue
		}
		loops := e.mesh.Faces[f].Loops
		for l := range loops {
			if e.uvSel[f][l] {
				loops[l].UV = fn(loops[l].UV)
				n++
			}
		}
	}
	return n
}
