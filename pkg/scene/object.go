package scene

import (
	"errors"
	"fmt"
)

// ObjectType is the kind of data an object carries.
type ObjectType int

// Object types.
const (
	TypeMesh ObjectType = iota
	TypeEmpty
	TypeCamera
	TypeLight
)

// String returns the type name.
func (t ObjectType) String() string {
	switch t {
	case TypeMesh:
		return "MESH"
	case TypeEmpty:
		return "EMPTY"
	case TypeCamera:
		return "CAMERA"
	case TypeLight:
		return "LIGHT"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// ErrSlotOutOfRange is returned for material slot indices outside the object's slots.
var ErrSlotOutOfRange = errors.New("material slot out of range")

// Transform is an object's local translation, rotation (quaternion x,y,z,w) and scale.
type Transform struct {
	Translation [3]float64
	Rotation    [4]float64
	Scale       [3]float64
}

// IdentityTransform returns the rest transform.
func IdentityTransform() Transform {
	return Transform{
		Rotation: [4]float64{0, 0, 0, 1},
		Scale:    [3]float64{1, 1, 1},
	}
}

// Object is a named scene object. Mesh objects own their mesh and an
// ordered list of material slots; a slot may be empty (nil).
type Object struct {
	Name      string
	Type      ObjectType
	Mesh      *Mesh
	Slots     []*Material
	Transform Transform
}

// NewMeshObject creates a mesh object with no material slots.
func NewMeshObject(name string, mesh *Mesh) *Object {
	return &Object{
		Name:      name,
		Type:      TypeMesh,
		Mesh:      mesh,
		Transform: IdentityTransform(),
	}
}

// AppendMaterial adds a slot holding m.
func (o *Object) AppendMaterial(m *Material) {
	o.Slots = append(o.Slots, m)
}

// RemoveSlot removes slot i. Faces on later slots move down one index and
// faces on the removed slot fall back to the previous slot.
func (o *Object) RemoveSlot(i int) error {
	if i < 0 || i >= len(o.Slots) {
		return fmt.Errorf("%w: %d of %d", ErrSlotOutOfRange, i, len(o.Slots))
	}
	o.Slots = append(o.Slots[:i], o.Slots[i+1:]...)

	if o.Mesh != nil {
		for f := range o.Mesh.Faces {
			idx := o.Mesh.Faces[f].MaterialIndex
			if idx > i || (idx == i && idx > 0) {
				o.Mesh.Faces[f].MaterialIndex = idx - 1
			}
		}
	}
	return nil
}

// UsesMaterial reports whether any slot holds m.
func (o *Object) UsesMaterial(m *Material) bool {
	for _, s := range o.Slots {
		if s == m {
			return true
		}
	}
	return false
}
