// Package scene is an in-memory model of a 3D authoring host: registries
// of images, materials and objects, plus an edit-mode UV editor for meshes.
package scene

import (
	"errors"
	"fmt"

	"github.com/Faultbox/autopalette/pkg/palette"
)

// Scene errors.
var (
	ErrNoActiveObject = errors.New("no active object")
	ErrObjectNotFound = errors.New("object not found")
	ErrNotMesh        = errors.New("object is not a mesh")
)

// registry keeps named items in insertion order. Names are unique; adding a
// taken name appends a ".001" style suffix.
type registry[T any] struct {
	items map[string]T
	order []string
}

func newRegistry[T any]() registry[T] {
	return registry[T]{items: make(map[string]T)}
}

func (r *registry[T]) uniqueName(base string) string {
	if _, taken := r.items[base]; !taken {
		return base
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s.%03d", base, i)
		if _, taken := r.items[name]; !taken {
			return name
		}
	}
}

func (r *registry[T]) add(name string, item T) {
	r.items[name] = item
	r.order = append(r.order, name)
}

func (r *registry[T]) get(name string) (T, bool) {
	item, ok := r.items[name]
	return item, ok
}

func (r *registry[T]) remove(name string) bool {
	if _, ok := r.items[name]; !ok {
		return false
	}
	delete(r.items, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

func (r *registry[T]) all() []T {
	out := make([]T, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.items[n])
	}
	return out
}

// Scene holds the host registries. It is not safe for concurrent use.
type Scene struct {
	images    registry[*palette.Image]
	materials registry[*Material]
	objects   registry[*Object]
	active    *Object
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{
		images:    newRegistry[*palette.Image](),
		materials: newRegistry[*Material](),
		objects:   newRegistry[*Object](),
	}
}

// AddObject registers o, renaming it if the name is taken. The first
// object added becomes active.
func (s *Scene) AddObject(o *Object) {
	o.Name = s.objects.uniqueName(o.Name)
	s.objects.add(o.Name, o)
	if s.active == nil {
		s.active = o
	}
}

// Object looks up an object by name.
func (s *Scene) Object(name string) (*Object, bool) {
	return s.objects.get(name)
}

// Objects returns all objects in insertion order.
func (s *Scene) Objects() []*Object {
	return s.objects.all()
}

// SetActive makes the named object active.
func (s *Scene) SetActive(name string) error {
	o, ok := s.objects.get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, name)
	}
	s.active = o
	return nil
}

// ActiveObject returns the active object.
func (s *Scene) ActiveObject() (*Object, error) {
	if s.active == nil {
		return nil, ErrNoActiveObject
	}
	return s.active, nil
}

// Image looks up an image by name.
func (s *Scene) Image(name string) (*palette.Image, bool) {
	return s.images.get(name)
}

// Images returns all images in insertion order.
func (s *Scene) Images() []*palette.Image {
	return s.images.all()
}

// NewImage creates an opaque black image. The returned image's Name may
// differ from name when name is taken.
func (s *Scene) NewImage(name string, width, height int) (*palette.Image, error) {
	img, err := palette.NewImage(s.images.uniqueName(name), width, height)
	if err != nil {
		return nil, fmt.Errorf("creating image %s: %w", name, err)
	}
	s.images.add(img.Name, img)
	return img, nil
}

// AddImage registers an existing image, renaming it if the name is taken.
func (s *Scene) AddImage(img *palette.Image) {
	img.Name = s.images.uniqueName(img.Name)
	s.images.add(img.Name, img)
}

// RemoveImage deletes an image. It reports whether the image existed.
func (s *Scene) RemoveImage(name string) bool {
	return s.images.remove(name)
}

// Material looks up a material by name.
func (s *Scene) Material(name string) (*Material, bool) {
	return s.materials.get(name)
}

// Materials returns all materials in insertion order.
func (s *Scene) Materials() []*Material {
	return s.materials.all()
}

// NewMaterial creates a material with the default principled tree.
func (s *Scene) NewMaterial(name string) (*Material, error) {
	if name == "" {
		return nil, errors.New("material name is empty")
	}
	m := NewMaterial(s.materials.uniqueName(name))
	s.materials.add(m.Name, m)
	return m, nil
}

// AddMaterial registers an existing material, renaming it if the name is taken.
func (s *Scene) AddMaterial(m *Material) {
	m.Name = s.materials.uniqueName(m.Name)
	s.materials.add(m.Name, m)
}

// RemoveMaterial deletes a material from the registry. Slots holding it
// are left empty. It reports whether the material existed.
func (s *Scene) RemoveMaterial(name string) bool {
	m, ok := s.materials.get(name)
	if !ok {
		return false
	}
	for _, o := range s.objects.all() {
		for i, slot := range o.Slots {
			if slot == m {
				o.Slots[i] = nil
			}
		}
	}
	return s.materials.remove(name)
}

// MaterialUsers counts the objects with a slot holding m.
func (s *Scene) MaterialUsers(m *Material) int {
	n := 0
	for _, o := range s.objects.all() {
		if o.UsesMaterial(m) {
			n++
		}
	}
	return n
}

// Edit enters edit mode on a mesh object.
func (s *Scene) Edit(o *Object) (UVEditor, error) {
	if o.Type != TypeMesh || o.Mesh == nil {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotMesh, o.Name, o.Type)
	}
	return NewEditMesh(o.Mesh), nil
}
