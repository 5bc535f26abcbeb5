package scene

import (
	"errors"
	"testing"

	pmath "github.com/Faultbox/autopalette/pkg/math"
)

// quadMesh builds a mesh of n separate triangles, face i on slot i%slots.
func quadMesh(n, slots int) *Mesh {
	m := &Mesh{Name: "test", UVLayer: DefaultUVLayer}
	for i := 0; i < n; i++ {
		base := len(m.Positions)
		m.Positions = append(m.Positions,
			pmath.Vec3{X: float32(i), Y: 0, Z: 0},
			pmath.Vec3{X: float32(i) + 1, Y: 0, Z: 0},
			pmath.Vec3{X: float32(i), Y: 1, Z: 0},
		)
		m.Faces = append(m.Faces, Face{
			MaterialIndex: i % slots,
			Loops: []Loop{
				{Vertex: base, UV: pmath.Vec2{X: 0.1, Y: 0.1}},
				{Vertex: base + 1, UV: pmath.Vec2{X: 0.9, Y: 0.1}},
				{Vertex: base + 2, UV: pmath.Vec2{X: 0.1, Y: 0.9}},
			},
		})
	}
	return m
}

func TestRegistry_UniqueNames(t *testing.T) {
	s := New()
	a, _ := s.NewMaterial("Palette")
	b, _ := s.NewMaterial("Palette")
	c, _ := s.NewMaterial("Palette")

	if a.Name != "Palette" || b.Name != "Palette.001" || c.Name != "Palette.002" {
		t.Errorf("unexpected names %q %q %q", a.Name, b.Name, c.Name)
	}
	if got := len(s.Materials()); got != 3 {
		t.Errorf("expected 3 materials, got %d", got)
	}

	if !s.RemoveMaterial("Palette") {
		t.Error("RemoveMaterial returned false for existing material")
	}
	if s.RemoveMaterial("Palette") {
		t.Error("RemoveMaterial returned true for missing material")
	}
	d, _ := s.NewMaterial("Palette")
	if d.Name != "Palette" {
		t.Errorf("expected freed name to be reused, got %q", d.Name)
	}
}

func TestImages(t *testing.T) {
	s := New()
	img, err := s.NewImage("color_palette", 4, 4)
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}
	if got, ok := s.Image("color_palette"); !ok || got != img {
		t.Error("image lookup failed")
	}
	if _, err := s.NewImage("bad", 0, 0); err == nil {
		t.Error("expected error for empty image")
	}
	if !s.RemoveImage("color_palette") {
		t.Error("RemoveImage returned false")
	}
	if len(s.Images()) != 0 {
		t.Errorf("expected no images, got %d", len(s.Images()))
	}
}

func TestActiveObject(t *testing.T) {
	s := New()
	if _, err := s.ActiveObject(); !errors.Is(err, ErrNoActiveObject) {
		t.Errorf("err = %v, want ErrNoActiveObject", err)
	}

	s.AddObject(NewMeshObject("Cube", quadMesh(1, 1)))
	s.AddObject(NewMeshObject("Cube", quadMesh(1, 1)))

	o, err := s.ActiveObject()
	if err != nil || o.Name != "Cube" {
		t.Fatalf("active = %v, %v; want Cube", o, err)
	}
	if err := s.SetActive("Cube.001"); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	if err := s.SetActive("Sphere"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("err = %v, want ErrObjectNotFound", err)
	}
}

func TestRemoveMaterial_EmptiesSlots(t *testing.T) {
	s := New()
	m, _ := s.NewMaterial("Red")
	o := NewMeshObject("Cube", quadMesh(1, 1))
	o.AppendMaterial(m)
	s.AddObject(o)

	if got := s.MaterialUsers(m); got != 1 {
		t.Errorf("users = %d, want 1", got)
	}
	s.RemoveMaterial("Red")
	if o.Slots[0] != nil {
		t.Error("expected slot to be emptied")
	}
	if got := s.MaterialUsers(m); got != 0 {
		t.Errorf("users = %d, want 0", got)
	}
}

func TestRemoveSlot_ShiftsFaces(t *testing.T) {
	o := NewMeshObject("Cube", quadMesh(3, 3))
	for _, name := range []string{"A", "B", "C"} {
		o.AppendMaterial(NewMaterial(name))
	}

	if err := o.RemoveSlot(1); err != nil {
		t.Fatalf("RemoveSlot failed: %v", err)
	}
	want := []int{0, 0, 1}
	for i, f := range o.Mesh.Faces {
		if f.MaterialIndex != want[i] {
			t.Errorf("face %d on slot %d, want %d", i, f.MaterialIndex, want[i])
		}
	}
	if o.Slots[1].Name != "C" {
		t.Errorf("slot 1 = %s, want C", o.Slots[1].Name)
	}

	if err := o.RemoveSlot(5); !errors.Is(err, ErrSlotOutOfRange) {
		t.Errorf("err = %v, want ErrSlotOutOfRange", err)
	}
}

func TestEdit_NotMesh(t *testing.T) {
	s := New()
	o := &Object{Name: "Lamp", Type: TypeLight}
	s.AddObject(o)
	if _, err := s.Edit(o); !errors.Is(err, ErrNotMesh) {
		t.Errorf("err = %v, want ErrNotMesh", err)
	}
}
