package shadergraph

import (
	"errors"
	"testing"
)

func TestNewMaterialTree(t *testing.T) {
	tree := NewMaterialTree()

	bsdf, ok := tree.Node("Principled BSDF")
	if !ok {
		t.Fatal("expected Principled BSDF node")
	}
	out, ok := tree.Node("Material Output")
	if !ok {
		t.Fatal("expected Material Output node")
	}

	l := tree.LinkTo(out, InSurface)
	if l == nil || l.From != bsdf || l.FromSocket != OutBSDF {
		t.Fatalf("expected BSDF -> Surface link, got %v", l)
	}

	if got := bsdf.Input(InRoughness).Float; got != 0.5 {
		t.Errorf("default roughness = %v, want 0.5", got)
	}
	if got := bsdf.Input(InMetallic).Float; got != 0 {
		t.Errorf("default metallic = %v, want 0", got)
	}
}

func TestAdd_UniqueNames(t *testing.T) {
	tree := New()
	names := []string{
		tree.Add(KindTexImage).Name,
		tree.Add(KindTexImage).Name,
		tree.Add(KindTexImage).Name,
	}
	want := []string{"Image Texture", "Image Texture.001", "Image Texture.002"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("node %d named %q, want %q", i, names[i], want[i])
		}
	}
	if got := len(tree.NodesOfKind(KindTexImage)); got != 3 {
		t.Errorf("expected 3 texture nodes, got %d", got)
	}
}

func TestLink_ReplacesExistingInput(t *testing.T) {
	tree := NewMaterialTree()
	bsdf, _ := tree.Node("Principled BSDF")
	out, _ := tree.Node("Material Output")
	add := tree.Add(KindAddShader)

	if _, err := tree.Link(add, OutShader, out, InSurface); err != nil {
		t.Fatalf("Link failed: %v", err)
	}
	if _, err := tree.Link(bsdf, OutBSDF, add, InShader); err != nil {
		t.Fatalf("Link failed: %v", err)
	}

	if l := tree.LinkTo(out, InSurface); l.From != add {
		t.Errorf("surface fed by %s, want Add Shader", l.From.Name)
	}
	if got := len(tree.Links()); got != 2 {
		t.Errorf("expected 2 links, got %d", got)
	}
}

func TestLink_Errors(t *testing.T) {
	tree := NewMaterialTree()
	bsdf, _ := tree.Node("Principled BSDF")
	tex := tree.Add(KindTexImage)

	if _, err := tree.Link(tex, "Nope", bsdf, InBaseColor); !errors.Is(err, ErrUnknownSocket) {
		t.Errorf("bad output: err = %v, want ErrUnknownSocket", err)
	}
	if _, err := tree.Link(tex, OutColor, bsdf, "Nope"); !errors.Is(err, ErrUnknownSocket) {
		t.Errorf("bad input: err = %v, want ErrUnknownSocket", err)
	}

	other := New().Add(KindTexImage)
	if _, err := tree.Link(other, OutColor, bsdf, InBaseColor); !errors.Is(err, ErrForeignNode) {
		t.Errorf("foreign node: err = %v, want ErrForeignNode", err)
	}
}

func TestRemove_DropsLinks(t *testing.T) {
	tree := NewMaterialTree()
	bsdf, _ := tree.Node("Principled BSDF")
	tree.Remove(bsdf)

	if _, ok := tree.Node("Principled BSDF"); ok {
		t.Error("node still present after Remove")
	}
	if got := len(tree.Links()); got != 0 {
		t.Errorf("expected no links, got %d", got)
	}
}

func TestNodeKindString(t *testing.T) {
	if KindSeparateRGB.String() != "Separate RGB" {
		t.Errorf("unexpected name %q", KindSeparateRGB.String())
	}
	if NodeKind(99).String() != "Unknown(99)" {
		t.Errorf("unexpected name %q", NodeKind(99).String())
	}
}
