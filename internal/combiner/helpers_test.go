package combiner

import (
	"fmt"
	"testing"

	pmath "github.com/Faultbox/autopalette/pkg/math"
	"github.com/Faultbox/autopalette/pkg/palette"
	"github.com/Faultbox/autopalette/pkg/scene"
	"github.com/Faultbox/autopalette/pkg/shadergraph"
)

// testColor returns a distinct linear color for slot i.
func testColor(i, n int) palette.Color {
	f := float64(i+1) / float64(n+1)
	return palette.RGB(f, 1-f, f*f)
}

// newTestScene builds a scene whose active mesh object has one material
// per slot and two faces per slot. Neighbouring faces share vertices.
func newTestScene(t *testing.T, slots int) (*scene.Scene, *scene.Object) {
	t.Helper()

	s := scene.New()
	mesh := &scene.Mesh{Name: "strip", UVLayer: scene.DefaultUVLayer}
	faces := slots * 2
	for v := 0; v < faces+2; v++ {
		mesh.Positions = append(mesh.Positions, pmath.Vec3{X: float32(v / 2), Y: float32(v % 2)})
	}
	for f := 0; f < faces; f++ {
		mesh.Faces = append(mesh.Faces, scene.Face{
			MaterialIndex: f / 2,
			Loops: []scene.Loop{
				{Vertex: f, UV: pmath.Vec2{X: 0.3, Y: 0.6}},
				{Vertex: f + 1, UV: pmath.Vec2{X: 0.9, Y: 0.1}},
				{Vertex: f + 2, UV: pmath.Vec2{X: 0.05, Y: 0.95}},
			},
		})
	}

	obj := scene.NewMeshObject("Strip", mesh)
	for i := 0; i < slots; i++ {
		m, err := s.NewMaterial(fmt.Sprintf("Mat%02d", i))
		if err != nil {
			t.Fatalf("NewMaterial failed: %v", err)
		}
		bsdf, _ := m.Principled()
		f := float64(i+1) / float64(slots+1)
		bsdf.Input(shadergraph.InBaseColor).Color = testColor(i, slots)
		bsdf.Input(shadergraph.InMetallic).Float = f
		bsdf.Input(shadergraph.InRoughness).Float = 1 - f
		bsdf.Input(shadergraph.InEmission).Color = palette.RGB(f/2, 0, 0)
		obj.AppendMaterial(m)
	}
	s.AddObject(obj)
	return s, obj
}

// allOptions enables every palette.
func allOptions() Options {
	opts := DefaultOptions()
	opts.IncludeEmission = true
	return opts
}

// noOptions disables every optional palette.
func noOptions() Options {
	return Options{Names: DefaultNames()}
}

// slotOfFaces records the slot of every face before a run.
func slotOfFaces(obj *scene.Object) []int {
	out := make([]int, len(obj.Mesh.Faces))
	for i, f := range obj.Mesh.Faces {
		out[i] = f.MaterialIndex
	}
	return out
}

// linkInto returns "Node.Socket" of the link feeding node.input, or "".
func linkInto(tree *shadergraph.Tree, node, input string) string {
	n, ok := tree.Node(node)
	if !ok {
		return ""
	}
	l := tree.LinkTo(n, input)
	if l == nil {
		return ""
	}
	return l.From.Name + "." + l.FromSocket
}
