package combiner

import (
	"fmt"
	"testing"

	"github.com/Faultbox/autopalette/pkg/palette"
	"github.com/Faultbox/autopalette/pkg/shadergraph"
)

func TestBuildGraph_AllCombinations(t *testing.T) {
	pal := &Palette{
		Side:       2,
		Color:      &palette.Image{Name: "color_palette"},
		RoughMetal: &palette.Image{Name: "rough_metal_palette"},
		Emission:   &palette.Image{Name: "emission_palette"},
	}

	for mask := 0; mask < 8; mask++ {
		opts := Options{
			IncludeMetallic:  mask&1 != 0,
			IncludeRoughness: mask&2 != 0,
			IncludeEmission:  mask&4 != 0,
		}
		t.Run(fmt.Sprintf("metal=%v/rough=%v/emit=%v", opts.IncludeMetallic, opts.IncludeRoughness, opts.IncludeEmission), func(t *testing.T) {
			tree := shadergraph.NewMaterialTree()
			if err := BuildGraph(tree, pal, opts); err != nil {
				t.Fatalf("BuildGraph failed: %v", err)
			}

			wantTex, wantSep, wantEm, wantAdd := 1, 0, 0, 0
			wantLinks := 2 // BSDF -> Surface, color -> Base Color
			if opts.RoughMetal() {
				wantTex++
				wantSep = 1
				wantLinks++ // texture -> Separate RGB
			}
			if opts.IncludeMetallic {
				wantLinks++
			}
			if opts.IncludeRoughness {
				wantLinks++
			}
			if opts.IncludeEmission {
				wantTex++
				wantEm, wantAdd = 1, 1
				wantLinks += 3 // texture -> Emission, BSDF -> Add, Emission -> Add; Add replaces BSDF -> Surface
			}

			checks := []struct {
				kind shadergraph.NodeKind
				want int
			}{
				{shadergraph.KindTexImage, wantTex},
				{shadergraph.KindSeparateRGB, wantSep},
				{shadergraph.KindEmission, wantEm},
				{shadergraph.KindAddShader, wantAdd},
				{shadergraph.KindPrincipledBSDF, 1},
				{shadergraph.KindMaterialOutput, 1},
			}
			for _, c := range checks {
				if got := len(tree.NodesOfKind(c.kind)); got != c.want {
					t.Errorf("%s nodes = %d, want %d", c.kind, got, c.want)
				}
			}
			if got := len(tree.Links()); got != wantLinks {
				t.Errorf("links = %d, want %d: %v", got, wantLinks, tree.Links())
			}
		})
	}
}

func TestBuildGraph_MissingPrincipled(t *testing.T) {
	if err := BuildGraph(shadergraph.New(), &Palette{}, Options{}); err == nil {
		t.Error("expected error for tree without principled node")
	}
}
