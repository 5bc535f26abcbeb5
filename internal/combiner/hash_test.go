package combiner

import (
	"testing"

	"github.com/Faultbox/autopalette/pkg/palette"
)

func TestHash(t *testing.T) {
	attrs := []MaterialAttributes{
		{Material: "A", BaseColor: palette.RGB(1, 0, 0), Metallic: 0.5, Roughness: 0.2},
		{Material: "B", BaseColor: palette.RGB(0, 1, 0)},
	}
	opts := DefaultOptions()
	base := Hash(attrs, opts)

	if len(base) != 32 {
		t.Errorf("hash length = %d, want 32", len(base))
	}
	if Hash(attrs, opts) != base {
		t.Error("hash is not deterministic")
	}

	renamed := append([]MaterialAttributes(nil), attrs...)
	renamed[0].Material = "Other"
	if Hash(renamed, opts) != base {
		t.Error("material names should not affect the hash")
	}

	changed := append([]MaterialAttributes(nil), attrs...)
	changed[1].Roughness = 0.9
	if Hash(changed, opts) == base {
		t.Error("changed roughness should change the hash")
	}

	reordered := []MaterialAttributes{attrs[1], attrs[0]}
	if Hash(reordered, opts) == base {
		t.Error("slot order should change the hash")
	}

	opts.IncludeEmission = true
	if Hash(attrs, opts) == base {
		t.Error("options should change the hash")
	}
}
