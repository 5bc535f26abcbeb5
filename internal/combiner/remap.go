package combiner

import (
	"go.uber.org/zap"

	"github.com/Faultbox/autopalette/pkg/palette"
	"github.com/Faultbox/autopalette/pkg/scene"
)

// remap collapses the UVs of every face on slot i to the centre of texel i.
// It reports whether a UV layer had to be created.
func (c *Combiner) remap(obj *scene.Object, slots, side int) (bool, error) {
	ed, err := c.host.Edit(obj)
	if err != nil {
		return false, err
	}

	created := ed.EnsureUVLayer()
	if created {
		c.log.Debug("created UV layer", zap.String("layer", scene.DefaultUVLayer))
	}

	ed.SelectAllUVs()
	ed.DeselectAllFaces()
	for i := 0; i < slots; i++ {
		faces := ed.SelectByMaterial(i)
		ed.SetCursor(palette.TexelCenter(i, side))
		ed.SnapSelectedToCursor()
		ed.SnapSelectedToPixels(side, side)
		ed.DeselectAllUVs()
		c.log.Debug("remapped slot",
			zap.Int("slot", i),
			zap.Int("faces", faces))
	}
	return created, nil
}
