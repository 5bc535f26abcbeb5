package gltfio

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	pmath "github.com/Faultbox/autopalette/pkg/math"
	"github.com/Faultbox/autopalette/pkg/palette"
	"github.com/Faultbox/autopalette/pkg/scene"
	"github.com/Faultbox/autopalette/pkg/shadergraph"
)

// Generator is written to the asset header of exported documents.
const Generator = "autopalette"

// ExportOptions controls how Save writes a document.
type ExportOptions struct {
	// Binary forces a .glb container regardless of the file extension.
	Binary bool
	// EmbedImages stores images in the document buffer instead of next to
	// the output file. Always true for binary output.
	EmbedImages bool
}

// IsBinary reports whether path should be written as a .glb container.
func (o ExportOptions) IsBinary(path string) bool {
	return o.Binary || strings.EqualFold(filepath.Ext(path), ".glb")
}

// Save writes the asset's active object to path as a new document holding
// that object's node, mesh, materials and images.
func Save(a *Asset, path string, opts ExportOptions, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	binary := opts.IsBinary(path)

	ex := &exporter{
		scene:    a.Scene,
		doc:      gltf.NewDocument(),
		dir:      filepath.Dir(path),
		embed:    binary || opts.EmbedImages,
		log:      log,
		textures: make(map[textureKey]int),
		images:   make(map[string]int),
		samplers: make(map[shadergraph.Interpolation]int),
	}
	ex.doc.Asset.Generator = Generator

	if err := ex.writeObject(a.Object); err != nil {
		return err
	}

	if binary {
		if err := gltf.SaveBinary(ex.doc, path); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	} else {
		for _, b := range ex.doc.Buffers {
			if b.URI == "" && len(b.Data) > 0 {
				b.EmbeddedResource()
			}
		}
		if err := gltf.Save(ex.doc, path); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}

	log.Info("wrote glTF",
		zap.String("path", path),
		zap.Bool("binary", binary),
		zap.Int("materials", len(ex.doc.Materials)),
		zap.Int("images", len(ex.doc.Images)))
	return nil
}

type textureKey struct {
	image  string
	interp shadergraph.Interpolation
}

type exporter struct {
	scene *scene.Scene
	doc   *gltf.Document
	dir   string
	embed bool
	log   *zap.Logger

	textures map[textureKey]int
	images   map[string]int
	samplers map[shadergraph.Interpolation]int
}

// corner is a deduplication key for exported vertices.
type corner struct {
	vertex int
	uv     pmath.Vec2
}

func (ex *exporter) writeObject(obj *scene.Object) error {
	if obj == nil || obj.Mesh == nil {
		return scene.ErrNotMesh
	}
	mesh := obj.Mesh
	withUV := mesh.HasUVs()
	withNormals := len(mesh.Normals) == len(mesh.Positions) && len(mesh.Normals) > 0

	var (
		positions [][3]float32
		normals   [][3]float32
		uvs       [][2]float32
		lookup    = make(map[corner]uint32)
	)
	vertexOf := func(l scene.Loop) uint32 {
		key := corner{vertex: l.Vertex}
		if withUV {
			key.uv = l.UV
		}
		if idx, ok := lookup[key]; ok {
			return idx
		}
		idx := uint32(len(positions))
		lookup[key] = idx
		positions = append(positions, mesh.Positions[l.Vertex].Array())
		if withNormals {
			normals = append(normals, mesh.Normals[l.Vertex].Array())
		}
		if withUV {
			uvs = append(uvs, l.UV.FlipV().Array())
		}
		return idx
	}

	// Indices per slot; faces are fan triangulated.
	slots := len(obj.Slots)
	if slots == 0 {
		slots = 1
	}
	indices := make([][]uint32, slots)
	for _, f := range mesh.Faces {
		if len(f.Loops) < 3 {
			continue
		}
		for _, l := range f.Loops {
			if l.Vertex < 0 || l.Vertex >= len(mesh.Positions) {
				return fmt.Errorf("face references vertex %d of %d", l.Vertex, len(mesh.Positions))
			}
		}
		slot := f.MaterialIndex
		if slot < 0 || slot >= slots {
			slot = 0
		}
		first := vertexOf(f.Loops[0])
		for i := 1; i+1 < len(f.Loops); i++ {
			indices[slot] = append(indices[slot], first, vertexOf(f.Loops[i]), vertexOf(f.Loops[i+1]))
		}
	}
	if len(positions) == 0 {
		return fmt.Errorf("%w: %s", ErrNoTriangles, obj.Name)
	}

	attrs := map[string]int{gltf.POSITION: modeler.WritePosition(ex.doc, positions)}
	if withNormals {
		attrs[gltf.NORMAL] = modeler.WriteNormal(ex.doc, normals)
	}
	if withUV {
		attrs[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(ex.doc, uvs)
	}

	gm := &gltf.Mesh{Name: mesh.Name}
	if gm.Name == "" {
		gm.Name = obj.Name
	}
	for slot, idx := range indices {
		if len(idx) == 0 {
			continue
		}
		prim := &gltf.Primitive{
			Attributes: attrs,
			Indices:    gltf.Index(modeler.WriteIndices(ex.doc, idx)),
			Mode:       gltf.PrimitiveTriangles,
		}
		if slot < len(obj.Slots) && obj.Slots[slot] != nil {
			mi, err := ex.material(obj.Slots[slot])
			if err != nil {
				return err
			}
			prim.Material = gltf.Index(mi)
		}
		gm.Primitives = append(gm.Primitives, prim)
	}
	ex.doc.Meshes = append(ex.doc.Meshes, gm)

	ex.doc.Nodes = append(ex.doc.Nodes, &gltf.Node{
		Name:        obj.Name,
		Mesh:        gltf.Index(len(ex.doc.Meshes) - 1),
		Translation: obj.Transform.Translation,
		Rotation:    obj.Transform.Rotation,
		Scale:       obj.Transform.Scale,
	})
	ex.doc.Scenes[0].Nodes = append(ex.doc.Scenes[0].Nodes, len(ex.doc.Nodes)-1)

	ex.log.Debug("exported mesh",
		zap.String("object", obj.Name),
		zap.Int("vertices", len(positions)),
		zap.Int("primitives", len(gm.Primitives)))
	return nil
}

// material converts m to a glTF metallic-roughness material and returns
// its index. Graph shapes other than those produced by import or by the
// combiner fall back to the principled input values.
func (ex *exporter) material(m *scene.Material) (int, error) {
	for i, gm := range ex.doc.Materials {
		if gm.Name == m.Name {
			return i, nil
		}
	}

	gm := &gltf.Material{
		Name:      m.Name,
		AlphaMode: gltf.AlphaOpaque,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{1, 1, 1, 1},
			MetallicFactor:  gltf.Float(1),
			RoughnessFactor: gltf.Float(1),
		},
	}
	if h, ok := m.PaletteHash(); ok {
		gm.Extras = newPaletteExtras(h)
	}

	bsdf, ok := m.Principled()
	if !ok {
		ex.log.Warn("material has no principled node, using defaults", zap.String("material", m.Name))
		ex.doc.Materials = append(ex.doc.Materials, gm)
		return len(ex.doc.Materials) - 1, nil
	}
	tree := m.Tree
	pbr := gm.PBRMetallicRoughness

	// Base color.
	if tex := ex.sourceTexture(tree, bsdf, shadergraph.InBaseColor); tex != nil {
		ti, err := ex.texture(tex)
		if err != nil {
			return 0, err
		}
		if ti >= 0 {
			pbr.BaseColorTexture = &gltf.TextureInfo{Index: ti}
		}
	} else {
		c := bsdf.Input(shadergraph.InBaseColor).Color
		pbr.BaseColorFactor = &[4]float64{c.R, c.G, c.B, c.A}
	}

	// Metallic and roughness. A channel fed by the shared texture gets
	// factor 1; an unlinked one keeps its input value.
	metalTex := ex.separatedTexture(tree, bsdf, shadergraph.InMetallic)
	roughTex := ex.separatedTexture(tree, bsdf, shadergraph.InRoughness)
	rmTex := metalTex
	if rmTex == nil {
		rmTex = roughTex
	}
	if metalTex == nil {
		pbr.MetallicFactor = gltf.Float(palette.Clamp01(bsdf.Input(shadergraph.InMetallic).Float))
	}
	if roughTex == nil {
		pbr.RoughnessFactor = gltf.Float(palette.Clamp01(bsdf.Input(shadergraph.InRoughness).Float))
	}
	if rmTex != nil {
		ti, err := ex.texture(rmTex)
		if err != nil {
			return 0, err
		}
		if ti >= 0 {
			pbr.MetallicRoughnessTexture = &gltf.TextureInfo{Index: ti}
		}
	}

	// Emission, either through an Emission shader added to the BSDF or
	// through the principled Emission input.
	if err := ex.emission(gm, tree, bsdf); err != nil {
		return 0, err
	}

	ex.doc.Materials = append(ex.doc.Materials, gm)
	return len(ex.doc.Materials) - 1, nil
}

func (ex *exporter) emission(gm *gltf.Material, tree *shadergraph.Tree, bsdf *shadergraph.Node) error {
	if em := emissionShader(tree); em != nil {
		strength := palette.Clamp01(em.Input(shadergraph.InStrength).Float)
		if tex := ex.sourceTexture(tree, em, shadergraph.InColor); tex != nil {
			ti, err := ex.texture(tex)
			if err != nil {
				return err
			}
			if ti >= 0 {
				gm.EmissiveTexture = &gltf.TextureInfo{Index: ti}
				gm.EmissiveFactor = [3]float64{strength, strength, strength}
			}
			return nil
		}
		c := em.Input(shadergraph.InColor).Color
		gm.EmissiveFactor = [3]float64{
			palette.Clamp01(c.R * strength),
			palette.Clamp01(c.G * strength),
			palette.Clamp01(c.B * strength),
		}
		return nil
	}

	strength := bsdf.Input(shadergraph.InEmissionStrength).Float
	if tex := ex.sourceTexture(tree, bsdf, shadergraph.InEmission); tex != nil {
		ti, err := ex.texture(tex)
		if err != nil {
			return err
		}
		if ti >= 0 {
			s := palette.Clamp01(strength)
			gm.EmissiveTexture = &gltf.TextureInfo{Index: ti}
			gm.EmissiveFactor = [3]float64{s, s, s}
		}
		return nil
	}
	c := bsdf.Input(shadergraph.InEmission).Color
	gm.EmissiveFactor = [3]float64{
		palette.Clamp01(c.R * strength),
		palette.Clamp01(c.G * strength),
		palette.Clamp01(c.B * strength),
	}
	return nil
}

// emissionShader returns the Emission node summed into the surface output
// through an Add Shader, or nil.
func emissionShader(tree *shadergraph.Tree) *shadergraph.Node {
	out, ok := tree.Node(shadergraph.KindMaterialOutput.String())
	if !ok {
		return nil
	}
	surface := tree.LinkTo(out, shadergraph.InSurface)
	if surface == nil || surface.From.Kind != shadergraph.KindAddShader {
		return nil
	}
	for _, in := range []string{shadergraph.InShader, shadergraph.InShader2} {
		if l := tree.LinkTo(surface.From, in); l != nil && l.From.Kind == shadergraph.KindEmission {
			return l.From
		}
	}
	return nil
}

// sourceTexture returns the image texture node linked directly into input.
func (ex *exporter) sourceTexture(tree *shadergraph.Tree, n *shadergraph.Node, input string) *shadergraph.Node {
	l := tree.LinkTo(n, input)
	if l == nil || l.From.Kind != shadergraph.KindTexImage {
		return nil
	}
	return l.From
}

// separatedTexture returns the image texture node feeding input through a
// Separate RGB node, or nil.
func (ex *exporter) separatedTexture(tree *shadergraph.Tree, n *shadergraph.Node, input string) *shadergraph.Node {
	l := tree.LinkTo(n, input)
	if l == nil || l.From.Kind != shadergraph.KindSeparateRGB {
		return nil
	}
	return ex.sourceTexture(tree, l.From, shadergraph.InImage)
}

// texture returns the document texture index for an image texture node,
// writing the image on first use. It returns -1 when the node's image is
// not in the scene.
func (ex *exporter) texture(n *shadergraph.Node) (int, error) {
	key := textureKey{image: n.Image, interp: n.Interpolation}
	if ti, ok := ex.textures[key]; ok {
		return ti, nil
	}

	img, ok := ex.scene.Image(n.Image)
	if !ok {
		ex.log.Warn("texture image not found, dropping texture",
			zap.String("node", n.Name), zap.String("image", n.Image))
		ex.textures[key] = -1
		return -1, nil
	}
	ii, err := ex.image(img)
	if err != nil {
		return 0, err
	}

	tex := &gltf.Texture{Name: img.Name, Source: gltf.Index(ii)}
	if n.Interpolation == shadergraph.InterpClosest {
		tex.Sampler = gltf.Index(ex.sampler(n.Interpolation))
	}
	ex.doc.Textures = append(ex.doc.Textures, tex)
	ti := len(ex.doc.Textures) - 1
	ex.textures[key] = ti
	return ti, nil
}

func (ex *exporter) sampler(interp shadergraph.Interpolation) int {
	if si, ok := ex.samplers[interp]; ok {
		return si
	}
	s := &gltf.Sampler{WrapS: gltf.WrapClampToEdge, WrapT: gltf.WrapClampToEdge}
	if interp == shadergraph.InterpClosest {
		s.MagFilter = gltf.MagNearest
		s.MinFilter = gltf.MinNearest
	}
	ex.doc.Samplers = append(ex.doc.Samplers, s)
	si := len(ex.doc.Samplers) - 1
	ex.samplers[interp] = si
	return si
}

// image writes img as PNG, embedded or next to the output file.
func (ex *exporter) image(img *palette.Image) (int, error) {
	if ii, ok := ex.images[img.Name]; ok {
		return ii, nil
	}

	var buf bytes.Buffer
	if err := img.EncodePNG(&buf); err != nil {
		return 0, err
	}

	var ii int
	if ex.embed {
		var err error
		ii, err = modeler.WriteImage(ex.doc, img.Name, "image/png", &buf)
		if err != nil {
			return 0, fmt.Errorf("embedding image %s: %w", img.Name, err)
		}
	} else {
		uri := imageFileName(img.Name)
		dst := filepath.Join(ex.dir, uri)
		if err := os.WriteFile(dst, buf.Bytes(), 0o644); err != nil {
			return 0, fmt.Errorf("writing image %s: %w", dst, err)
		}
		ex.doc.Images = append(ex.doc.Images, &gltf.Image{
			Name:     img.Name,
			URI:      uri,
			MimeType: "image/png",
		})
		ii = len(ex.doc.Images) - 1
		ex.log.Debug("wrote image", zap.String("path", dst))
	}
	if img.Hash != "" {
		ex.doc.Images[ii].Extras = newPaletteExtras(img.Hash)
	}
	ex.images[img.Name] = ii
	return ii, nil
}

// imageFileName turns a registry name into a file name safe for a URI.
func imageFileName(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, name)
	if clean == "" {
		clean = "image"
	}
	return clean + ".png"
}
