package gltfio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/autopalette/internal/assets"
	pmath "github.com/Faultbox/autopalette/pkg/math"
	"github.com/Faultbox/autopalette/pkg/palette"
	"github.com/Faultbox/autopalette/pkg/scene"
	"github.com/Faultbox/autopalette/pkg/shadergraph"
)

// defaultMaterialName names the slot of primitives without a material.
const defaultMaterialName = "Material"

const extTextureWebP = "EXT_texture_webp"

// Load opens a .gltf or .glb file and imports the mesh node named object,
// or the first mesh node when object is empty. External images are looked
// up in searchDirs before the file's own directory.
func Load(path, object string, log *zap.Logger, searchDirs ...string) (*Asset, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	return Import(doc, filepath.Dir(path), object, log, searchDirs...)
}

// Import converts one mesh node of doc into a scene. Images are resolved
// against searchDirs, then dir.
func Import(doc *gltf.Document, dir, object string, log *zap.Logger, searchDirs ...string) (*Asset, error) {
	if log == nil {
		log = zap.NewNop()
	}

	nodeIdx, err := findMeshNode(doc, object)
	if err != nil {
		return nil, err
	}
	gn := doc.Nodes[nodeIdx]

	resources := assets.NewManager(dir)
	for i := len(searchDirs) - 1; i >= 0; i-- {
		resources.AddRoot(searchDirs[i])
	}
	defer func() {
		hits, misses := resources.Stats()
		log.Debug("resolved external resources", zap.Int("cache_hits", hits), zap.Int("cache_misses", misses))
		resources.Close()
	}()

	im := &importer{
		doc:       doc,
		resources: resources,
		log:       log,
		scene:     scene.New(),
		textures:  make(map[int]string),
		materials: make(map[int]*scene.Material),
	}
	im.importImages()

	obj, err := im.importObject(gn, nodeIdx)
	if err != nil {
		return nil, err
	}
	im.scene.AddObject(obj)
	if err := im.scene.SetActive(obj.Name); err != nil {
		return nil, err
	}

	log.Debug("imported glTF node",
		zap.String("node", obj.Name),
		zap.Int("slots", len(obj.Slots)),
		zap.Int("faces", len(obj.Mesh.Faces)),
		zap.Int("loops", obj.Mesh.LoopCount()),
		zap.Int("images", len(im.scene.Images())))

	return &Asset{
		Doc:    doc,
		Dir:    dir,
		Scene:  im.scene,
		Object: obj,
		Node:   nodeIdx,
	}, nil
}

// findMeshNode returns the node named object, or the first mesh node
// reachable from the default scene, or the first mesh node at all.
func findMeshNode(doc *gltf.Document, object string) (int, error) {
	if object != "" {
		for i, n := range doc.Nodes {
			if n.Name == object && n.Mesh != nil {
				return i, nil
			}
		}
		return 0, fmt.Errorf("%w: %s", ErrNodeNotFound, object)
	}

	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		var walk func(i int) (int, bool)
		walk = func(i int) (int, bool) {
			if i >= len(doc.Nodes) {
				return 0, false
			}
			if doc.Nodes[i].Mesh != nil {
				return i, true
			}
			for _, c := range doc.Nodes[i].Children {
				if found, ok := walk(c); ok {
					return found, true
				}
			}
			return 0, false
		}
		for _, root := range doc.Scenes[*doc.Scene].Nodes {
			if found, ok := walk(root); ok {
				return found, nil
			}
		}
	}

	for i, n := range doc.Nodes {
		if n.Mesh != nil {
			return i, nil
		}
	}
	return 0, ErrNoMeshNode
}

type importer struct {
	doc       *gltf.Document
	resources *assets.Manager
	log       *zap.Logger
	scene     *scene.Scene
	textures  map[int]string // texture index -> image registry name
	materials map[int]*scene.Material
}

// importImages registers every decodable image. Images that cannot be read
// are logged and skipped; texture nodes referencing them keep the name.
func (im *importer) importImages() {
	names := make(map[int]string, len(im.doc.Images))
	for i, gi := range im.doc.Images {
		name := imageName(gi, i)
		data, err := im.imageData(gi)
		if err != nil {
			im.log.Warn("skipping image", zap.String("image", name), zap.Error(err))
			names[i] = name
			continue
		}
		img, err := palette.Decode(name, bytes.NewReader(data))
		if err != nil {
			im.log.Warn("skipping image", zap.String("image", name), zap.Error(err))
			names[i] = name
			continue
		}
		img.Hash = readPaletteHash(gi.Extras)
		im.scene.AddImage(img)
		names[i] = img.Name
	}

	for i, tex := range im.doc.Textures {
		if src, ok := textureSource(tex); ok && src < len(im.doc.Images) {
			im.textures[i] = names[src]
		}
	}
}

// textureSource returns the image index of tex, falling back to the
// EXT_texture_webp source when the core one is absent.
func textureSource(tex *gltf.Texture) (int, bool) {
	if tex.Source != nil {
		return *tex.Source, true
	}
	raw, ok := tex.Extensions[extTextureWebP]
	if !ok {
		return 0, false
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return 0, false
	}
	var ext struct {
		Source *int `json:"source"`
	}
	if err := json.Unmarshal(data, &ext); err != nil || ext.Source == nil {
		return 0, false
	}
	return *ext.Source, true
}

func imageName(gi *gltf.Image, i int) string {
	if gi.Name != "" {
		return gi.Name
	}
	if gi.URI != "" && !gi.IsEmbeddedResource() {
		base := filepath.Base(gi.URI)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return fmt.Sprintf("image_%d", i)
}

func (im *importer) imageData(gi *gltf.Image) ([]byte, error) {
	switch {
	case gi.BufferView != nil:
		return modeler.ReadBufferView(im.doc, im.doc.BufferViews[*gi.BufferView])
	case gi.IsEmbeddedResource():
		return gi.MarshalData()
	case gi.URI != "":
		return im.resources.Load(gi.URI)
	default:
		return nil, fmt.Errorf("image has no data")
	}
}

func (im *importer) importObject(gn *gltf.Node, nodeIdx int) (*scene.Object, error) {
	gm := im.doc.Meshes[*gn.Mesh]

	name := gn.Name
	if name == "" {
		name = gm.Name
	}
	if name == "" {
		name = fmt.Sprintf("node_%d", nodeIdx)
	}

	mesh := &scene.Mesh{Name: gm.Name}
	obj := scene.NewMeshObject(name, mesh)
	obj.Transform = scene.Transform{
		Translation: gn.TranslationOrDefault(),
		Rotation:    gn.RotationOrDefault(),
		Scale:       gn.ScaleOrDefault(),
	}

	slotOf := make(map[int]int) // document material index (-1 = none) -> slot
	hasNormals := true
	for pi, prim := range gm.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			im.log.Warn("skipping non-triangle primitive", zap.Int("primitive", pi))
			continue
		}

		matIdx := -1
		if prim.Material != nil {
			matIdx = *prim.Material
		}
		slot, ok := slotOf[matIdx]
		if !ok {
			slot = len(obj.Slots)
			slotOf[matIdx] = slot
			obj.AppendMaterial(im.material(matIdx))
		}

		normals, err := im.appendPrimitive(mesh, prim, slot)
		if err != nil {
			return nil, fmt.Errorf("mesh %s primitive %d: %w", gm.Name, pi, err)
		}
		hasNormals = hasNormals && normals
	}

	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoTriangles, name)
	}
	if !hasNormals {
		mesh.Normals = nil
	}
	return obj, nil
}

// appendPrimitive adds the primitive's vertices and triangles to mesh and
// reports whether it carried normals.
func (im *importer) appendPrimitive(mesh *scene.Mesh, prim *gltf.Primitive, slot int) (bool, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return false, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(im.doc, im.doc.Accessors[posIdx], nil)
	if err != nil {
		return false, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = modeler.ReadNormal(im.doc, im.doc.Accessors[idx], nil); err != nil {
			return false, fmt.Errorf("normals: %w", err)
		}
	}

	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = modeler.ReadTextureCoord(im.doc, im.doc.Accessors[idx], nil); err != nil {
			return false, fmt.Errorf("texcoords: %w", err)
		}
		mesh.UVLayer = scene.DefaultUVLayer
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = modeler.ReadIndices(im.doc, im.doc.Accessors[*prim.Indices], nil); err != nil {
			return false, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	base := len(mesh.Positions)
	for i, p := range positions {
		mesh.Positions = append(mesh.Positions, pmath.Vec3FromArray(p))
		n := pmath.Vec3{}
		if i < len(normals) {
			n = pmath.Vec3FromArray(normals[i])
		}
		mesh.Normals = append(mesh.Normals, n)
	}

	for t := 0; t+2 < len(indices); t += 3 {
		face := scene.Face{MaterialIndex: slot, Loops: make([]scene.Loop, 3)}
		for c := 0; c < 3; c++ {
			vi := int(indices[t+c])
			if vi >= len(positions) {
				return false, fmt.Errorf("index %d out of range (%d vertices)", vi, len(positions))
			}
			loop := scene.Loop{Vertex: base + vi}
			if vi < len(uvs) {
				loop.UV = pmath.Vec2FromArray(uvs[vi]).FlipV()
			}
			face.Loops[c] = loop
		}
		mesh.Faces = append(mesh.Faces, face)
	}
	return len(normals) == len(positions), nil
}

// material returns the scene material for a document material index,
// converting it on first use. -1 yields a material with glTF defaults.
func (im *importer) material(idx int) *scene.Material {
	if m, ok := im.materials[idx]; ok {
		return m
	}

	var gm *gltf.Material
	if idx >= 0 && idx < len(im.doc.Materials) {
		gm = im.doc.Materials[idx]
	} else {
		gm = &gltf.Material{Name: defaultMaterialName}
	}

	m := im.convertMaterial(gm)
	im.scene.AddMaterial(m)
	im.materials[idx] = m
	return m
}

// convertMaterial maps glTF metallic-roughness factors onto a principled
// tree. Textures become image nodes linked into the matching input.
func (im *importer) convertMaterial(gm *gltf.Material) *scene.Material {
	name := gm.Name
	if name == "" {
		name = defaultMaterialName
	}
	m := scene.NewMaterial(name)
	tree := m.Tree
	bsdf, _ := m.Principled()

	pbr := gm.PBRMetallicRoughness
	if pbr == nil {
		pbr = &gltf.PBRMetallicRoughness{}
	}
	bsdf.Input(shadergraph.InBaseColor).Color = palette.ColorFromArray(pbr.BaseColorFactorOrDefault())
	bsdf.Input(shadergraph.InMetallic).Float = pbr.MetallicFactorOrDefault()
	bsdf.Input(shadergraph.InRoughness).Float = pbr.RoughnessFactorOrDefault()
	ef := gm.EmissiveFactor
	bsdf.Input(shadergraph.InEmission).Color = palette.RGB(ef[0], ef[1], ef[2])

	if pbr.BaseColorTexture != nil {
		tex := im.textureNode(tree, pbr.BaseColorTexture.Index)
		_, _ = tree.Link(tex, shadergraph.OutColor, bsdf, shadergraph.InBaseColor)
	}
	if pbr.MetallicRoughnessTexture != nil {
		tex := im.textureNode(tree, pbr.MetallicRoughnessTexture.Index)
		sep := tree.Add(shadergraph.KindSeparateRGB)
		_, _ = tree.Link(tex, shadergraph.OutColor, sep, shadergraph.InImage)
		_, _ = tree.Link(sep, shadergraph.OutB, bsdf, shadergraph.InMetallic)
		_, _ = tree.Link(sep, shadergraph.OutG, bsdf, shadergraph.InRoughness)
	}
	if gm.EmissiveTexture != nil {
		tex := im.textureNode(tree, gm.EmissiveTexture.Index)
		_, _ = tree.Link(tex, shadergraph.OutColor, bsdf, shadergraph.InEmission)
	}

	im.pruneMissingTextures(tree)

	if h := readPaletteHash(gm.Extras); h != "" {
		m.Props[scene.PropPaletteHash] = h
	}
	return m
}

// pruneMissingTextures removes image nodes whose image could not be read,
// then Separate RGB nodes left without input, so the principled inputs fall
// back to the document factors.
func (im *importer) pruneMissingTextures(tree *shadergraph.Tree) {
	for _, n := range tree.NodesOfKind(shadergraph.KindTexImage) {
		if _, ok := im.scene.Image(n.Image); !ok {
			im.log.Debug("dropping texture without image", zap.String("image", n.Image))
			tree.Remove(n)
		}
	}
	for _, n := range tree.NodesOfKind(shadergraph.KindSeparateRGB) {
		if tree.LinkTo(n, shadergraph.InImage) == nil {
			tree.Remove(n)
		}
	}
}

func (im *importer) textureNode(tree *shadergraph.Tree, texIdx int) *shadergraph.Node {
	n := tree.Add(shadergraph.KindTexImage)
	n.Image = im.textures[texIdx]
	if texIdx < len(im.doc.Textures) {
		if s := im.doc.Textures[texIdx].Sampler; s != nil && *s < len(im.doc.Samplers) {
			if im.doc.Samplers[*s].MagFilter == gltf.MagNearest {
				n.Interpolation = shadergraph.InterpClosest
			}
		}
	}
	return n
}
