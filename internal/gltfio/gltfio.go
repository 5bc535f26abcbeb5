// Package gltfio moves mesh objects between glTF 2.0 files and the
// in-memory scene the combiner operates on.
//
// The scene keeps UVs and images with a bottom-left origin; glTF uses a
// top-left origin. Import and export flip both, so a UV keeps sampling the
// same texel on either side.
package gltfio

import (
	"encoding/json"
	"errors"

	"github.com/qmuntal/gltf"

	"github.com/Faultbox/autopalette/pkg/scene"
)

// Import errors.
var (
	ErrNoMeshNode   = errors.New("document has no node with a mesh")
	ErrNodeNotFound = errors.New("mesh node not found")
	ErrNoTriangles  = errors.New("mesh has no triangle primitives")
)

// Asset is a loaded glTF document together with its scene form.
type Asset struct {
	Doc    *gltf.Document
	Dir    string // directory external resources are resolved against
	Scene  *scene.Scene
	Object *scene.Object // the active mesh object
	Node   int           // document node the object was read from
}

// paletteExtras is the extras payload written on generated materials and images.
type paletteExtras struct {
	Autopalette struct {
		Hash string `json:"hash"`
	} `json:"autopalette"`
}

func newPaletteExtras(hash string) map[string]any {
	return map[string]any{
		"autopalette": map[string]any{"hash": hash},
	}
}

// readPaletteHash extracts the palette hash from a decoded extras value.
// The value may be a map or raw JSON depending on how it was decoded.
func readPaletteHash(extras any) string {
	if extras == nil {
		return ""
	}
	data, err := json.Marshal(extras)
	if err != nil {
		return ""
	}
	var pe paletteExtras
	if err := json.Unmarshal(data, &pe); err != nil {
		return ""
	}
	return pe.Autopalette.Hash
}
