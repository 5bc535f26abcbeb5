// Package shadergraph models a material's shader node tree: typed nodes
// with named sockets and links from outputs to inputs.
package shadergraph

import (
	"fmt"

	"github.com/Faultbox/autopalette/pkg/palette"
)

// NodeKind identifies the type of a shader node.
type NodeKind int

// Node kinds.
const (
	KindPrincipledBSDF NodeKind = iota // Physically based surface
	KindMaterialOutput                 // Material sink
	KindTexImage                       // Image texture lookup
	KindSeparateRGB                    // Splits a color into channels
	KindEmission                       // Emissive shader
	KindAddShader                      // Sums two shaders
)

// String returns the default node name for the kind.
func (k NodeKind) String() string {
	switch k {
	case KindPrincipledBSDF:
		return "Principled BSDF"
	case KindMaterialOutput:
		return "Material Output"
	case KindTexImage:
		return "Image Texture"
	case KindSeparateRGB:
		return "Separate RGB"
	case KindEmission:
		return "Emission"
	case KindAddShader:
		return "Add Shader"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// SocketType is the data type carried by a socket.
type SocketType int

// Socket types.
const (
	SocketFloat SocketType = iota
	SocketColor
	SocketVector
	SocketShader
)

// Socket names used across the package and its callers.
const (
	InBaseColor        = "Base Color"
	InMetallic         = "Metallic"
	InRoughness        = "Roughness"
	InEmission         = "Emission"
	InEmissionStrength = "Emission Strength"
	InAlpha            = "Alpha"
	InSurface          = "Surface"
	InVolume           = "Volume"
	InDisplacement     = "Displacement"
	InVector           = "Vector"
	InImage            = "Image"
	InColor            = "Color"
	InStrength         = "Strength"
	InShader           = "Shader"
	InShader2          = "Shader_001"

	OutBSDF     = "BSDF"
	OutColor    = "Color"
	OutAlpha    = "Alpha"
	OutR        = "R"
	OutG        = "G"
	OutB        = "B"
	OutEmission = "Emission"
	OutShader   = "Shader"
)

// Socket is a named node input or output. Float and Color hold the
// unlinked default value for inputs.
type Socket struct {
	Name  string
	Type  SocketType
	Float float64
	Color palette.Color
}

// Interpolation selects how an image texture is filtered.
type Interpolation string

// Interpolation modes.
const (
	InterpLinear  Interpolation = "Linear"
	InterpClosest Interpolation = "Closest"
)

func floatIn(name string, v float64) *Socket {
	return &Socket{Name: name, Type: SocketFloat, Float: v}
}

func colorIn(name string, c palette.Color) *Socket {
	return &Socket{Name: name, Type: SocketColor, Color: c}
}

func socket(name string, typ SocketType) *Socket {
	return &Socket{Name: name, Type: typ}
}

// sockets returns fresh input and output sockets for a kind, with the
// default values a newly created node carries.
func sockets(kind NodeKind) (in, out []*Socket) {
	switch kind {
	case KindPrincipledBSDF:
		in = []*Socket{
			colorIn(InBaseColor, palette.RGB(0.8, 0.8, 0.8)),
			floatIn(InMetallic, 0),
			floatIn(InRoughness, 0.5),
			colorIn(InEmission, palette.Black),
			floatIn(InEmissionStrength, 1),
			floatIn(InAlpha, 1),
		}
		out = []*Socket{socket(OutBSDF, SocketShader)}
	case KindMaterialOutput:
		in = []*Socket{
			socket(InSurface, SocketShader),
			socket(InVolume, SocketShader),
			socket(InDisplacement, SocketVector),
		}
	case KindTexImage:
		in = []*Socket{socket(InVector, SocketVector)}
		out = []*Socket{socket(OutColor, SocketColor), socket(OutAlpha, SocketFloat)}
	case KindSeparateRGB:
		in = []*Socket{colorIn(InImage, palette.RGB(0.8, 0.8, 0.8))}
		out = []*Socket{
			socket(OutR, SocketFloat),
			socket(OutG, SocketFloat),
			socket(OutB, SocketFloat),
		}
	case KindEmission:
		in = []*Socket{colorIn(InColor, palette.RGB(1, 1, 1)), floatIn(InStrength, 1)}
		out = []*Socket{socket(OutEmission, SocketShader)}
	case KindAddShader:
		in = []*Socket{socket(InShader, SocketShader), socket(InShader2, SocketShader)}
		out = []*Socket{socket(OutShader, SocketShader)}
	}
	return in, out
}
