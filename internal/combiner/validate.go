package combiner

import (
	"fmt"

	"github.com/Faultbox/autopalette/pkg/scene"
	"github.com/Faultbox/autopalette/pkg/shadergraph"
)

// IssueLevel represents severity of validation issue.
type IssueLevel string

const (
	// IssueError marks a condition that makes Combine fail.
	IssueError IssueLevel = "error"
	// IssueWarning marks a condition Combine accepts but may not bake as expected.
	IssueWarning IssueLevel = "warning"
)

// Issue codes.
const (
	CodeNotMesh           = "not-mesh"
	CodeNoMaterials       = "no-materials"
	CodeEmptySlot         = "empty-slot"
	CodeMissingPrincipled = "missing-principled"
	CodeLinkedInput       = "linked-input"
	CodeAlreadyCombined   = "already-combined"
	CodeExtraPrincipled   = "extra-principled"
)

// Issue represents a validation issue.
type Issue struct {
	Level   IssueLevel `json:"level" yaml:"level"`                   // Severity level
	Code    string     `json:"code,omitempty" yaml:"code,omitempty"` // Machine-readable code
	Message string     `json:"message" yaml:"message"`               // Issue message
	Path    string     `json:"path,omitempty" yaml:"path,omitempty"` // Material or socket concerned
}

// String formats the issue for terminal output.
func (i Issue) String() string {
	if i.Path == "" {
		return fmt.Sprintf("%s: %s", i.Level, i.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", i.Level, i.Message, i.Path)
}

// bakedInputs are the principled inputs read by Collect.
var bakedInputs = []string{
	shadergraph.InBaseColor,
	shadergraph.InMetallic,
	shadergraph.InRoughness,
	shadergraph.InEmission,
}

// Validate checks obj against the preconditions of Combine without
// modifying anything.
func Validate(obj *scene.Object) []Issue {
	var out []Issue

	if obj.Type != scene.TypeMesh || obj.Mesh == nil {
		return append(out, Issue{
			Level:   IssueError,
			Code:    CodeNotMesh,
			Message: "can only operate on mesh objects",
			Path:    obj.Name,
		})
	}
	if len(obj.Slots) == 0 {
		return append(out, Issue{
			Level:   IssueError,
			Code:    CodeNoMaterials,
			Message: "no materials, nothing to bake",
			Path:    obj.Name,
		})
	}
	if alreadyCombined(obj) {
		out = append(out, Issue{
			Level:   IssueWarning,
			Code:    CodeAlreadyCombined,
			Message: "object already uses a generated palette material",
			Path:    obj.Slots[0].Name,
		})
	}

	for i, mat := range obj.Slots {
		if mat == nil {
			out = append(out, Issue{
				Level:   IssueError,
				Code:    CodeEmptySlot,
				Message: "material slot is empty",
				Path:    fmt.Sprintf("slot[%d]", i),
			})
			continue
		}
		bsdf, ok := mat.Principled()
		if !ok {
			out = append(out, Issue{
				Level:   IssueError,
				Code:    CodeMissingPrincipled,
				Message: "material has no Principled BSDF node",
				Path:    mat.Name,
			})
			continue
		}
		if n := len(mat.Tree.NodesOfKind(shadergraph.KindPrincipledBSDF)); n > 1 {
			out = append(out, Issue{
				Level:   IssueWarning,
				Code:    CodeExtraPrincipled,
				Message: fmt.Sprintf("material has %d principled nodes; only %q is read", n, bsdf.Name),
				Path:    mat.Name,
			})
		}
		for _, input := range bakedInputs {
			if l := mat.Tree.LinkTo(bsdf, input); l != nil {
				out = append(out, Issue{
					Level:   IssueWarning,
					Code:    CodeLinkedInput,
					Message: fmt.Sprintf("input is linked from %s; only its default value is baked", l.From.Name),
					Path:    mat.Name + "/" + input,
				})
			}
		}
	}
	return out
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Level == IssueError {
			return true
		}
	}
	return false
}
