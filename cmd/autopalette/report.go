package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/autopalette/internal/combiner"
	"github.com/Faultbox/autopalette/pkg/palette"
	"github.com/Faultbox/autopalette/pkg/scene"
)

// report describes what combine would produce for an object.
type report struct {
	File   string           `yaml:"file"`
	Object string           `yaml:"object"`
	Faces  int              `yaml:"faces"`
	UVs    bool             `yaml:"uvs"`
	Side   int              `yaml:"side,omitempty"`
	Hash   string           `yaml:"hash,omitempty"`
	Slots  []slotReport     `yaml:"slots"`
	Issues []combiner.Issue `yaml:"issues,omitempty"`
}

type slotReport struct {
	Index      int                          `yaml:"index"`
	Material   string                       `yaml:"material"`
	Faces      int                          `yaml:"faces"`
	Texel      [2]int                       `yaml:"texel"`
	Attributes *combiner.MaterialAttributes `yaml:"attributes,omitempty"`
}

func buildReport(file string, obj *scene.Object, opts combiner.Options) *report {
	rep := &report{
		File:   file,
		Object: obj.Name,
		Issues: combiner.Validate(obj),
	}
	if obj.Mesh != nil {
		rep.Faces = len(obj.Mesh.Faces)
		rep.UVs = obj.Mesh.HasUVs()
	}

	side, err := palette.Side(len(obj.Slots))
	if err == nil {
		rep.Side = side
	}
	attrs, err := combiner.Collect(obj, opts)
	if err == nil {
		rep.Hash = combiner.Hash(attrs, opts)
	}

	for i, m := range obj.Slots {
		s := slotReport{Index: i}
		if m != nil {
			s.Material = m.Name
		}
		if obj.Mesh != nil {
			s.Faces = len(obj.Mesh.FacesWithMaterial(i))
		}
		if rep.Side > 0 {
			s.Texel[0], s.Texel[1] = palette.Texel(i, rep.Side)
		}
		if i < len(attrs) {
			a := attrs[i]
			s.Attributes = &a
		}
		rep.Slots = append(rep.Slots, s)
	}
	return rep
}

func writeReport(w io.Writer, rep *report, format string) error {
	if format == "yaml" {
		return writeYAML(w, rep)
	}

	fmt.Fprintf(w, "File:    %s\n", rep.File)
	fmt.Fprintf(w, "Object:  %s\n", rep.Object)
	fmt.Fprintf(w, "Faces:   %d\n", rep.Faces)
	fmt.Fprintf(w, "UVs:     %v\n", rep.UVs)
	if rep.Side > 0 {
		fmt.Fprintf(w, "Palette: %dx%d\n", rep.Side, rep.Side)
	}
	if rep.Hash != "" {
		fmt.Fprintf(w, "Hash:    %s\n", rep.Hash)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLOT\tMATERIAL\tFACES\tTEXEL\tBASE COLOR\tMETAL\tROUGH\tEMISSION")
	for _, s := range rep.Slots {
		if s.Attributes == nil {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%d,%d\t-\t-\t-\t-\n", s.Index, s.Material, s.Faces, s.Texel[0], s.Texel[1])
			continue
		}
		a := s.Attributes
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d,%d\t%s\t%.3f\t%.3f\t%s\n",
			s.Index, s.Material, s.Faces, s.Texel[0], s.Texel[1],
			formatRGB(a.BaseColor), a.Metallic, a.Roughness, formatRGB(a.Emission))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(rep.Issues) > 0 {
		fmt.Fprintln(w)
		for _, is := range rep.Issues {
			fmt.Fprintf(w, "  %s\n", is)
		}
	}
	return nil
}

func writeIssues(w io.Writer, object string, issues []combiner.Issue, format string) error {
	if format == "yaml" {
		return writeYAML(w, struct {
			Object string           `yaml:"object"`
			Issues []combiner.Issue `yaml:"issues"`
		}{object, issues})
	}

	if len(issues) == 0 {
		fmt.Fprintf(w, "%s: OK\n", object)
		return nil
	}
	fmt.Fprintf(w, "%s: %d issue(s)\n", object, len(issues))
	for _, is := range issues {
		fmt.Fprintf(w, "  %s\n", is)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func formatRGB(c palette.Color) string {
	return fmt.Sprintf("%.3f %.3f %.3f", c.R, c.G, c.B)
}
