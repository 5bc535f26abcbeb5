// Package config handles autopalette configuration loading and management.
package config

// Config holds all settings.
type Config struct {
	Palette PaletteConfig `yaml:"palette"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// PaletteConfig holds the combiner feature gates and generated names.
type PaletteConfig struct {
	IncludeMetallic  bool   `yaml:"include_metallic"`
	IncludeRoughness bool   `yaml:"include_roughness"`
	IncludeEmission  bool   `yaml:"include_emission"`
	SkipUnchanged    bool   `yaml:"skip_unchanged"`
	Object           string `yaml:"object"` // Node to combine; empty picks the first mesh node
	MaterialName     string `yaml:"material_name"`
	ColorImage       string `yaml:"color_image"`
	RoughMetalImage  string `yaml:"rough_metal_image"`
	EmissionImage    string `yaml:"emission_image"`

	// TextureDirs are searched for external images before the directory of
	// the input file.
	TextureDirs []string `yaml:"texture_dirs,omitempty"`
}

// OutputConfig holds where and how results are written.
type OutputConfig struct {
	Dir         string `yaml:"dir"`          // Output directory; empty writes next to the input
	Binary      bool   `yaml:"binary"`       // Write .glb instead of .gltf
	EmbedImages bool   `yaml:"embed_images"` // Embed palette PNGs in .gltf output
	Format      string `yaml:"format"`       // Report format for inspect/check: text or yaml
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Palette: PaletteConfig{
			IncludeMetallic:  true,
			IncludeRoughness: true,
			IncludeEmission:  false,
			SkipUnchanged:    false,
			MaterialName:     "Palette",
			ColorImage:       "color_palette",
			RoughMetalImage:  "rough_metal_palette",
			EmissionImage:    "emission_palette",
		},
		Output: OutputConfig{
			Format: "text",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
