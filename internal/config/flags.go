package config

import "flag"

var (
	flagConfig        = flag.String("config", "", "Path to config file")
	flagDebug         = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile       = flag.String("log-file", "", "Also write logs to this file")
	flagObject        = flag.String("object", "", "Name of the node to combine")
	flagNoMetallic    = flag.Bool("no-metallic", false, "Exclude metallic values")
	flagNoRoughness   = flag.Bool("no-roughness", false, "Exclude roughness values")
	flagEmission      = flag.Bool("emission", false, "Include emission values (creates an emission texture)")
	flagSkipUnchanged = flag.Bool("skip-unchanged", false, "Skip objects already combined with identical inputs")
	flagBinary        = flag.Bool("binary", false, "Write binary .glb output")
	flagEmbed         = flag.Bool("embed", false, "Embed palette images in .gltf output")
	flagOutDir        = flag.String("out-dir", "", "Output directory")
	flagFormat        = flag.String("format", "", "Report format: text or yaml")
)

// ParseFlags parses command-line flags from args, typically the arguments
// after the subcommand name.
func ParseFlags(args []string) error {
	return flag.CommandLine.Parse(args)
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagObject != "" {
		cfg.Palette.Object = *flagObject
	}
	if *flagNoMetallic {
		cfg.Palette.IncludeMetallic = false
	}
	if *flagNoRoughness {
		cfg.Palette.IncludeRoughness = false
	}
	if *flagEmission {
		cfg.Palette.IncludeEmission = true
	}
	if *flagSkipUnchanged {
		cfg.Palette.SkipUnchanged = true
	}
	if *flagBinary {
		cfg.Output.Binary = true
	}
	if *flagEmbed {
		cfg.Output.EmbedImages = true
	}
	if *flagOutDir != "" {
		cfg.Output.Dir = *flagOutDir
	}
	if *flagFormat != "" {
		cfg.Output.Format = *flagFormat
	}
}
