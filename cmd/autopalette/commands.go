package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/autopalette/internal/combiner"
	"github.com/Faultbox/autopalette/internal/config"
	"github.com/Faultbox/autopalette/internal/gltfio"
	"github.com/Faultbox/autopalette/internal/logger"
)

var errIssues = errors.New("object has blocking issues")

// setup parses flags, loads the config and starts logging.
func setup(args []string) (*config.Config, []string, error) {
	if err := config.ParseFlags(args); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}
	logger.Debug("config loaded",
		zap.String("level", cfg.Logging.Level),
		zap.Bool("metallic", cfg.Palette.IncludeMetallic),
		zap.Bool("roughness", cfg.Palette.IncludeRoughness),
		zap.Bool("emission", cfg.Palette.IncludeEmission),
		zap.Strings("texture_dirs", cfg.Palette.TextureDirs))
	return cfg, config.Args(), nil
}

// options maps the palette section of cfg onto combiner options.
func options(cfg *config.Config) combiner.Options {
	p := cfg.Palette
	return combiner.Options{
		IncludeMetallic:  p.IncludeMetallic,
		IncludeRoughness: p.IncludeRoughness,
		IncludeEmission:  p.IncludeEmission,
		SkipUnchanged:    p.SkipUnchanged,
		Names: combiner.Names{
			Material:   p.MaterialName,
			Color:      p.ColorImage,
			RoughMetal: p.RoughMetalImage,
			Emission:   p.EmissionImage,
		},
	}
}

// outputPath returns explicit if set, else <base>_palette with the output
// extension, in the output directory or next to the input.
func outputPath(cfg *config.Config, in, explicit string) string {
	if explicit != "" {
		if cfg.Output.Dir != "" && !filepath.IsAbs(explicit) && filepath.Dir(explicit) == "." {
			return filepath.Join(cfg.Output.Dir, explicit)
		}
		return explicit
	}

	ext := filepath.Ext(in)
	base := strings.TrimSuffix(filepath.Base(in), ext)
	outExt := ".gltf"
	if cfg.Output.Binary || strings.EqualFold(ext, ".glb") {
		outExt = ".glb"
	}

	dir := cfg.Output.Dir
	if dir == "" {
		dir = filepath.Dir(in)
	}
	return filepath.Join(dir, base+"_palette"+outExt)
}

func cmdCombine(args []string) error {
	cfg, rest, err := setup(args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if len(rest) < 1 {
		return fmt.Errorf("usage: autopalette combine [options] <in.gltf|in.glb> [out]")
	}
	in := rest[0]
	explicit := ""
	if len(rest) > 1 {
		explicit = rest[1]
	}
	out := outputPath(cfg, in, explicit)

	log := logger.Named("combine")
	asset, err := gltfio.Load(in, cfg.Palette.Object, log, cfg.Palette.TextureDirs...)
	if err != nil {
		return err
	}

	res, err := combiner.New(asset.Scene, log).Combine(asset.Object, options(cfg))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return err
	}
	export := gltfio.ExportOptions{Binary: cfg.Output.Binary, EmbedImages: cfg.Output.EmbedImages}
	if err := gltfio.Save(asset, out, export, log); err != nil {
		return err
	}

	switch {
	case res.Skipped:
		fmt.Printf("%s: already combined, written unchanged to %s\n", res.Object, out)
	default:
		fmt.Printf("%s: %d materials -> %dx%d palette (%s) in %s\n",
			res.Object, res.Slots, res.Side, res.Side, strings.Join(res.Images, ", "), res.Duration.Round(time.Microsecond))
		fmt.Printf("Written: %s\n", out)
	}
	logger.Info("palette written",
		zap.String("object", res.Object),
		zap.String("out", out),
		zap.String("hash", res.Hash),
		zap.Bool("skipped", res.Skipped))
	return nil
}

func cmdInspect(args []string) error {
	cfg, rest, err := setup(args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if len(rest) < 1 {
		return fmt.Errorf("usage: autopalette inspect [options] <file>")
	}

	asset, err := gltfio.Load(rest[0], cfg.Palette.Object, logger.Named("inspect"), cfg.Palette.TextureDirs...)
	if err != nil {
		return err
	}
	rep := buildReport(rest[0], asset.Object, options(cfg))
	return writeReport(os.Stdout, rep, cfg.Output.Format)
}

func cmdCheck(args []string) error {
	cfg, rest, err := setup(args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if len(rest) < 1 {
		return fmt.Errorf("usage: autopalette check [options] <file>")
	}

	asset, err := gltfio.Load(rest[0], cfg.Palette.Object, logger.Named("check"), cfg.Palette.TextureDirs...)
	if err != nil {
		return err
	}
	issues := combiner.Validate(asset.Object)
	if err := writeIssues(os.Stdout, asset.Object.Name, issues, cfg.Output.Format); err != nil {
		return err
	}
	for _, is := range issues {
		if is.Level == combiner.IssueWarning {
			logger.Warn(is.Message, zap.String("code", is.Code), zap.String("path", is.Path))
		}
	}
	if combiner.HasErrors(issues) {
		return errIssues
	}
	return nil
}

func cmdConfig(args []string) error {
	cfg, rest, err := setup(args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if len(rest) > 0 {
		if err := cfg.SaveTo(rest[0]); err != nil {
			return err
		}
		fmt.Printf("Written: %s\n", rest[0])
		return nil
	}
	if err := cfg.Save(); err != nil {
		return err
	}
	fmt.Printf("Written: %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	return nil
}
