// autopalette merges the materials of a glTF mesh into palette textures
// and a single shared material.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/autopalette/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "combine", "c":
		err = cmdCombine(args)
	case "inspect", "i":
		err = cmdInspect(args)
	case "check":
		err = cmdCheck(args)
	case "config":
		err = cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		logger.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`autopalette - combine mesh materials into palette textures

Usage:
  autopalette <command> [options] <file>

Commands:
  combine [options] <in.gltf|in.glb> [out]  Combine materials and write the result
  inspect [options] <file>                  Show slots, attributes and texel layout
  check [options] <file>                    Report problems that would stop combine
  config [options] [path]                   Write the effective config as YAML

Options:
  -config <file>     Config file (default ./autopalette.yaml or user config dir)
  -object <name>     Node to combine (default: first mesh node)
  -no-metallic       Exclude metallic values
  -no-roughness      Exclude roughness values
  -emission          Include emission values
  -skip-unchanged    Leave already combined objects untouched
  -binary            Write .glb output
  -embed             Embed images in .gltf output
  -out-dir <dir>     Output directory (default: next to the input)
  -format text|yaml  Report format for inspect and check
  -debug             Debug logging
  -log-file <file>   Also log to a rotating file

Examples:
  autopalette combine crate.glb
  autopalette combine -emission -binary crate.gltf crate_flat.glb
  autopalette inspect -format yaml crate.glb
  autopalette check -object Crate scene.gltf`)
}
