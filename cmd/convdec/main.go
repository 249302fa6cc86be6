// convdec is a CLI host for the convex decomposition pipeline. It loads
// a scene from an OBJ file, runs a decomposition backend on one object,
// and writes the scene back with the collision hulls attached.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/meshforge/convdec/internal/config"
	"github.com/meshforge/convdec/internal/decomp"
	"github.com/meshforge/convdec/internal/logger"
	"github.com/meshforge/convdec/internal/scene"
)

var (
	flagOut  = flag.String("out", "", "Output scene file (default: overwrite input)")
	flagAxis = flag.String("axis", "z", "Slicing axis for the slice command (x, y or z)")
	flagCuts = flag.String("cuts", "", "Comma-separated plane offsets for the slice command")
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	// Global flags follow the command word.
	os.Args = append(os.Args[:1], os.Args[2:]...)
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := flag.Args()
	switch command {
	case "run":
		cmdRun(cfg, args)
	case "clear":
		cmdClear(cfg, args)
	case "slice":
		cmdSlice(args)
	case "info":
		cmdInfo(args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`convdec - convex decomposition of mesh objects into collision hulls

Usage:
  convdec <command> [options] <args>

Commands:
  run <scene.obj> <object>    Decompose one object into UCX_ hulls
  clear <scene.obj> <object>  Remove the hulls of an object
  slice <scene.obj> <object>  Cut an object into slabs (-axis, -cuts)
  info <scene.obj>            List objects, hulls and collections

Options:
  -config <file>          Config file (default: ./convdec.yaml)
  -solver <name>          Backend: VHACD or CoACD
  -vhacd-binary <path>    VHACD binary
  -coacd-binary <path>    CoACD binary
  -alpha <0-100>          Hull transparency in percent
  -out <file>             Output scene file (default: overwrite input)
  -debug                  Enable debug logging

Examples:
  convdec run -vhacd-binary ~/bin/TestVHACD scene.obj Barrel
  convdec run -solver CoACD -coacd-binary ~/bin/coacd scene.obj Rock
  convdec clear scene.obj Barrel
  convdec slice -axis z -cuts 0,0.5,1 scene.obj Barrel
  convdec info scene.obj`)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	logger.Sync()
	os.Exit(1)
}

func outputPath(inputPath string) string {
	if *flagOut != "" {
		return *flagOut
	}
	return inputPath
}

func cmdRun(cfg *config.Config, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: convdec run [options] <scene.obj> <object>")
		os.Exit(1)
	}
	scenePath, objectName := args[0], args[1]

	host, err := loadScene(scenePath)
	if err != nil {
		fatal(err)
	}
	src := host.Lookup(objectName)
	if src == nil {
		fatal(fmt.Errorf("no object named %q in %s", objectName, scenePath))
	}
	host.SetSelection([]*scene.Object{src})
	host.SetActiveObject(src)

	orch := decomp.New(host, cfg)
	hulls, err := orch.Run()
	if err != nil {
		fatal(err)
	}

	if err := saveScene(host, outputPath(scenePath)); err != nil {
		fatal(err)
	}
	fmt.Printf("%s: %d hulls -> %s\n", objectName, len(hulls), outputPath(scenePath))
	for _, hull := range hulls {
		fmt.Printf("  %s\n", hull.Name)
	}
}

func cmdClear(cfg *config.Config, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: convdec clear [options] <scene.obj> <object>")
		os.Exit(1)
	}
	scenePath, objectName := args[0], args[1]

	host, err := loadScene(scenePath)
	if err != nil {
		fatal(err)
	}
	src := host.Lookup(objectName)
	if src == nil {
		fatal(fmt.Errorf("no object named %q in %s", objectName, scenePath))
	}
	host.SetSelection([]*scene.Object{src})

	removed := decomp.RemoveStaleHulls(host, src.Name)
	if err := saveScene(host, outputPath(scenePath)); err != nil {
		fatal(err)
	}
	fmt.Printf("%s: removed %d hulls\n", objectName, len(removed))
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: convdec info <scene.obj>")
		os.Exit(1)
	}

	host, err := loadScene(args[0])
	if err != nil {
		fatal(err)
	}

	objects := host.Objects()
	fmt.Printf("%s: %d objects\n", args[0], len(objects))
	for _, o := range objects {
		hulls := 0
		for _, child := range host.Children(o) {
			if strings.HasPrefix(child.Name, decomp.HullPrefix(o.Name)) {
				hulls++
			}
		}
		fmt.Printf("  %-30s %6d verts %6d faces", o.Name, len(o.Mesh.Vertices), len(o.Mesh.Faces))
		if hulls > 0 {
			fmt.Printf("  (%d hulls)", hulls)
		}
		fmt.Println()
	}
	fmt.Printf("collections: %v\n", host.Collections())
}
