package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/meshforge/convdec/internal/scene"
	"github.com/meshforge/convdec/pkg/geom"
	"github.com/meshforge/convdec/pkg/obj"
)

// loadScene reads an OBJ file into a fresh scene, one object per
// segment, with an empty selection.
func loadScene(path string) (*scene.Scene, error) {
	host := scene.New()
	if _, err := host.ImportFile(path); err != nil {
		return nil, err
	}
	host.DeselectAll()
	host.SetActiveObject(nil)
	return host, nil
}

// saveScene writes every object back to one OBJ file in world space.
// Hulls keep their world position, so the file round-trips through any
// OBJ-aware tool without losing the parenting result.
func saveScene(host *scene.Scene, path string) error {
	objects := host.Objects()
	meshes := make([]obj.Mesh, 0, len(objects))
	for _, o := range objects {
		meshes = append(meshes, o.WorldMesh())
	}
	doc, err := obj.BuildDocument(meshes)
	if err != nil {
		return err
	}
	return doc.WriteFile(path)
}

func cmdSlice(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: convdec slice -cuts <o1,o2,...> [options] <scene.obj> <object>")
		os.Exit(1)
	}
	scenePath, objectName := args[0], args[1]

	axis, err := parseAxis(*flagAxis)
	if err != nil {
		fatal(err)
	}
	cuts, err := parseCuts(*flagCuts)
	if err != nil {
		fatal(err)
	}

	host, err := loadScene(scenePath)
	if err != nil {
		fatal(err)
	}
	src := host.Lookup(objectName)
	if src == nil {
		fatal(fmt.Errorf("no object named %q in %s", objectName, scenePath))
	}

	// Slice in world space so the slabs line up with the cut planes
	// the user asked for.
	slabs, err := geom.Slice(src.WorldMesh(), axis, cuts)
	if err != nil {
		fatal(err)
	}
	for _, slab := range slabs {
		o := scene.NewObject(slab.Name, slab)
		host.Add(o)
		host.ReparentKeepTransform(o, src)
	}

	if err := saveScene(host, outputPath(scenePath)); err != nil {
		fatal(err)
	}
	fmt.Printf("%s: %d slices along %s -> %s\n", objectName, len(slabs), axis, outputPath(scenePath))
}

func parseAxis(s string) (geom.Axis, error) {
	switch strings.ToLower(s) {
	case "x":
		return geom.AxisX, nil
	case "y":
		return geom.AxisY, nil
	case "z":
		return geom.AxisZ, nil
	}
	return 0, fmt.Errorf("unknown axis %q, want x, y or z", s)
}

func parseCuts(s string) ([]float64, error) {
	if s == "" {
		return nil, fmt.Errorf("the slice command needs -cuts with at least two offsets")
	}
	parts := strings.Split(s, ",")
	cuts := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid cut offset %q", part)
		}
		cuts = append(cuts, v)
	}
	return cuts, nil
}
