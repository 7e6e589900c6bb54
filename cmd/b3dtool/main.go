// b3dtool is a CLI utility for inspecting B3D and MT mesh files.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Faultbox/meshkit/internal/logger"
	"github.com/Faultbox/meshkit/internal/pipeline"
	"github.com/Faultbox/meshkit/internal/scene"
	"github.com/Faultbox/meshkit/pkg/formats"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "check":
		cmdCheck(args)
	case "mt":
		cmdMT(args)
	case "encode":
		cmdEncode(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`b3dtool - B3D and MT mesh file utility

Usage:
  b3dtool <command> [options]

Commands:
  info <file.b3d>                    Show header, counts and bounds
  check [-unchecked] <file.b3d>...   Decode files and report failures
  mt <file.mt>                       Show an MT file's contents summary
  encode [-mesh N] <scene> <out.b3d> Write one scene mesh as B3D

Examples:
  b3dtool info terrain.b3d
  b3dtool check -v models/*.b3d
  b3dtool mt hill.obj.0.100.300.mt
  b3dtool encode -mesh 1 hill.obj hill.b3d`)
}

// initLogger sets up stderr logging for a subcommand.
func initLogger(verbose bool) {
	level := "warning"
	if verbose {
		level = "debug"
	}
	if err := logger.Init(level, ""); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Log import steps")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: b3dtool info <file.b3d>")
		os.Exit(1)
	}
	initLogger(*verbose)
	defer logger.Sync()

	path := fs.Arg(0)
	rec, err := pipeline.NewImporter(logger.Log, true).Import(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("File:      %s\n", path)
	fmt.Printf("Vertices:  %d\n", rec.VertexCount())
	fmt.Printf("Indices:   %d (%d triangles)\n", len(rec.Indices), rec.TriangleCount())
	fmt.Printf("Index hint: %s\n", rec.IndexWidth)
	fmt.Printf("Normals:   %v\n", rec.HasNormals)
	fmt.Printf("UVs:       %v\n", rec.HasUVs)
	fmt.Printf("Colours:   %v\n", rec.HasColours)
	printBounds(rec)

	if rec.HasColours && len(rec.Colours) > 0 {
		c := mesh.UnpackRGBA(rec.Colours[0])
		fmt.Printf("Colour[0]: r=%d g=%d b=%d a=%d\n", c[0], c[1], c[2], c[3])
	}
}

func printBounds(rec *mesh.Record) {
	if rec.VertexCount() == 0 {
		return
	}
	lo, hi := rec.Bounds()
	fmt.Printf("Bounds:    (%.4f, %.4f, %.4f) - (%.4f, %.4f, %.4f)\n",
		lo[0], lo[1], lo[2], hi[0], hi[1], hi[2])
}

func cmdCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	unchecked := fs.Bool("unchecked", false, "Do not validate index bounds")
	verbose := fs.Bool("v", false, "Log import steps")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: b3dtool check [-unchecked] <file.b3d>...")
		os.Exit(1)
	}
	initLogger(*verbose)
	defer logger.Sync()

	im := pipeline.NewImporter(logger.Log, !*unchecked)
	failed := 0
	for _, path := range fs.Args() {
		rec, err := im.Import(path)
		if err != nil {
			failed++
			fmt.Printf("FAIL  %s [%s]: %v\n", path, pipeline.B3DStage(err), err)
			continue
		}
		fmt.Printf("OK    %s (%d vertices, %d triangles)\n", path, rec.VertexCount(), rec.TriangleCount())
	}

	fmt.Printf("\n%d checked, %d failed\n", fs.NArg(), failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func cmdMT(args []string) {
	fs := flag.NewFlagSet("mt", flag.ExitOnError)
	n := fs.Int("n", 1, "Print materials of the first N vertices")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: b3dtool mt <file.mt>")
		os.Exit(1)
	}

	rec, name, err := formats.ParseMTFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Source:    %s (mesh %d)\n", name.Source, name.Mesh)
	fmt.Printf("Dev build: %v\n", name.Dev)
	fmt.Printf("Vertices:  %d\n", rec.VertexCount())
	fmt.Printf("Indices:   %d (%d triangles)\n", len(rec.Indices), rec.TriangleCount())
	printBounds(rec)

	if err := rec.CheckIndices(); err != nil {
		fmt.Printf("Warning:   %v\n", err)
	}

	for i := 0; i < *n && i < len(rec.Materials); i++ {
		m := rec.Materials[i]
		fmt.Printf("Material[%d]: ambient=%v diffuse=%v specular=%v shininess=%g\n",
			i, m.Ambient, m.Diffuse, m.Specular, m.Shininess)
	}
}

func cmdEncode(args []string) {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	meshIndex := fs.Int("mesh", 0, "Index of the scene mesh to encode")
	noNormals := fs.Bool("no-normals", false, "Omit the normal section")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: b3dtool encode [-mesh N] <scene> <out.b3d>")
		os.Exit(1)
	}

	s, err := scene.Load(fs.Arg(0), scene.DefaultOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *meshIndex < 0 || *meshIndex >= len(s.Meshes) {
		fmt.Fprintf(os.Stderr, "Error: mesh %d out of range, scene has %d\n", *meshIndex, len(s.Meshes))
		os.Exit(1)
	}

	rec, err := b3dRecord(&s.Meshes[*meshIndex], !*noNormals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	data, err := formats.EncodeB3D(rec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out := fs.Arg(1)
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s (%d vertices, %d triangles, %d bytes)\n",
		out, rec.VertexCount(), rec.TriangleCount(), len(data))
}

// b3dRecord flattens a triangulated scene mesh into a record. The index
// hint is the narrowest width that holds every index.
func b3dRecord(m *scene.Mesh, withNormals bool) (*mesh.Record, error) {
	rec := &mesh.Record{
		Positions:  m.Positions,
		Indices:    make([]uint32, 0, m.IndexCount()),
		IndexWidth: mesh.IndexWidth32,
	}
	for i, f := range m.Faces {
		if len(f) != 3 {
			return nil, fmt.Errorf("%w: face %d has %d indices", pipeline.ErrNonTriangularFace, i, len(f))
		}
		rec.Indices = append(rec.Indices, f...)
	}
	if withNormals && m.HasNormals() {
		rec.Normals = m.Normals
		rec.HasNormals = true
	}

	switch n := rec.VertexCount(); {
	case n <= 1<<8:
		rec.IndexWidth = mesh.IndexWidth8
	case n <= 1<<16:
		rec.IndexWidth = mesh.IndexWidth16
	}
	return rec, nil
}
