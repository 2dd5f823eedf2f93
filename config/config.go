// Package config parses the command line into a run configuration,
// using the standard library's flag package the way rt_main.go does
// (a handful of flat flags, no subcommands) rather than introducing a
// CLI framework: nothing else in this codebase's dependency pack uses
// one either (cobra only ever appears as an unused transitive tool
// dependency elsewhere in the retrieved examples, never imported by
// authored code).
package config

import (
	"flag"

	"github.com/gekko3d/voxelmca/errs"
)

// Config is every CLI-controllable setting for one conversion run.
type Config struct {
	MeshPath    string
	OutDir      string
	Resolution  float32
	TileVoxelsX int
	TileVoxelsZ int
	Height      int
	LeafMax     int
	DepthMax    int
	Debug       bool
	ClampHeight bool // -yes
	Preview     bool
	PreviewY    int
	ManifestOut string
}

// Parse parses args (excluding the program name) into a Config, using
// the default declared on each flag below. Settings come from flags
// only: positional arguments are not read, and -mesh has no default.
func Parse(args []string) (*Config, error) {
	fs := flag.NewFlagSet("voxelmca", flag.ContinueOnError)

	cfg := &Config{}
	fs.StringVar(&cfg.MeshPath, "mesh", "", "path to the input OBJ mesh (required)")
	fs.StringVar(&cfg.OutDir, "out", ".", "output directory for region files")
	var resolution float64
	fs.Float64Var(&resolution, "resolution", 1.0, "world units per voxel")
	fs.IntVar(&cfg.TileVoxelsX, "tile-x", 512, "tile extent in voxels, X (multiple of 16)")
	fs.IntVar(&cfg.TileVoxelsZ, "tile-z", 512, "tile extent in voxels, Z (multiple of 16)")
	fs.IntVar(&cfg.Height, "height", 256, "tile extent in voxels, Y (multiple of 16, <= 256)")
	fs.IntVar(&cfg.LeafMax, "bvh-leaf-max", 8, "max triangles per BVH leaf")
	fs.IntVar(&cfg.DepthMax, "bvh-depth-max", 32, "max BVH recursion depth")
	fs.BoolVar(&cfg.Debug, "debug", false, "enable debug logging")
	fs.BoolVar(&cfg.ClampHeight, "yes", false, "clamp an over-tall request instead of aborting")
	fs.BoolVar(&cfg.Preview, "preview", false, "write a PNG slice preview alongside each region")
	fs.IntVar(&cfg.PreviewY, "preview-y", 0, "voxel Y layer to render when -preview is set")
	fs.StringVar(&cfg.ManifestOut, "manifest", "", "path to write a JSON run manifest (disabled if empty)")

	if err := fs.Parse(args); err != nil {
		return nil, errs.Input(err)
	}
	cfg.Resolution = float32(resolution)

	if cfg.MeshPath == "" {
		return nil, errs.Input(errMissingMesh{})
	}
	return cfg, nil
}

type errMissingMesh struct{}

func (errMissingMesh) Error() string { return "-mesh is required" }
