// Command voxelmca converts a triangle mesh into a grid of Minecraft
// Anvil region files. Structured as a thin driver over the library
// packages, following rt_main.go's shape (parse flags, build the
// subsystems, run, report) minus the GLFW/OpenGL window setup this
// batch tool has no use for.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gekko3d/voxelmca/bvh"
	"github.com/gekko3d/voxelmca/config"
	"github.com/gekko3d/voxelmca/errs"
	"github.com/gekko3d/voxelmca/logx"
	"github.com/gekko3d/voxelmca/manifest"
	"github.com/gekko3d/voxelmca/mesh"
	"github.com/gekko3d/voxelmca/preview"
	"github.com/gekko3d/voxelmca/timer"
	"github.com/gekko3d/voxelmca/voxel"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		kind, _ := errs.KindOf(err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(kind.ExitCode())
	}
}

func run(args []string) error {
	cfg, err := config.Parse(args)
	if err != nil {
		return err
	}

	log := logx.New("voxelmca", cfg.Debug)
	prof := timer.NewProfiler()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return errs.IO(cfg.OutDir, err)
	}

	prof.Begin("load mesh")
	triangles, err := mesh.Load(cfg.MeshPath)
	prof.End("load mesh")
	if err != nil {
		return err
	}
	log.Infof("loaded %d triangles from %s", len(triangles), cfg.MeshPath)

	prof.Begin("build bvh")
	tree := bvh.Build(triangles, cfg.LeafMax, cfg.DepthMax)
	prof.End("build bvh")

	sched := &voxel.Scheduler{
		BVH: tree,
		Cfg: voxel.Config{
			Resolution:  cfg.Resolution,
			TileVoxelsX: cfg.TileVoxelsX,
			TileVoxelsZ: cfg.TileVoxelsZ,
			Height:      cfg.Height,
			Palette:     []string{"minecraft:air", "minecraft:stone"},
			OutDir:      cfg.OutDir,
			ClampHeight: cfg.ClampHeight,
		},
		Log:  log,
		Prof: prof,
	}

	results, err := sched.Run(ctx)
	if err != nil {
		prof.Flush(log)
		return err
	}

	if cfg.Preview {
		if err := writePreviews(cfg, sched, results); err != nil {
			return err
		}
	}

	if cfg.ManifestOut != "" {
		m := manifest.New(cfg.MeshPath, cfg.Resolution, cfg.TileVoxelsX, sched.Cfg.Height, cfg.TileVoxelsZ)
		for _, r := range results {
			m.AddTile(manifest.TileEntry{IX: r.IX, IZ: r.IZ, Path: r.Path, Occupied: r.Occupied})
		}
		if err := m.Write(cfg.ManifestOut); err != nil {
			return err
		}
	}

	prof.Flush(log)
	log.Infof("wrote %d region file(s) to %s", len(results), cfg.OutDir)
	return nil
}

// writePreviews renders one PNG slice per produced tile. This tool has
// no NBT reader to pull occupancy back out of a written region file, so
// the preview re-voxelizes just the requested Y layer from the BVH
// instead of reading the .mca back.
func writePreviews(cfg *config.Config, sched *voxel.Scheduler, results []voxel.TileResult) error {
	for _, r := range results {
		extent := voxel.Extent{X: sched.Cfg.TileVoxelsX, Y: sched.Cfg.Height, Z: sched.Cfg.TileVoxelsZ}
		if cfg.PreviewY < 0 || cfg.PreviewY >= extent.Y {
			continue
		}
		src := &layerSource{
			sched:  sched,
			ix:     r.IX,
			iz:     r.IZ,
			extent: extent,
			layer:  cfg.PreviewY,
		}
		path := filepath.Join(cfg.OutDir, fmt.Sprintf("r.%d.%d.preview.png", r.IX, r.IZ))
		if err := preview.Render(path, src, extent.X, extent.Z, cfg.PreviewY, r.IX, r.IZ); err != nil {
			return err
		}
	}
	return nil
}

// layerSource re-voxelizes just the requested Y layer on demand, since
// the scheduler discards each tile's full grid once its region file is
// written (there is no reason to hold megabytes of occupancy data in
// memory for tiles whose output already landed on disk).
type layerSource struct {
	sched  *voxel.Scheduler
	ix, iz int
	extent voxel.Extent
	layer  int

	grid []int32
}

func (s *layerSource) Occupied(x, z int) bool {
	layerExtent := voxel.Extent{X: s.extent.X, Y: 1, Z: s.extent.Z}
	if s.grid == nil {
		s.grid = make([]int32, layerExtent.Volume())
		root := s.sched.BVH.Nodes[bvh.Root].AABB
		tileWorldX := s.sched.Cfg.Resolution * float32(s.sched.Cfg.TileVoxelsX)
		tileWorldZ := s.sched.Cfg.Resolution * float32(s.sched.Cfg.TileVoxelsZ)
		tileMin := root.Min
		tileMin[0] += float32(s.ix) * tileWorldX
		tileMin[1] += float32(s.layer) * s.sched.Cfg.Resolution
		tileMin[2] += float32(s.iz) * tileWorldZ
		voxel.Voxelize(s.sched.BVH, tileMin, layerExtent, s.sched.Cfg.Resolution, s.grid)
	}
	return s.grid[layerExtent.Index(x, 0, z)] != 0
}
