package voxel

import (
	"context"
	"fmt"
	"math"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/voxelmca/anvil"
	"github.com/gekko3d/voxelmca/bvh"
	"github.com/gekko3d/voxelmca/errs"
	"github.com/gekko3d/voxelmca/geom"
	"github.com/gekko3d/voxelmca/timer"
)

// MaxHeight caps a mesh's Y extent in voxels (see checkMeshHeight). A
// region of this height holds 16 chunk sections, section Y -4..11
// (world Y -64..191). Config.Height itself is lowered to MaxHeight only
// on the clamp path; a larger Config.Height on a mesh within the cap is
// written as configured.
const MaxHeight = 256

// Logger is the minimal sink the scheduler reports diagnostics through;
// logx.Logger satisfies it structurally.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

// Config collects everything the scheduler needs to turn a BVH into a
// set of region files.
type Config struct {
	Resolution  float32 // world units per voxel
	TileVoxelsX int     // voxels per tile, X (must be a multiple of 16)
	TileVoxelsZ int     // voxels per tile, Z (must be a multiple of 16)
	Height      int     // voxels per tile, Y (must be a positive multiple of 16)
	Palette     []string
	OutDir      string
	// ClampHeight decides what happens when the mesh's Y extent exceeds
	// MaxHeight voxels: when true, the run logs a warning, lowers Height
	// to MaxHeight if it is larger, and goes on; when false, it fails
	// with a ResourceError. Set only from the CLI's -yes flag; there is
	// no interactive prompt.
	ClampHeight bool
}

// TileResult records one produced region's outcome, for the run
// manifest.
type TileResult struct {
	IX, IZ   int
	Path     string
	Occupied int
}

// Scheduler enumerates tiles across a mesh's bounding box in row-major
// order and drives the voxel kernel and the region writer for each,
// checking for cancellation only between tiles (never mid-tile), per
// the cooperative-cancellation model the concurrency design calls for.
type Scheduler struct {
	BVH    *bvh.BVH
	Cfg    Config
	Log    Logger
	Prof   *timer.Profiler
}

// Run voxelizes every tile overlapping the BVH's bounding box and
// writes one region file per tile, returning the results in row-major
// (ix fastest, then iz) order. An empty BVH (no triangles) produces no
// tiles and no files.
func (s *Scheduler) Run(ctx context.Context) ([]TileResult, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	if len(s.BVH.Triangles) == 0 {
		return nil, nil
	}

	root := s.BVH.Nodes[bvh.Root].AABB
	if err := s.checkMeshHeight(root); err != nil {
		return nil, err
	}

	extent := Extent{X: s.Cfg.TileVoxelsX, Y: s.Cfg.Height, Z: s.Cfg.TileVoxelsZ}
	tileWorldX := s.Cfg.Resolution * float32(s.Cfg.TileVoxelsX)
	tileWorldZ := s.Cfg.Resolution * float32(s.Cfg.TileVoxelsZ)

	nx := tileCount(root.Max.X()-root.Min.X(), tileWorldX)
	nz := tileCount(root.Max.Z()-root.Min.Z(), tileWorldZ)

	var results []TileResult
	for iz := 0; iz < nz; iz++ {
		for ix := 0; ix < nx; ix++ {
			select {
			case <-ctx.Done():
				return results, errs.Internal(ctx.Err())
			default:
			}

			tileMin := mgl32.Vec3{
				root.Min.X() + float32(ix)*tileWorldX,
				root.Min.Y(),
				root.Min.Z() + float32(iz)*tileWorldZ,
			}

			voxelizePhase := fmt.Sprintf("tile(%d,%d) voxelize", ix, iz)
			s.Prof.Begin(voxelizePhase)
			grid := make([]int32, extent.Volume())
			Voxelize(s.BVH, tileMin, extent, s.Cfg.Resolution, grid)
			s.Prof.End(voxelizePhase)

			occupied := 0
			for _, v := range grid {
				if v != 0 {
					occupied++
				}
			}

			path := filepath.Join(s.Cfg.OutDir, fmt.Sprintf("r.%d.%d.mca", ix, iz))
			src := &gridSource{grid: grid, extent: extent}

			writePhase := fmt.Sprintf("tile(%d,%d) write", ix, iz)
			s.Prof.Begin(writePhase)
			err := anvil.WriteRegion(path, int32(ix), int32(iz), s.Cfg.Height, src, s.Cfg.Palette, anvil.Options{})
			s.Prof.End(writePhase)
			if err != nil {
				return results, err
			}

			results = append(results, TileResult{IX: ix, IZ: iz, Path: path, Occupied: occupied})

			if s.Log != nil {
				s.Log.Infof("[TILE] (%d,%d): %d/%d voxels occupied -> %s", ix, iz, occupied, extent.Volume(), path)
			}
		}
	}
	return results, nil
}

func (s *Scheduler) validate() error {
	if s.Cfg.TileVoxelsX <= 0 || s.Cfg.TileVoxelsX%16 != 0 {
		return errs.Input(fmt.Errorf("tile X extent %d must be a positive multiple of 16", s.Cfg.TileVoxelsX))
	}
	if s.Cfg.TileVoxelsZ <= 0 || s.Cfg.TileVoxelsZ%16 != 0 {
		return errs.Input(fmt.Errorf("tile Z extent %d must be a positive multiple of 16", s.Cfg.TileVoxelsZ))
	}
	if s.Cfg.Height <= 0 || s.Cfg.Height%16 != 0 {
		return errs.Input(fmt.Errorf("height %d must be a positive multiple of 16", s.Cfg.Height))
	}
	if len(s.Cfg.Palette) == 0 {
		return errs.Input(fmt.Errorf("palette must name at least the air block"))
	}
	if s.Cfg.Resolution <= 0 {
		return errs.Input(fmt.Errorf("resolution must be positive"))
	}
	return nil
}

// checkMeshHeight enforces MaxHeight against the mesh's own Y extent in
// voxels, not against the configured tile height: a mesh taller than
// MaxHeight voxels cannot be represented by this writer at all (it
// never tiles vertically), so letting a merely-small-enough Config.Height
// pass validation while the mesh itself overflowed the format's limit
// would silently truncate the mesh's top off with no diagnostic.
func (s *Scheduler) checkMeshHeight(root geom.AABB) error {
	meshYVoxels := int(math.Ceil(float64((root.Max.Y() - root.Min.Y()) / s.Cfg.Resolution)))
	if meshYVoxels <= MaxHeight {
		return nil
	}
	if !s.Cfg.ClampHeight {
		return errs.Resource(fmt.Errorf("mesh Y extent is %d voxels, exceeds maximum %d", meshYVoxels, MaxHeight))
	}
	if s.Cfg.Height > MaxHeight {
		s.Cfg.Height = MaxHeight
	}
	if s.Log != nil {
		s.Log.Warnf("mesh Y extent %d voxels exceeds maximum %d; truncating to the bottom %d voxels", meshYVoxels, MaxHeight, s.Cfg.Height)
	}
	return nil
}

// tileCount is spec's N = 1 + floor(extent / tileWorldSize), guarding
// against a zero-size mesh extent (a single point or degenerate mesh
// still gets exactly one tile).
func tileCount(meshExtent, tileWorldSize float32) int {
	if meshExtent <= 0 {
		return 1
	}
	return 1 + int(math.Floor(float64(meshExtent/tileWorldSize)))
}

// gridSource adapts a flat occupancy grid (one tile's worth of voxels,
// local coordinates starting at 0) to anvil.BlockSource.
type gridSource struct {
	grid   []int32
	extent Extent
}

func (g *gridSource) Block(x, y, z int) byte {
	if x < 0 || y < 0 || z < 0 || x >= g.extent.X || y >= g.extent.Y || z >= g.extent.Z {
		return 0
	}
	if g.grid[g.extent.Index(x, y, z)] != 0 {
		return 1
	}
	return 0
}
