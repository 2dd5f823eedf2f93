// Package voxel implements the per-tile voxelization kernel (C4) and
// the tile scheduler that streams it across a mesh's bounding box (C5).
package voxel

import (
	"runtime"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/voxelmca/bvh"
	"github.com/gekko3d/voxelmca/geom"
)

// Extent is a tile's size in voxels along each axis.
type Extent struct {
	X, Y, Z int
}

func (e Extent) Volume() int { return e.X * e.Y * e.Z }

// Index converts 3-D cell coordinates to the linear index used by the
// occupancy grid, per spec's i = x + y*Wx + z*Wx*Wy layout.
func (e Extent) Index(x, y, z int) int {
	return x + y*e.X + z*e.X*e.Y
}

// maxWorkers bounds the kernel's data-parallel fan-out the same way the
// engine's particle worker pool bounds itself (particles_ecs.go):
// GOMAXPROCS, capped at 8, never more than there is work to do.
func maxWorkers(jobCount int) int {
	n := runtime.GOMAXPROCS(0)
	if n > 8 {
		n = 8
	}
	if n > jobCount {
		n = jobCount
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Voxelize fills grid (length must be extent.Volume()) for the tile that
// starts at tileMin and spans extent cells of side resolution: 1 for
// every cell whose AABB overlaps a triangle reachable from b, 0 for
// every other cell. It parallelizes over a 1-D range of
// linear cell indices; each worker only ever writes indices in its own
// contiguous slice of grid, so no synchronization is needed between
// workers (spec §4.2 concurrency model).
func Voxelize(b *bvh.BVH, tileMin mgl32.Vec3, extent Extent, resolution float32, grid []int32) {
	total := extent.Volume()
	if total == 0 {
		return
	}
	if len(grid) != total {
		panic("voxel: grid length does not match extent volume")
	}

	workers := maxWorkers(total)
	chunk := (total + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= total {
			break
		}
		if end > total {
			end = total
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			voxelizeRange(b, tileMin, extent, resolution, grid, start, end)
		}(start, end)
	}
	wg.Wait()
}

func voxelizeRange(b *bvh.BVH, tileMin mgl32.Vec3, extent Extent, resolution float32, grid []int32, start, end int) {
	half := resolution * 0.5
	for linear := start; linear < end; linear++ {
		x := linear % extent.X
		y := (linear / extent.X) % extent.Y
		z := linear / (extent.X * extent.Y)

		center := mgl32.Vec3{
			tileMin.X() + (float32(x)+0.5)*resolution,
			tileMin.Y() + (float32(y)+0.5)*resolution,
			tileMin.Z() + (float32(z)+0.5)*resolution,
		}
		cell := geom.AABB{
			Min: mgl32.Vec3{center.X() - half, center.Y() - half, center.Z() - half},
			Max: mgl32.Vec3{center.X() + half, center.Y() + half, center.Z() + half},
		}

		occupied := false
		b.Overlapping(cell, func(triIdx int) {
			if occupied {
				return
			}
			if triangleIntersectsAABB(b.Triangles[triIdx], cell) {
				occupied = true
			}
		})
		if occupied {
			grid[linear] = 1
		} else {
			grid[linear] = 0
		}
	}
}

// triangleIntersectsAABB is the standard 13-axis separating-axis test
// (Akenine-Möller) for a triangle against an axis-aligned box: the 3
// box face normals, the triangle's own normal, and the 9 cross products
// of box edges with triangle edges. The original source delegates this
// exact test to an external compute shader not captured in this repo,
// so there is nothing to port here; this is a from-scratch, standard
// implementation against the box/triangle types already in geom.
func triangleIntersectsAABB(t geom.Triangle, box geom.AABB) bool {
	center := box.Center()
	extents := box.Max.Sub(center)

	v0 := t.V[0].Sub(center)
	v1 := t.V[1].Sub(center)
	v2 := t.V[2].Sub(center)

	e0 := v1.Sub(v0)
	e1 := v2.Sub(v1)
	e2 := v0.Sub(v2)

	axes := [3]mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	edges := [3]mgl32.Vec3{e0, e1, e2}

	for _, edge := range edges {
		for _, axis := range axes {
			a := axis.Cross(edge)
			if a.LenSqr() < 1e-12 {
				continue
			}
			if !axisOverlap(a, v0, v1, v2, extents) {
				return false
			}
		}
	}

	// Box face normals: an AABB-vs-AABB overlap test on the triangle's
	// own bounding box suffices here.
	triMin := componentMin3(v0, v1, v2)
	triMax := componentMax3(v0, v1, v2)
	if triMin.X() > extents.X() || triMax.X() < -extents.X() {
		return false
	}
	if triMin.Y() > extents.Y() || triMax.Y() < -extents.Y() {
		return false
	}
	if triMin.Z() > extents.Z() || triMax.Z() < -extents.Z() {
		return false
	}

	// Triangle face normal.
	normal := e0.Cross(e1)
	if normal.LenSqr() < 1e-12 {
		// Degenerate triangle: already covered by the box-overlap check
		// above (a point or segment), so treat as intersecting.
		return true
	}
	return planeOverlapsBox(normal, v0, extents)
}

func axisOverlap(axis mgl32.Vec3, v0, v1, v2, extents mgl32.Vec3) bool {
	p0 := v0.Dot(axis)
	p1 := v1.Dot(axis)
	p2 := v2.Dot(axis)
	triMin, triMax := p0, p0
	if p1 < triMin {
		triMin = p1
	}
	if p1 > triMax {
		triMax = p1
	}
	if p2 < triMin {
		triMin = p2
	}
	if p2 > triMax {
		triMax = p2
	}

	r := extents.X()*abs32(axis.X()) + extents.Y()*abs32(axis.Y()) + extents.Z()*abs32(axis.Z())
	return !(triMin > r || triMax < -r)
}

func planeOverlapsBox(normal, point, extents mgl32.Vec3) bool {
	r := extents.X()*abs32(normal.X()) + extents.Y()*abs32(normal.Y()) + extents.Z()*abs32(normal.Z())
	d := normal.Dot(point)
	return abs32(d) <= r
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func componentMin3(a, b, c mgl32.Vec3) mgl32.Vec3 {
	m := a
	if b.X() < m.X() {
		m[0] = b.X()
	}
	if c.X() < m.X() {
		m[0] = c.X()
	}
	if b.Y() < m.Y() {
		m[1] = b.Y()
	}
	if c.Y() < m.Y() {
		m[1] = c.Y()
	}
	if b.Z() < m.Z() {
		m[2] = b.Z()
	}
	if c.Z() < m.Z() {
		m[2] = c.Z()
	}
	return m
}

func componentMax3(a, b, c mgl32.Vec3) mgl32.Vec3 {
	m := a
	if b.X() > m.X() {
		m[0] = b.X()
	}
	if c.X() > m.X() {
		m[0] = c.X()
	}
	if b.Y() > m.Y() {
		m[1] = b.Y()
	}
	if c.Y() > m.Y() {
		m[1] = c.Y()
	}
	if b.Z() > m.Z() {
		m[2] = b.Z()
	}
	if c.Z() > m.Z() {
		m[2] = c.Z()
	}
	return m
}
