// Package geom holds the geometry primitives the voxelization pipeline
// shares: vertices, triangles, and axis-aligned bounding boxes built on
// mgl32.Vec3, the same vector type the engine's BVH builder uses.
package geom

import "github.com/go-gl/mathgl/mgl32"

// Vertex is a mesh position. Color/UV are rendering concerns that never
// enter the voxelization core.
type Vertex struct {
	Position mgl32.Vec3
}

// Triangle holds three positions directly (not indices) so that a BVH's
// materialized triangle array can be permuted independently of the
// source mesh's vertex/index buffers.
type Triangle struct {
	V [3]mgl32.Vec3
}

// Axis cycles X -> Y -> Z -> X as the BVH builder partitions.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
	axisCount
)

func (a Axis) Next() Axis {
	return (a + 1) % axisCount
}

func (a Axis) Component(v mgl32.Vec3) float32 {
	switch a {
	case AxisX:
		return v.X()
	case AxisY:
		return v.Y()
	case AxisZ:
		return v.Z()
	default:
		return v.X()
	}
}

// AABB is an axis-aligned bounding box. Invariant: Min <= Max
// componentwise. Degenerate (zero-thickness) boxes are legal.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Center returns (Min+Max)/2.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Union returns the smallest AABB containing both b and o.
func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: componentMin(b.Min, o.Min),
		Max: componentMax(b.Max, o.Max),
	}
}

// Overlaps reports whether b and o share any volume (touching counts).
func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X() <= o.Max.X() && b.Max.X() >= o.Min.X() &&
		b.Min.Y() <= o.Max.Y() && b.Max.Y() >= o.Min.Y() &&
		b.Min.Z() <= o.Max.Z() && b.Max.Z() >= o.Min.Z()
}

func componentMin(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{min32(a.X(), b.X()), min32(a.Y(), b.Y()), min32(a.Z(), b.Z())}
}

func componentMax(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{max32(a.X(), b.X()), max32(a.Y(), b.Y()), max32(a.Z(), b.Z())}
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// TriangleAABB computes a triangle's bounding box. A degenerate
// (zero-area) triangle yields a point or segment AABB, which is legal.
func TriangleAABB(t Triangle) AABB {
	aabb := AABB{Min: t.V[0], Max: t.V[0]}
	for i := 1; i < 3; i++ {
		aabb.Min = componentMin(aabb.Min, t.V[i])
		aabb.Max = componentMax(aabb.Max, t.V[i])
	}
	return aabb
}
