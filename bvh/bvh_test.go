package bvh

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/voxelmca/geom"
)

func triAt(x float32) geom.Triangle {
	return geom.Triangle{V: [3]mgl32.Vec3{
		{x, 0, 0}, {x + 1, 0, 0}, {x, 1, 0},
	}}
}

func TestBuild_EmptyMeshYieldsSingleEmptyLeaf(t *testing.T) {
	b := Build(nil, 4, 32)
	require.Len(t, b.Nodes, 1)
	assert.True(t, b.Nodes[Root].IsLeaf())
	assert.EqualValues(t, 0, b.Nodes[Root].Count)
}

func TestBuild_SingleTriangleIsOneLeaf(t *testing.T) {
	tris := []geom.Triangle{triAt(0)}
	b := Build(tris, 4, 32)
	require.Len(t, b.Nodes, 1)
	assert.True(t, b.Nodes[Root].IsLeaf())
	assert.EqualValues(t, 1, b.Nodes[Root].Count)
}

func TestBuild_EveryTriangleInExactlyOneLeaf(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tris := make([]geom.Triangle, 2000)
	for i := range tris {
		x := rng.Float32()*200 - 100
		tris[i] = triAt(x)
	}

	b := Build(tris, 4, 32)

	seen := make([]int, len(tris))
	var walk func(idx uint32, depth int)
	maxDepth := 0
	walk = func(idx uint32, depth int) {
		if depth > maxDepth {
			maxDepth = depth
		}
		node := b.Nodes[idx]
		if node.IsLeaf() {
			for i := uint32(0); i < node.Count; i++ {
				seen[node.First+i]++
			}
			return
		}
		walk(node.Left, depth+1)
		walk(node.Right, depth+1)
	}
	walk(Root, 0)

	for i, count := range seen {
		require.Equalf(t, 1, count, "triangle %d should be reachable from exactly one leaf, got %d", i, count)
	}
	assert.LessOrEqual(t, maxDepth, 32)
}

func TestBuild_InternalNodeAABBContainsChildren(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	tris := make([]geom.Triangle, 500)
	for i := range tris {
		x := rng.Float32()*50 - 25
		tris[i] = triAt(x)
	}
	b := Build(tris, 4, 32)

	for _, n := range b.Nodes {
		if n.IsLeaf() {
			continue
		}
		left := b.Nodes[n.Left].AABB
		right := b.Nodes[n.Right].AABB
		union := left.Union(right)
		assert.LessOrEqual(t, n.AABB.Min.X(), union.Min.X()+1e-5)
		assert.LessOrEqual(t, n.AABB.Min.Y(), union.Min.Y()+1e-5)
		assert.LessOrEqual(t, n.AABB.Min.Z(), union.Min.Z()+1e-5)
		assert.GreaterOrEqual(t, n.AABB.Max.X(), union.Max.X()-1e-5)
		assert.GreaterOrEqual(t, n.AABB.Max.Y(), union.Max.Y()-1e-5)
		assert.GreaterOrEqual(t, n.AABB.Max.Z(), union.Max.Z()-1e-5)
	}
}

func TestBuild_LeafSizeRespectsMaxExceptDepthCap(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	tris := make([]geom.Triangle, 100000)
	for i := range tris {
		x := rng.Float32()*1000 - 500
		tris[i] = triAt(x)
	}
	b := Build(tris, 4, 32)

	var walk func(idx uint32, depth int)
	walk = func(idx uint32, depth int) {
		require.LessOrEqual(t, depth, 32)
		node := b.Nodes[idx]
		if node.IsLeaf() {
			if depth < 32 {
				assert.LessOrEqual(t, node.Count, uint32(4))
			}
			return
		}
		walk(node.Left, depth+1)
		walk(node.Right, depth+1)
	}
	walk(Root, 0)
}

func TestOverlapping_FindsCoincidentCell(t *testing.T) {
	tris := []geom.Triangle{
		{V: [3]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}},
		{V: [3]mgl32.Vec3{{10, 10, 10}, {11, 10, 10}, {10, 11, 10}}},
	}
	b := Build(tris, 1, 32)

	var hits []int
	b.Overlapping(geom.AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{2, 2, 2}}, func(i int) {
		hits = append(hits, i)
	})
	require.Len(t, hits, 1)
}
