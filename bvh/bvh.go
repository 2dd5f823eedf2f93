// Package bvh builds a bounding volume hierarchy over a triangle array
// for point/AABB-overlap queries during voxelization. Shape (flat node
// array, integer left/right children) is adapted from the engine's
// voxelrt/rt/bvh.TLASBuilder; the split rule itself follows the
// original source's round-robin-axis midpoint partition rather than the
// engine's per-node longest-axis sort, since that is the algorithm this
// spec requires.
package bvh

import (
	"github.com/gekko3d/voxelmca/geom"
)

// Node is one entry of the flat node array. Leaf iff Left == Right == 0
// (see IsLeaf); a leaf covers Triangles[First:First+Count], and Count is
// 0 for an empty leaf. For an internal node, Left and Right are indices
// into the same array. Node 0 is always the root, so 0 is never a valid
// child reference.
type Node struct {
	AABB  geom.AABB
	Left  uint32
	Right uint32
	First uint32
	Count uint32
}

// IsLeaf reports whether n is a leaf. Left and Right are never 0 for an
// internal node (node 0 is the root, so no node can legitimately point
// back to it as a child) — that makes Left==Right==0 an unambiguous
// leaf marker even for an empty leaf whose Count is 0.
func (n Node) IsLeaf() bool { return n.Left == 0 && n.Right == 0 }

// BVH owns a materialized, permuted copy of the input triangles so leaf
// ranges are contiguous, plus the flat node array built over them.
type BVH struct {
	Triangles []geom.Triangle
	Nodes     []Node
}

// Root is always index 0.
const Root = 0

// Build constructs a BVH over mesh's triangles using a recursive
// midpoint partition with round-robin axis cycling (X, Y, Z, X, ...).
// leafMax bounds leaf triangle count (except where depthMax forces a
// larger leaf); depthMax bounds recursion depth. An empty triangle
// slice yields a single empty leaf.
func Build(triangles []geom.Triangle, leafMax, depthMax int) *BVH {
	b := &BVH{
		Triangles: append([]geom.Triangle(nil), triangles...),
		Nodes:     make([]Node, 0, len(triangles)),
	}
	b.buildNode(0, len(b.Triangles), geom.AxisX, 0, leafMax, depthMax)
	return b
}

// buildNode appends a new node for the range [first, last) and returns
// its index. depth is the current recursion depth (root is depth 0).
func (b *BVH) buildNode(first, last int, axis geom.Axis, depth, leafMax, depthMax int) uint32 {
	idx := uint32(len(b.Nodes))
	b.Nodes = append(b.Nodes, Node{})

	var box geom.AABB
	if last > first {
		box = geom.TriangleAABB(b.Triangles[first])
		for i := first + 1; i < last; i++ {
			box = box.Union(geom.TriangleAABB(b.Triangles[i]))
		}
	}
	b.Nodes[idx].AABB = box

	if last-first <= leafMax || depth >= depthMax {
		b.Nodes[idx].First = uint32(first)
		b.Nodes[idx].Count = uint32(last - first)
		b.Nodes[idx].Left = 0
		b.Nodes[idx].Right = 0
		return idx
	}

	center := box.Center()
	threshold := axis.Component(center)
	mid := stablePartition(b.Triangles[first:last], func(t geom.Triangle) bool {
		return axis.Component(geom.TriangleAABB(t).Center()) < threshold
	}) + first

	nextAxis := axis.Next()
	left := b.buildNode(first, mid, nextAxis, depth+1, leafMax, depthMax)
	right := b.buildNode(mid, last, nextAxis, depth+1, leafMax, depthMax)

	// An empty side gets a point box at this node's center, which lies
	// inside this node's box, so it never widens the children's union.
	if mid == first {
		b.Nodes[left].AABB = geom.AABB{Min: center, Max: center}
	}
	if mid == last {
		b.Nodes[right].AABB = geom.AABB{Min: center, Max: center}
	}

	b.Nodes[idx].Left = left
	b.Nodes[idx].Right = right
	b.Nodes[idx].Count = 0
	b.Nodes[idx].First = 0
	return idx
}

// stablePartition reorders s in place so every element for which pred
// is true precedes every element for which it is false, preserving
// relative order within each group, and returns the split index.
func stablePartition(s []geom.Triangle, pred func(geom.Triangle) bool) int {
	kept := make([]geom.Triangle, 0, len(s))
	rest := make([]geom.Triangle, 0, len(s))
	for _, t := range s {
		if pred(t) {
			kept = append(kept, t)
		} else {
			rest = append(rest, t)
		}
	}
	copy(s, kept)
	copy(s[len(kept):], rest)
	return len(kept)
}

// Overlapping calls visit for every triangle index whose BVH leaf range
// may overlap query, doing a stack-based traversal of node AABBs — the
// shape the voxel kernel's AABB-vs-cell test drives.
func (b *BVH) Overlapping(query geom.AABB, visit func(triIdx int)) {
	if len(b.Nodes) == 0 {
		return
	}
	stack := make([]uint32, 0, 64)
	stack = append(stack, Root)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := b.Nodes[n]
		if !node.AABB.Overlaps(query) {
			continue
		}
		if node.IsLeaf() {
			for i := uint32(0); i < node.Count; i++ {
				visit(int(node.First + i))
			}
			continue
		}
		stack = append(stack, node.Left, node.Right)
	}
}
