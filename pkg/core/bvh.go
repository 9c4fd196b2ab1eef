package core

// BVH is a height-balanced binary tree of nested bounding boxes over
// scene primitives. It is built by online insertion: each primitive
// descends from the root toward the child whose box it overlaps most,
// and AVL rotations on the way back up keep sibling heights within one
// of each other. Once built, the tree is read-only and safe for
// concurrent queries.
type BVH struct {
	len    int
	height int
	root   *bvhNode
}

// NewBVH creates an empty index
func NewBVH() *BVH {
	return &BVH{}
}

// BuildBVH creates an index containing all the given primitives
func BuildBVH(objects []Primitive) *BVH {
	bvh := NewBVH()
	for _, object := range objects {
		bvh.Insert(object)
	}
	return bvh
}

// Len returns the number of primitives in the index
func (b *BVH) Len() int {
	return b.len
}

// IsEmpty reports whether the index contains no primitives
func (b *BVH) IsEmpty() bool {
	return b.len == 0
}

// Height returns the number of levels in the tree (0 when empty)
func (b *BVH) Height() int {
	return b.height
}

// Insert adds a primitive to the index, rebalancing along the insertion path
func (b *BVH) Insert(object Primitive) {
	leaf := &bvhNode{
		kind:   nodeLeaf,
		aabb:   object.BoundingBox(),
		object: object,
	}

	if b.root == nil {
		b.root = leaf
	} else {
		b.root.insert(leaf)
	}

	b.len++
	b.height = b.root.height + 1
}

// Hit returns the nearest intersection within clip, if any
func (b *BVH) Hit(ray Ray, clip Clip) (Manifold, bool) {
	if b.root == nil {
		return Manifold{}, false
	}
	return b.root.hit(ray, clip)
}

// Iter returns a depth-first iterator over the primitives in the index.
// Every leaf is produced exactly once; the order is unspecified but
// deterministic for a fixed tree shape.
func (b *BVH) Iter() *BVHIter {
	if b.root == nil {
		return &BVHIter{}
	}
	return &BVHIter{stack: []*bvhNode{b.root}}
}

type nodeKind uint8

const (
	// nodeEmpty is a transient placeholder that exists only while a
	// node is being swapped out during insertion or rotation. It must
	// never be observable outside those helpers.
	nodeEmpty nodeKind = iota
	nodeLeaf
	nodeParent
)

type bvhNode struct {
	kind   nodeKind
	aabb   AABB
	height int
	left   *bvhNode
	right  *bvhNode
	object Primitive
}

func parentNode(left, right *bvhNode) bvhNode {
	height := left.height
	if right.height > height {
		height = right.height
	}
	return bvhNode{
		kind:   nodeParent,
		aabb:   left.aabb.Union(right.aabb),
		height: height + 1,
		left:   left,
		right:  right,
	}
}

// insert merges other into the subtree rooted at n. At a parent it
// descends into the child with the larger box overlap (ties go right);
// at a leaf it replaces the leaf with a parent over the old leaf and
// the new node. Each level on the way back up refreshes its box and
// height and rebalances if needed.
func (n *bvhNode) insert(other *bvhNode) {
	switch n.kind {
	case nodeParent:
		if other.aabb.Overlap(n.left.aabb) > other.aabb.Overlap(n.right.aabb) {
			n.left.insert(other)
		} else {
			n.right.insert(other)
		}
		n.aabb = n.left.aabb.Union(n.right.aabb)
		n.height = maxHeight(n.left, n.right) + 1
	case nodeLeaf:
		left := new(bvhNode)
		*left, *n = *n, bvhNode{kind: nodeEmpty}
		*n = parentNode(left, other)
	default:
		panic("bvh: insert reached a transient empty node")
	}

	if !n.isBalanced() {
		n.rebalance()
	}
}

func maxHeight(left, right *bvhNode) int {
	if left.height > right.height {
		return left.height
	}
	return right.height
}

func (n *bvhNode) balance() int {
	switch n.kind {
	case nodeParent:
		return n.right.height - n.left.height
	case nodeLeaf:
		return 0
	default:
		panic("bvh: balance of a transient empty node")
	}
}

func (n *bvhNode) isBalanced() bool {
	b := n.balance()
	return -1 <= b && b <= 1
}

// rebalance applies the AVL rotation matching the balance factors of n
// and the taller child. Rotations restructure four subtrees; the set of
// primitives in the tree never changes.
func (n *bvhNode) rebalance() {
	if n.isBalanced() {
		return
	}

	balance := n.balance()
	switch {
	case balance < 0 && n.left.balance() <= 0:
		n.rotateRight()
	case balance > 0 && n.right.balance() >= 0:
		n.rotateLeft()
	case balance < 0:
		n.rotateLeftRight()
	default:
		n.rotateRightLeft()
	}
}

func (n *bvhNode) rotateRight() {
	if n.kind != nodeParent || n.left.kind != nodeParent {
		panic("bvh: right rotation on a malformed subtree")
	}

	this := *n
	*n = bvhNode{kind: nodeEmpty}

	pivot := this.left
	right := new(bvhNode)
	*right = parentNode(pivot.right, this.right)
	*n = parentNode(pivot.left, right)
}

func (n *bvhNode) rotateLeft() {
	if n.kind != nodeParent || n.right.kind != nodeParent {
		panic("bvh: left rotation on a malformed subtree")
	}

	this := *n
	*n = bvhNode{kind: nodeEmpty}

	pivot := this.right
	left := new(bvhNode)
	*left = parentNode(this.left, pivot.left)
	*n = parentNode(left, pivot.right)
}

func (n *bvhNode) rotateLeftRight() {
	n.left.rotateLeft()
	n.rotateRight()
}

func (n *bvhNode) rotateRightLeft() {
	n.right.rotateRight()
	n.rotateLeft()
}

// hit performs a branch-and-bound nearest-hit query: a child is visited
// only if its box passes the slab test, and the left child's result
// shrinks the clip window for the right child. Ties keep the left hit.
func (n *bvhNode) hit(ray Ray, clip Clip) (Manifold, bool) {
	switch n.kind {
	case nodeLeaf:
		if !n.aabb.Hit(ray, clip) {
			return Manifold{}, false
		}
		return n.object.Hit(ray, clip)
	case nodeParent:
		if !n.aabb.Hit(ray, clip) {
			return Manifold{}, false
		}

		best, ok := n.left.hit(ray, clip)
		if ok {
			clip.Max = best.T
		}
		if manifold, hit := n.right.hit(ray, clip); hit && (!ok || manifold.T < best.T) {
			return manifold, true
		}
		return best, ok
	default:
		panic("bvh: query reached a transient empty node")
	}
}

// BVHIter iterates the primitives of a BVH depth-first, always
// descending into the shorter subtree first to bound stack growth.
type BVHIter struct {
	stack []*bvhNode
}

// Next returns the next primitive, or ok=false when exhausted
func (it *BVHIter) Next() (Primitive, bool) {
	if len(it.stack) == 0 {
		return nil, false
	}

	node := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]

	for {
		switch node.kind {
		case nodeParent:
			if node.left.height < node.right.height {
				it.stack = append(it.stack, node.right)
				node = node.left
			} else {
				it.stack = append(it.stack, node.left)
				node = node.right
			}
		case nodeLeaf:
			return node.object, true
		default:
			panic("bvh: iteration reached a transient empty node")
		}
	}
}
