package collidesim

import (
	"context"
	"sync"

	rbt "github.com/emirpasic/gods/trees/redblacktree"
)

// segmentIDComparator orders quadtree node storage by SegmentID, so that a
// node's in-order traversal already yields segments in the canonical order
// the detection pass and event canonicalization rely on. This repurposes the
// red-black tree the teacher used for its sweep-line status structure
// (status.go) into a plain ID-ordered container for quadtree node storage.
func segmentIDComparator(a, b interface{}) int {
	ia, ib := a.(SegmentID), b.(SegmentID)
	switch {
	case ia < ib:
		return -1
	case ia > ib:
		return 1
	default:
		return 0
	}
}

// quadNode is a rectangular region of the simulation box holding the
// segments stored at exactly this depth (never duplicated into children),
// per the overflow-at-parent invariant of §4.2.
type quadNode struct {
	lo, hi   Vec2
	mid      Vec2
	depth    int
	segments *rbt.Tree // SegmentID -> *segment, ID-ordered
	children [4]*quadNode
}

var quadNodePool = sync.Pool{
	New: func() any { return &quadNode{} },
}

func getQuadNode(lo, hi Vec2, depth int) *quadNode {
	n := quadNodePool.Get().(*quadNode)
	n.lo, n.hi, n.depth = lo, hi, depth
	n.mid = Vec2{}
	n.children = [4]*quadNode{}
	n.segments = rbt.NewWith(segmentIDComparator)
	return n
}

// release returns n and its whole subtree to quadNodePool. Called once per
// step after detection has consumed the tree.
func (n *quadNode) release() {
	for i, child := range n.children {
		if child != nil {
			child.release()
			n.children[i] = nil
		}
	}
	n.segments = nil
	quadNodePool.Put(n)
}

func (n *quadNode) insert(seg *segment) {
	n.segments.Put(seg.id, seg)
}

// segmentSlice returns this node's own segments (not descendants') in ID
// order.
func (n *quadNode) segmentSlice() []*segment {
	values := n.segments.Values()
	out := make([]*segment, len(values))
	for i, v := range values {
		out[i] = v.(*segment)
	}
	return out
}

// quadrantOf reports which of the four child quadrants (0=NW,1=NE,2=SW,3=SE)
// fully contains the axis-aligned box [lo,hi], using strict inequalities
// against mid so that a box touching a midline exactly is reported as not
// fitting any single quadrant (ok=false) and is therefore retained at the
// parent, per the §4.2/§9 polarity requirement.
func quadrantOf(mid, lo, hi Vec2) (idx int, ok bool) {
	left := hi.X < mid.X
	right := lo.X > mid.X
	top := hi.Y < mid.Y
	bottom := lo.Y > mid.Y

	switch {
	case left && top:
		return 0, true
	case right && top:
		return 1, true
	case left && bottom:
		return 2, true
	case right && bottom:
		return 3, true
	default:
		return -1, false
	}
}

// buildQuadtree constructs a fresh quadtree over segs, rooted at the box
// described by cfg. Every segment ends up stored at exactly one node: the
// deepest node whose region fully contains its swept AABB.
func buildQuadtree(segs []*segment, cfg *Config) *quadNode {
	root := getQuadNode(cfg.BoxMin, cfg.BoxMax, 0)
	for _, s := range segs {
		root.insert(s)
	}
	root.subdivide(cfg)
	return root
}

// subdivide recursively splits n into four children once n holds more than
// cfg.QuadtreeMaxObjects segments and n hasn't reached cfg.QuadtreeMaxDepth.
// Segments that straddle the midlines are left at n; only segments whose
// swept AABB fits fully inside one child quadrant are moved down.
func (n *quadNode) subdivide(cfg *Config) {
	if n.segments.Size() <= cfg.QuadtreeMaxObjects || n.depth >= cfg.QuadtreeMaxDepth {
		return
	}

	n.mid = Vec2{X: (n.lo.X + n.hi.X) / 2, Y: (n.lo.Y + n.hi.Y) / 2}
	childBounds := [4][2]Vec2{
		{n.lo, n.mid},                                   // NW
		{Vec2{X: n.mid.X, Y: n.lo.Y}, Vec2{X: n.hi.X, Y: n.mid.Y}}, // NE
		{Vec2{X: n.lo.X, Y: n.mid.Y}, Vec2{X: n.mid.X, Y: n.hi.Y}}, // SW
		{n.mid, n.hi}, // SE
	}

	var moved [4][]*segment
	var toRemove []SegmentID

	it := n.segments.Iterator()
	for it.Next() {
		seg := it.Value().(*segment)
		idx, ok := quadrantOf(n.mid, seg.aabbLo, seg.aabbHi)
		if !ok {
			continue
		}
		moved[idx] = append(moved[idx], seg)
		toRemove = append(toRemove, it.Key().(SegmentID))
	}

	for _, id := range toRemove {
		n.segments.Remove(id)
	}

	for i, segs := range moved {
		if len(segs) == 0 {
			continue
		}
		child := getQuadNode(childBounds[i][0], childBounds[i][1], n.depth+1)
		for _, s := range segs {
			child.insert(s)
		}
		n.children[i] = child
		child.subdivide(cfg)
	}
}

// ancestorChain is an immutable view of the segment lists stored at every
// ancestor of the node currently being visited, threaded down the recursion
// as an explicit argument rather than mutated in place. This is what lets
// parallel children descend with no shared mutable state (§4.2/§9): each
// child gets its own chain node pointing at the same, never-mutated parent
// chain.
type ancestorChain struct {
	segs   []*segment
	parent *ancestorChain
	total  int
}

func extendChain(parent *ancestorChain, segs []*segment) *ancestorChain {
	total := len(segs)
	if parent != nil {
		total += parent.total
	}
	return &ancestorChain{segs: segs, parent: parent, total: total}
}

func (c *ancestorChain) forEach(f func(*segment)) {
	for cur := c; cur != nil; cur = cur.parent {
		for _, s := range cur.segs {
			f(s)
		}
	}
}

// classifyPair canonicalizes (a,b) by ID and runs the §4.1 predicate.
func classifyPair(a, b *segment) (lo, hi *segment, kind IntersectionKind) {
	if a.id < b.id {
		lo, hi = a, b
	} else {
		lo, hi = b, a
	}
	kind = classify(lo, hi)
	return lo, hi, kind
}

// detectEvents implements the §4.2 "detect events on a node given an
// ancestor overflow list" algorithm, recursing into children in parallel via
// pool when the ancestor set threaded down so far is large enough to be
// worth the fork. A canceled ctx does not abort an in-progress detection —
// it only suppresses starting further forks, falling back to sequential
// descent for the remainder of the tree (§5).
func detectEvents(ctx context.Context, node *quadNode, ancestors *ancestorChain, cfg *Config, pool *workerPool) *eventList {
	local := newEventList()
	nodeSegs := node.segmentSlice()

	for i := 0; i < len(nodeSegs); i++ {
		for j := i + 1; j < len(nodeSegs); j++ {
			lo, hi, kind := classifyPair(nodeSegs[i], nodeSegs[j])
			if kind != None {
				local.appendEvent(lo, hi, kind)
			}
		}
	}

	ancestors.forEach(func(anc *segment) {
		for _, s := range nodeSegs {
			lo, hi, kind := classifyPair(anc, s)
			if kind != None {
				local.appendEvent(lo, hi, kind)
			}
		}
	})

	newChain := extendChain(ancestors, nodeSegs)

	var children []*quadNode
	for _, c := range node.children {
		if c != nil {
			children = append(children, c)
		}
	}

	if len(children) == 0 {
		return local
	}

	canFork := pool != nil && ctx.Err() == nil && newChain.total > cfg.ParallelThreshold && len(children) > 1
	if canFork {
		results := make([]*eventList, len(children))
		var wg sync.WaitGroup
		for i, child := range children {
			i, child := i, child
			wg.Add(1)
			pool.submit(func() {
				defer wg.Done()
				results[i] = detectEvents(ctx, child, newChain, cfg, pool)
			})
		}
		wg.Wait()
		for _, r := range results {
			local.concat(r)
		}
	} else {
		for _, child := range children {
			r := detectEvents(ctx, child, newChain, cfg, pool)
			local.concat(r)
		}
	}

	return local
}

// countSegments returns the total number of segments stored across the
// whole tree, used by tests to check the §8 property-5 invariant (every
// segment stored exactly once).
func (n *quadNode) countSegments() int {
	total := n.segments.Size()
	for _, c := range n.children {
		if c != nil {
			total += c.countSegments()
		}
	}
	return total
}
