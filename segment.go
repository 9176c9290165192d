package collidesim

// Color is the decorative color of a segment. It plays no role in physics.
type Color int

const (
	Red Color = iota
	Gray
)

// SegmentID is a unique, totally-ordered identifier assigned at AddSegment
// time. Ordering on IDs is the canonical tie-break used everywhere a pair of
// segments needs a stable order: event canonicalization, the solver's entry
// assertion, and quadtree node storage.
type SegmentID uint32

// segment is a moving line segment together with the swept state derived
// from its endpoints, velocity, and the world's time step. The swept fields
// are recomputed once per step by updateSweep and are only valid for the
// step during which they were computed.
type segment struct {
	id       SegmentID
	p1, p2   Vec2
	velocity Vec2
	color    Color

	// delta is velocity*dt for the current step.
	delta Vec2
	// p3, p4 are p1, p2 advanced by delta: the endpoints at step end.
	p3, p4 Vec2
	// aabbLo, aabbHi bound the convex hull of {p1,p2,p3,p4}, the swept
	// parallelogram. Always aabbLo <= aabbHi componentwise.
	aabbLo, aabbHi Vec2
}

// length returns the Euclidean length of the segment, used by the solver as
// its mass. Zero-length segments are rejected at AddSegment time so this is
// never zero for a live segment.
func (s *segment) length() float64 {
	return s.p2.sub(s.p1).length()
}

// updateSweep recomputes the segment's swept endpoints and AABB for a step of
// duration dt. It must be called once per segment at the start of every step,
// before the segment is inserted into the quadtree.
func (s *segment) updateSweep(dt float64) {
	s.delta = s.velocity.scale(dt)
	s.p3 = s.p1.add(s.delta)
	s.p4 = s.p2.add(s.delta)

	s.aabbLo = Vec2{
		X: min2(min2(s.p1.X, s.p2.X), min2(s.p3.X, s.p4.X)),
		Y: min2(min2(s.p1.Y, s.p2.Y), min2(s.p3.Y, s.p4.Y)),
	}
	s.aabbHi = Vec2{
		X: max2(max2(s.p1.X, s.p2.X), max2(s.p3.X, s.p4.X)),
		Y: max2(max2(s.p1.Y, s.p2.Y), max2(s.p3.Y, s.p4.Y)),
	}
}

// aabbOverlap reports whether the swept AABBs of two segments overlap.
func aabbOverlap(a, b *segment) bool {
	return a.aabbLo.X <= b.aabbHi.X && a.aabbHi.X >= b.aabbLo.X &&
		a.aabbLo.Y <= b.aabbHi.Y && a.aabbHi.Y >= b.aabbLo.Y
}

// SegmentView is the read-only, copyable snapshot of a segment's current
// state exposed to callers via World.Segment, intended for rendering.
type SegmentView struct {
	ID       SegmentID
	P1, P2   Vec2
	Velocity Vec2
	Color    Color
}
