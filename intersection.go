package collidesim

import "go.uber.org/zap"

// IntersectionKind classifies the relationship between two swept segments
// over one time step, as produced by classify.
type IntersectionKind int

const (
	// None means the two segments' swept parallelograms do not interact
	// during the step.
	None IntersectionKind = iota
	// AlreadyIntersected means the segments cross each other at time zero,
	// before either moves.
	AlreadyIntersected
	// L1WithL2 means l1's swept sweep is struck by l2's side (l1 is
	// "swallowed" into l2's sweep).
	L1WithL2
	// L2WithL1 means l2's swept sweep is struck by l1's side (l1 passes
	// all the way through l2's sweep).
	L2WithL1
)

// classify implements the §4.1 intersection predicate. l1 and l2 must have
// up-to-date swept state (updateSweep already called for this step's dt) and
// must satisfy l1.id < l2.id; callers hold that invariant so that the result
// can be canonicalized into an Event without further reordering.
func classify(l1, l2 *segment) IntersectionKind {
	if l1.id >= l2.id {
		logFatalInvariant("classify called with unordered segment ids",
			zap.Uint32("l1_id", uint32(l1.id)), zap.Uint32("l2_id", uint32(l2.id)))
		panic("collidesim: classify requires l1.id < l2.id")
	}

	if !aabbOverlap(l1, l2) {
		return None
	}

	if segmentsCross(l1.p1, l1.p2, l2.p1, l2.p2) {
		return AlreadyIntersected
	}

	// Transform into l1's frame: subtract l1's displacement from l2's swept
	// endpoints to get the far side of the parallelogram swept out by l2
	// relative to l1.
	rel := l2.delta.sub(l1.delta)
	p1 := l2.p1.add(rel)
	p2 := l2.p2.add(rel)

	numCrossings := 0
	topIntersected := false
	botIntersected := false

	if segmentsCross(l1.p1, l1.p2, p1, p2) {
		numCrossings++
	}
	if segmentsCross(l1.p1, l1.p2, p1, l2.p1) {
		numCrossings++
		topIntersected = true
	}
	if segmentsCross(l1.p1, l1.p2, p2, l2.p2) {
		numCrossings++
		botIntersected = true
	}

	if numCrossings == 2 {
		return L2WithL1
	}

	if pointInParallelogram(l1.p1, l2.p1, l2.p2, p1, p2) &&
		pointInParallelogram(l1.p2, l2.p1, l2.p2, p1, p2) {
		return L1WithL2
	}

	if numCrossings == 0 {
		return None
	}

	// Exactly one crossing: disambiguate by the signed angle between the
	// two segments' directions.
	v1 := l1.p2.sub(l1.p1)
	v2 := l2.p2.sub(l2.p1)
	angle := signedAngle(v1, v2)

	if (topIntersected && angle < 0) || (botIntersected && angle > 0) {
		return L2WithL1
	}
	return L1WithL2
}
