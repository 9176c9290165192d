package collidesim

import "go.uber.org/zap"

// solve implements the §4.6 collision response for a single event. Callers
// must hold ev.l1.id < ev.l2.id (guaranteed by how eventList.appendEvent and
// classifyPair canonicalize events).
func solve(ev *event) {
	if ev.l1.id >= ev.l2.id {
		logFatalInvariant("solve called with unordered event segment ids",
			zap.Uint32("l1_id", uint32(ev.l1.id)), zap.Uint32("l2_id", uint32(ev.l2.id)))
		panic("collidesim: solve requires l1.id < l2.id")
	}

	if ev.kind == AlreadyIntersected {
		unstick(ev.l1, ev.l2)
		return
	}

	l1, l2 := ev.l1, ev.l2

	var face Vec2
	if ev.kind == L1WithL2 {
		face = l2.p2.sub(l2.p1).normalized()
	} else {
		face = l1.p2.sub(l1.p1).normalized()
	}
	normal := face.orthogonal()

	v1Face := l1.velocity.dot(face)
	v2Face := l2.velocity.dot(face)
	v1Normal := l1.velocity.dot(normal)
	v2Normal := l2.velocity.dot(normal)

	m1 := l1.length()
	m2 := l2.length()

	newV1Normal := ((m1-m2)/(m1+m2))*v1Normal + (2*m2/(m1+m2))*v2Normal
	newV2Normal := (2*m1/(m1+m2))*v1Normal + ((m2-m1)/(m1+m2))*v2Normal

	l1.velocity = normal.scale(newV1Normal).add(face.scale(v1Face))
	l2.velocity = normal.scale(newV2Normal).add(face.scale(v2Face))
}

// unstick handles the ALREADY_INTERSECTED escape hatch: both segments are
// given velocities of unchanged magnitude pointing away from the crossing
// point, toward whichever of their own endpoints is farther from it. This
// conserves nothing by design.
func unstick(l1, l2 *segment) {
	p := lineIntersectionPoint(l1.p1, l1.p2, l2.p1, l2.p2)

	l1.velocity = awayFrom(p, l1).scale(l1.velocity.length())
	l2.velocity = awayFrom(p, l2).scale(l2.velocity.length())
}

// awayFrom returns the unit vector from p toward the farther of s's two
// endpoints.
func awayFrom(p Vec2, s *segment) Vec2 {
	if s.p1.sub(p).length() < s.p2.sub(p).length() {
		return s.p2.sub(p).normalized()
	}
	return s.p1.sub(p).normalized()
}
