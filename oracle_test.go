package collidesim

// bruteForceEvents is the O(n^2) brute-force broad phase: it classifies
// every pair directly, with no quadtree involved. It is the test oracle the
// quadtree-driven detectEvents is checked against, in the spirit of the
// teacher's CountIntersectionsNaive cross-check against its Bentley-Ottmann
// implementation.
func bruteForceEvents(segs []*segment) []event {
	var out []event
	for i := 0; i < len(segs); i++ {
		for j := i + 1; j < len(segs); j++ {
			lo, hi, kind := classifyPair(segs[i], segs[j])
			if kind != None {
				out = append(out, event{l1: lo, l2: hi, kind: kind})
			}
		}
	}
	return out
}

// eventKey is a comparable projection of an event used to compare event
// sets irrespective of slice order.
type eventKey struct {
	l1, l2 SegmentID
	kind   IntersectionKind
}

func keyOf(e event) eventKey {
	return eventKey{l1: e.l1.id, l2: e.l2.id, kind: e.kind}
}

func keySet(events []event) map[eventKey]int {
	m := make(map[eventKey]int, len(events))
	for _, e := range events {
		m[keyOf(e)]++
	}
	return m
}
