package collidesim

import "sync"

// event is a canonicalized (l1, l2, kind) triple: l1.id < l2.id always holds
// for events produced by appendEvent. Its lifetime is that of the current
// step only — the handles it holds are non-owning and are not used once the
// step's solve phase has finished.
type event struct {
	l1, l2 *segment
	kind   IntersectionKind
	next   *event
}

var eventNodePool = sync.Pool{
	New: func() any { return &event{} },
}

// eventList is an append-only singly-linked list of events with O(1) append
// and O(1) concatenation, used as the accumulator for detection.
//
// For parallel detection, eventList doubles as a reducer: the identity is an
// empty list (newEventList), the combine operation is concat (associative —
// order within the combined list is unspecified and must never be relied on),
// and destroy is release, which returns every node to eventNodePool.
type eventList struct {
	head, tail *event
	count      int
}

func newEventList() *eventList {
	return &eventList{}
}

// appendEvent adds (l1, l2, kind) to the list, canonicalizing so that the
// lower ID is always l1. l1 and l2 must be distinct segments.
func (l *eventList) appendEvent(a, b *segment, kind IntersectionKind) {
	lo, hi := a, b
	if hi.id < lo.id {
		lo, hi = hi, lo
	}
	n := eventNodePool.Get().(*event)
	n.l1, n.l2, n.kind, n.next = lo, hi, kind, nil

	if l.head == nil {
		l.head = n
	} else {
		l.tail.next = n
	}
	l.tail = n
	l.count++
}

// concat splices other onto the end of l in O(1) and empties other. This is
// the reducer combine operation: associative, so parallel reduction over any
// split of the work produces the same resulting multiset of events.
func (l *eventList) concat(other *eventList) {
	if other.head == nil {
		return
	}
	if l.head == nil {
		l.head, l.tail, l.count = other.head, other.tail, other.count
	} else {
		l.tail.next = other.head
		l.tail = other.tail
		l.count += other.count
	}
	other.head, other.tail, other.count = nil, nil, 0
}

// release returns every node in the list to eventNodePool and empties the
// list. This is the reducer destroy operation.
func (l *eventList) release() {
	for n := l.head; n != nil; {
		next := n.next
		n.l1, n.l2, n.next = nil, nil, nil
		eventNodePool.Put(n)
		n = next
	}
	l.head, l.tail, l.count = nil, nil, 0
}

// toSlice copies the list into a flat, deterministically sortable slice,
// used by World.Step on detectEvents' result right before the §4.4/§4.5
// sort-and-dedup pass.
func (l *eventList) toSlice() []event {
	out := make([]event, 0, l.count)
	for n := l.head; n != nil; n = n.next {
		out = append(out, *n)
	}
	return out
}
