package collidesim

import "errors"

// Sentinel errors returned at construction and mutation boundaries. Callers
// should use errors.Is to test for these; internal wrapping adds context with
// fmt.Errorf("...: %w", ...).
var (
	// ErrInvalidCapacity is returned by NewWorld when Config.Capacity is not
	// positive.
	ErrInvalidCapacity = errors.New("collidesim: capacity must be positive")

	// ErrInvalidBox is returned by NewWorld when the configured box bounds
	// are degenerate (BoxMin >= BoxMax on either axis).
	ErrInvalidBox = errors.New("collidesim: box bounds must satisfy min < max on both axes")

	// ErrInvalidTimeStep is returned by NewWorld when Config.TimeStep is
	// negative. A zero TimeStep is replaced by the default instead.
	ErrInvalidTimeStep = errors.New("collidesim: time step must be positive")

	// ErrDegenerateSegment is returned by AddSegment when p1 == p2, which
	// would give the segment zero length and therefore zero mass.
	ErrDegenerateSegment = errors.New("collidesim: segment endpoints must differ")

	// ErrIndexOutOfRange is returned by Segment(i) when i is outside
	// [0, NumSegments()).
	ErrIndexOutOfRange = errors.New("collidesim: segment index out of range")
)
