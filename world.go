package collidesim

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// World owns the segment pool and orchestrates one step at a time: build the
// quadtree, detect events, sort and dispatch them to the solver, advance
// positions, and reflect walls (§4.4). A World is not safe for concurrent use
// by multiple goroutines calling Step/AddSegment simultaneously; the
// parallelism described in §5 is entirely internal to a single Step call.
type World struct {
	cfg    Config
	log    *zap.Logger
	pool   *workerPool
	nextID SegmentID

	segments []*segment

	lineLineCount uint64
	wallCount     uint64
	stepsRun      uint64
	lastStepDur   time.Duration
}

// NewWorld validates cfg and returns a fresh World with an empty segment
// pool. Logger may be nil, in which case a no-op logger is used.
func NewWorld(cfg Config, logger *zap.Logger) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	setFatalLogger(logger)
	return &World{
		cfg:      cfg,
		log:      logger,
		pool:     newWorkerPool(cfg.Workers),
		segments: make([]*segment, 0, cfg.Capacity),
	}, nil
}

// AddSegment assigns a monotonically-increasing SegmentID and adds a new
// segment to the pool. Must be called before the first Step; segments cannot
// currently be removed once added (the simulation has no despawn concept).
func (w *World) AddSegment(p1, p2, velocity Vec2, color Color) (SegmentID, error) {
	if p1 == p2 {
		return 0, fmt.Errorf("%w: p1=%v p2=%v", ErrDegenerateSegment, p1, p2)
	}
	id := w.nextID
	w.nextID++
	w.segments = append(w.segments, &segment{
		id:       id,
		p1:       p1,
		p2:       p2,
		velocity: velocity,
		color:    color,
	})
	return id, nil
}

// NumSegments returns the current size of the segment pool.
func (w *World) NumSegments() int { return len(w.segments) }

// Segment returns a read-only snapshot of segment i's current state.
func (w *World) Segment(i int) (SegmentView, error) {
	if i < 0 || i >= len(w.segments) {
		return SegmentView{}, fmt.Errorf("%w: index %d, have %d segments", ErrIndexOutOfRange, i, len(w.segments))
	}
	s := w.segments[i]
	return SegmentView{ID: s.id, P1: s.p1, P2: s.p2, Velocity: s.velocity, Color: s.color}, nil
}

// LineLineCount returns the total number of pairwise events dispatched to
// the solver so far. Monotone non-decreasing.
func (w *World) LineLineCount() uint64 { return atomic.LoadUint64(&w.lineLineCount) }

// WallCount returns the total number of wall reflections applied so far.
// Monotone non-decreasing.
func (w *World) WallCount() uint64 { return atomic.LoadUint64(&w.wallCount) }

// Snapshot returns a point-in-time copy of the World's counters and the
// duration of its most recent Step.
func (w *World) Snapshot() Metrics {
	return Metrics{
		NumLineLineCollisions: w.LineLineCount(),
		NumLineWallCollisions: w.WallCount(),
		NumSegments:           len(w.segments),
		StepsRun:              atomic.LoadUint64(&w.stepsRun),
		LastStepDuration:      w.lastStepDur,
	}
}

// Step runs one full detect → solve → advance → walls cycle (§4.4). If ctx
// is already canceled when Step is called, it returns an error wrapping
// context.Cause(ctx) and runs nothing. A ctx canceled once the step has
// started suppresses further quadtree-descent forking but otherwise runs the
// step to completion, so that collision state is never left half-applied
// (§5).
func (w *World) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("collidesim: step not started: %w", context.Cause(ctx))
	}

	start := time.Now()

	for _, s := range w.segments {
		s.updateSweep(w.cfg.TimeStep)
	}

	tree := buildQuadtree(w.segments, &w.cfg)
	raw := detectEvents(ctx, tree, nil, &w.cfg, w.pool)
	events := raw.toSlice()
	raw.release()
	tree.release()

	dispatched := sortAndDedup(events)
	for i := range dispatched {
		solve(&dispatched[i])
	}
	atomic.AddUint64(&w.lineLineCount, uint64(len(dispatched)))

	w.advancePositions()
	reflected := w.reflectWalls()
	atomic.AddUint64(&w.wallCount, uint64(reflected))

	atomic.AddUint64(&w.stepsRun, 1)
	w.lastStepDur = time.Since(start)

	w.log.Debug("step complete",
		zap.Int("raw_events", len(events)),
		zap.Int("dispatched_events", len(dispatched)),
		zap.Int("wall_reflections", reflected),
		zap.Duration("duration", w.lastStepDur),
	)

	return nil
}

// sortAndDedup sorts events by (l1.id, l2.id) and collapses consecutive
// duplicates with identical (l1,l2), keeping the first occurrence. This
// implements §4.4 step 2 and §4.5's determinism contract.
func sortAndDedup(events []event) []event {
	sort.Slice(events, func(i, j int) bool {
		if events[i].l1.id != events[j].l1.id {
			return events[i].l1.id < events[j].l1.id
		}
		return events[i].l2.id < events[j].l2.id
	})

	out := events[:0]
	for i, ev := range events {
		if i > 0 && ev.l1.id == out[len(out)-1].l1.id && ev.l2.id == out[len(out)-1].l2.id {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// advancePositions implements §4.4 step 4: p1 += velocity*dt; p2 +=
// velocity*dt for every segment, fanned out across the worker pool for
// large segment counts.
func (w *World) advancePositions() {
	dt := w.cfg.TimeStep
	w.pool.forEachChunk(len(w.segments), w.cfg.ParallelThreshold, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			s := w.segments[i]
			d := s.velocity.scale(dt)
			s.p1 = s.p1.add(d)
			s.p2 = s.p2.add(d)
		}
	})
}

// reflectWalls implements §4.4 step 5: per-axis independent wall reflection,
// returning the number of reflections applied this step.
func (w *World) reflectWalls() int {
	var reflected int32
	w.pool.forEachChunk(len(w.segments), w.cfg.ParallelThreshold, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if n := w.reflectWallsOne(w.segments[i]); n > 0 {
				atomic.AddInt32(&reflected, int32(n))
			}
		}
	})
	return int(reflected)
}

// reflectWallsOne reflects a single segment's velocity against any wall it
// has struck, checking the x and y axes independently, and returns the number
// of velocity components reflected (0, 1 or 2).
func (w *World) reflectWallsOne(s *segment) int {
	box := w.cfg
	reflected := 0

	if (s.p1.X > box.BoxMax.X || s.p2.X > box.BoxMax.X) && s.velocity.X > 0 {
		s.velocity.X = -s.velocity.X
		reflected++
	} else if (s.p1.X < box.BoxMin.X || s.p2.X < box.BoxMin.X) && s.velocity.X < 0 {
		s.velocity.X = -s.velocity.X
		reflected++
	}
	if (s.p1.Y > box.BoxMax.Y || s.p2.Y > box.BoxMax.Y) && s.velocity.Y > 0 {
		s.velocity.Y = -s.velocity.Y
		reflected++
	} else if (s.p1.Y < box.BoxMin.Y || s.p2.Y < box.BoxMin.Y) && s.velocity.Y < 0 {
		s.velocity.Y = -s.velocity.Y
		reflected++
	}
	return reflected
}
